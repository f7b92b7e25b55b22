package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/onlycabs/booking-backend/driver"
	"github.com/onlycabs/booking-backend/flow"
	"github.com/onlycabs/booking-backend/form"
	"github.com/onlycabs/booking-backend/internal/middleware"
)

type driverRegistrationRequest struct {
	Name         string `json:"name"`
	License      string `json:"license"`
	LicensePlate string `json:"licensePlate"`
	Model        string `json:"model"`
	Phone        string `json:"phone"`
	Rating       string `json:"rating"`
	Vehicle      string `json:"vehicle"`
}

// driverRegistrationHandler submits the driver registration form. Like
// onboarding, the write is fire-and-forget.
func (a *API) driverRegistrationHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	sess, ok := a.session(c)
	if !ok {
		return
	}

	// Registration is an optional branch off the onboarding screen.
	if sess.State() == flow.Onboarding {
		if err := sess.EnterDriverRegistration(); err != nil {
			respondTransitionError(c, err)
			return
		}
	}
	if sess.State() != flow.DriverRegistration {
		respondTransitionError(c, flow.ErrInvalidTransition)
		return
	}

	var req driverRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	if err := sess.BeginAction(); err != nil {
		respondTransitionError(c, err)
		return
	}
	defer sess.EndAction()

	screen := form.NewSession("name", "license", "licensePlate", "model", "phone", "rating", "vehicle")
	screen.Set("name", req.Name)
	screen.Set("license", req.License)
	screen.Set("licensePlate", req.LicensePlate)
	screen.Set("model", req.Model)
	screen.Set("phone", req.Phone)
	screen.Set("rating", req.Rating)
	screen.Set("vehicle", req.Vehicle)

	err := screen.Submit(func(values map[string]string) error {
		record := driver.Record{
			Name:         values["name"],
			License:      values["license"],
			LicensePlate: values["licensePlate"],
			Model:        values["model"],
			Phone:        cast.ToInt64(values["phone"]),
			Rating:       values["rating"],
			Vehicle:      values["vehicle"],
		}

		_, err := a.gw.CreateRecord(c, driver.Collection, record.Fields())
		middleware.ObservePersistenceWrite(driver.Collection, err)
		if err != nil {
			logger.ErrorContext(c, "failed to save driver record, continuing", "error", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, form.ErrIncomplete) {
			c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_FAILED", "message": err.Error()})
			return
		}
		logger.ErrorContext(c, "driver registration submit failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if err := sess.CompleteDriverRegistration(); err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionResponse{SessionID: sess.ID.String(), State: sess.State()})
}

// bookNowHandler confirms the quote and assigns the best-rated driver.
func (a *API) bookNowHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	sess, ok := a.session(c)
	if !ok {
		return
	}

	if err := sess.BookNow(); err != nil {
		respondTransitionError(c, err)
		return
	}

	best, err := driver.BestRated(c, a.gw)
	if err != nil {
		if errors.Is(err, driver.ErrNoDrivers) {
			c.JSON(http.StatusOK, gin.H{
				"sessionId": sess.ID.String(),
				"state":     sess.State(),
				"driver":    nil,
				"message":   "No drivers available at the moment.",
			})
			return
		}
		logger.ErrorContext(c, "failed to fetch best-rated driver", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": sess.ID.String(),
		"state":     sess.State(),
		"driver":    best,
		"message":   "Driver has been assigned and will be there anytime soon.",
	})
}
