package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onlycabs/booking-backend/flow"
	"github.com/onlycabs/booking-backend/form"
	"github.com/onlycabs/booking-backend/internal/middleware"
	"github.com/onlycabs/booking-backend/rider"
)

type onboardingRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Age      int    `json:"age"`
}

// onboardingHandler submits the onboarding form. The profile write is
// fire-and-forget: a storage outage is logged but never blocks the rider
// from moving on.
func (a *API) onboardingHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	sess, ok := a.session(c)
	if !ok {
		return
	}
	if sess.State() != flow.Onboarding {
		respondTransitionError(c, flow.ErrInvalidTransition)
		return
	}

	var req onboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	if err := sess.BeginAction(); err != nil {
		respondTransitionError(c, err)
		return
	}
	defer sess.EndAction()

	age := rider.ClampAge(req.Age)

	screen := form.NewSession("name", "username", "password")
	screen.Set("name", req.Name)
	screen.Set("username", req.Username)
	screen.Set("password", req.Password)

	err := screen.Submit(func(values map[string]string) error {
		profile := rider.Profile{
			Name:     values["name"],
			Username: values["username"],
			Password: values["password"],
			Age:      age,
		}

		fields, err := profile.Fields()
		if err != nil {
			return err
		}

		_, err = a.gw.CreateRecord(c, rider.Collection, fields)
		middleware.ObservePersistenceWrite(rider.Collection, err)
		if err != nil {
			// Navigation happens regardless of the write outcome.
			logger.ErrorContext(c, "failed to save user profile, continuing", "error", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, form.ErrIncomplete) {
			c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_FAILED", "message": err.Error()})
			return
		}
		logger.ErrorContext(c, "onboarding submit failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if err := sess.CompleteOnboarding(req.Name, age); err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": sess.ID.String(),
		"state":     sess.State(),
		"userName":  req.Name,
		"userAge":   age,
	})
}
