package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onlycabs/booking-backend/booking"
	"github.com/onlycabs/booking-backend/flow"
	"github.com/onlycabs/booking-backend/internal/middleware"
	"github.com/onlycabs/booking-backend/quote"
)

type createBookingRequest struct {
	PickUp       string `json:"pickUp"`
	DropOff      string `json:"dropOff"`
	SelectedRide string `json:"selectedRide"`
}

// createBookingHandler submits the location-and-ride screen. Unlike the
// onboarding and driver writes, this one is required: the flow does not
// advance to the quote screen unless the booking record landed.
func (a *API) createBookingHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	sess, ok := a.session(c)
	if !ok {
		return
	}
	if sess.State() != flow.LocationAndRideSelection {
		respondTransitionError(c, flow.ErrInvalidTransition)
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	ride, err := booking.ParseRideClass(req.SelectedRide)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_FAILED", "message": err.Error()})
		return
	}

	draft := sess.Draft()
	draft.PickUp = req.PickUp
	draft.DropOff = req.DropOff
	draft.SelectRide(ride)
	if !draft.ReadyToBook() {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_FAILED", "message": flow.ErrNotReady.Error()})
		return
	}

	if err := sess.BeginAction(); err != nil {
		respondTransitionError(c, err)
		return
	}
	defer sess.EndAction()

	id, err := a.gw.CreateRecord(c, booking.Collection, draft.Fields())
	middleware.ObservePersistenceWrite(booking.Collection, err)
	if err != nil {
		logger.ErrorContext(c, "failed to save booking", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"code": "PERSISTENCE_FAILED", "message": "Could not save booking. Please try again."})
		return
	}

	if err := sess.CompleteSelection(req.PickUp, req.DropOff, ride); err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId":    sess.ID.String(),
		"state":        sess.State(),
		"bookingId":    id.String(),
		"pickUp":       req.PickUp,
		"dropOff":      req.DropOff,
		"selectedRide": string(ride),
	})
}

// quoteHandler resolves pricing for the trip carried on the session. The
// four upstream requests run concurrently; whatever settled successfully
// is recorded on the draft and returned even when one of them failed.
func (a *API) quoteHandler(c *gin.Context) {
	sess, ok := a.session(c)
	if !ok {
		return
	}
	if sess.State() != flow.QuoteSummary {
		respondTransitionError(c, flow.ErrInvalidTransition)
		return
	}

	draft := sess.Draft()
	q, fetchErr := a.quotes.FetchAll(c, draft.PickUp, draft.DropOff, draft.Ride)

	if err := sess.ResolveQuote(q.Fare, q.DistanceKM, q.SurgeMultiplier, q.TransitInfo, q.BestRouteInfo); err != nil {
		respondTransitionError(c, err)
		return
	}

	if fetchErr != nil {
		var fe *quote.FetchError
		if errors.As(fetchErr, &fe) {
			c.JSON(http.StatusBadGateway, gin.H{
				"code":    "QUOTE_FETCH_FAILED",
				"message": "Could not fetch ride data. Please try again.",
				"quote":   q,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": sess.ID.String(),
		"state":     sess.State(),
		"quote":     q,
	})
}
