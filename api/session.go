package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onlycabs/booking-backend/flow"
)

type sessionResponse struct {
	SessionID string     `json:"sessionId"`
	State     flow.State `json:"state"`
}

func (a *API) createSessionHandler(c *gin.Context) {
	sess := a.flows.Create()
	c.JSON(http.StatusCreated, sessionResponse{SessionID: sess.ID.String(), State: sess.State()})
}

func (a *API) getSessionHandler(c *gin.Context) {
	sess, ok := a.session(c)
	if !ok {
		return
	}

	d := sess.Draft()
	c.JSON(http.StatusOK, gin.H{
		"sessionId": sess.ID.String(),
		"state":     sess.State(),
		"userName":  d.UserName,
		"userAge":   d.UserAge,
	})
}

func (a *API) beginHandler(c *gin.Context) {
	sess, ok := a.session(c)
	if !ok {
		return
	}

	if err := sess.Begin(); err != nil {
		respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{SessionID: sess.ID.String(), State: sess.State()})
}

func (a *API) backHandler(c *gin.Context) {
	sess, ok := a.session(c)
	if !ok {
		return
	}

	if err := sess.Back(); err != nil {
		respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{SessionID: sess.ID.String(), State: sess.State()})
}

func (a *API) goHomeHandler(c *gin.Context) {
	sess, ok := a.session(c)
	if !ok {
		return
	}

	if err := sess.GoHome(); err != nil {
		respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{SessionID: sess.ID.String(), State: sess.State()})
}

func respondTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, flow.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"code": "INVALID_TRANSITION", "message": err.Error()})
	case errors.Is(err, flow.ErrActionInFlight):
		c.JSON(http.StatusConflict, gin.H{"code": "ACTION_IN_FLIGHT", "message": err.Error()})
	case errors.Is(err, flow.ErrNotReady):
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_FAILED", "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
