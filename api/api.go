package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/onlycabs/booking-backend/flow"
	"github.com/onlycabs/booking-backend/internal/middleware"
	"github.com/onlycabs/booking-backend/internal/o11y"
	"github.com/onlycabs/booking-backend/place"
	"github.com/onlycabs/booking-backend/quote"
	"github.com/onlycabs/booking-backend/store"
)

type API struct {
	r      *gin.Engine
	gw     store.Gateway
	quotes *quote.Client
	flows  *flow.Registry
	places place.Directory
	logger *slog.Logger
}

func New(gw store.Gateway, quotes *quote.Client, obs *o11y.Observability, metricsUsername, metricsPassword string) *API {
	a := &API{
		r:      gin.New(),
		gw:     gw,
		quotes: quotes,
		flows:  flow.NewRegistry(),
		places: place.Bengaluru,
		logger: obs.Logger,
	}

	a.r.Use(gin.Recovery())
	a.r.Use(middleware.Tracing())
	a.r.Use(middleware.Logging(obs.Logger))
	a.r.Use(middleware.Metrics(obs.Registry))
	// The mobile client is served from a dev origin; mirror the original
	// backend's permissive CORS setup.
	a.r.Use(cors.Default())

	a.r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	metrics := a.r.Group("/metrics")
	if metricsUsername != "" {
		metrics.Use(gin.BasicAuth(gin.Accounts{metricsUsername: metricsPassword}))
	}
	metrics.GET("", gin.WrapH(promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{})))

	a.r.GET("/places", a.placesHandler)

	a.r.POST("/sessions", a.createSessionHandler)
	a.r.GET("/sessions/:sessionId", a.getSessionHandler)
	a.r.POST("/sessions/:sessionId/begin", a.beginHandler)
	a.r.POST("/sessions/:sessionId/back", a.backHandler)
	a.r.POST("/sessions/:sessionId/home", a.goHomeHandler)
	a.r.POST("/sessions/:sessionId/onboarding", a.onboardingHandler)
	a.r.POST("/sessions/:sessionId/drivers", a.driverRegistrationHandler)
	a.r.POST("/sessions/:sessionId/booking", a.createBookingHandler)
	a.r.GET("/sessions/:sessionId/quote", a.quoteHandler)
	a.r.POST("/sessions/:sessionId/book", a.bookNowHandler)

	return a
}

func (a *API) Router() *gin.Engine {
	return a.r
}

// session resolves the :sessionId parameter, writing the error response
// itself when the session cannot be found.
func (a *API) session(c *gin.Context) (*flow.Session, bool) {
	id, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid sessionId"})
		return nil, false
	}

	sess, ok := a.flows.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"code": "SESSION_NOT_FOUND", "message": "Session not found"})
		return nil, false
	}
	return sess, true
}

func (a *API) placesHandler(c *gin.Context) {
	suggestions := a.places.Suggest(c.Query("q"))
	if suggestions == nil {
		suggestions = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
