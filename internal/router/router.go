package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/beqaperanidze/prj-customer-notification/internal/handler"
	"github.com/beqaperanidze/prj-customer-notification/internal/middleware"
	"github.com/beqaperanidze/prj-customer-notification/pkg/metrics"
)

// Handler is anything that mounts routes on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine        *gin.Engine
	auth          *middleware.AuthMiddleware
	healthH       *handler.HealthHandler
	authH         Handler
	customerH     Handler
	addressH      Handler
	preferenceH   Handler
	notificationH Handler
}

type Config struct {
	RateLimit  rate.Limit
	RateBurst  int
	CORSConfig middleware.CORSConfig
}

func New(
	auth *middleware.AuthMiddleware,
	healthH *handler.HealthHandler,
	authH Handler,
	customerH Handler,
	addressH Handler,
	preferenceH Handler,
	notificationH Handler,
	m *metrics.Metrics,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(m),
		middleware.ErrorHandler(),
		middleware.CORS(config.CORSConfig),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return &Router{
		engine:        engine,
		auth:          auth,
		healthH:       healthH,
		authH:         authH,
		customerH:     customerH,
		addressH:      addressH,
		preferenceH:   preferenceH,
		notificationH: notificationH,
	}
}

func (r *Router) Setup() {
	r.setupOperational()

	api := r.engine.Group("/api")

	// Public routes
	r.authH.RegisterRoutes(api)

	// Everything else requires a valid admin token
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.customerH.RegisterRoutes(protected)
	r.addressH.RegisterRoutes(protected)
	r.preferenceH.RegisterRoutes(protected)
	r.notificationH.RegisterRoutes(protected)
}

func (r *Router) setupOperational() {
	health := r.engine.Group("/health")
	{
		health.GET("/live", r.healthH.LivenessCheck)
		health.GET("/ready", r.healthH.ReadinessCheck)
	}
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
