package handlers

import (
	"aircon_control/internal/logger"
	"aircon_control/internal/metrics"
	"aircon_control/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// NewHandler constructs a new HTTP handler with dependencies. log and m may be nil.
func NewHandler(services *service.Service, log *logger.Logger, m *metrics.Metrics) *Handler {
	return &Handler{services: services, log: log, metrics: m}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.metrics.Middleware())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// state + comfort stream; token via header or ?access_token=
	router.GET("/ws", h.userIdMiddleware, h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerAirconRoutes(api)
		h.registerComfortRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerAirconRoutes(api *gin.RouterGroup) {
	aircon := api.Group("/aircon")
	{
		// Body example: {"T":30,"RH":70,"state_now":{"power":true,"setpoint":30}}
		aircon.POST("/auto", h.decideAuto)
		aircon.POST("/auto/run", h.runAuto)
		aircon.POST("/auto/stop", h.stopAuto)
		aircon.POST("/control", h.controlAircon)
		aircon.POST("/off", h.powerOff)
		aircon.GET("/state", h.getState)
	}
}

func (h *Handler) registerComfortRoutes(api *gin.RouterGroup) {
	api.POST("/comfort", h.assessComfort)
	api.GET("/comfort/latest", h.latestComfort)
	api.GET("/readings", h.getReadings)
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
