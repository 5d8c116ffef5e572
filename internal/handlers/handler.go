package handlers

import (
	"net/http"
	"time"

	_ "haber_bosch_console/internal/docs"
	"haber_bosch_console/internal/logger"
	"haber_bosch_console/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options tune the HTTP layer. Zero values are valid.
type Options struct {
	// Metrics is served on /metrics when set.
	Metrics http.Handler
	// StreamInterval is the default WebSocket snapshot push interval.
	StreamInterval time.Duration
	// Tracer defaults to the global provider's tracer.
	Tracer trace.Tracer
	// AllowedOrigins lists extra browser origins accepted on /ws besides the
	// serving host.
	AllowedOrigins []string
	// RequireAuth puts form edits and the event channel behind an operator
	// token.
	RequireAuth bool
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if opts.StreamInterval <= 0 || opts.StreamInterval > maxInterval {
		opts.StreamInterval = defaultInterval
	}
	return &Handler{services: services, log: log, opts: opts}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	if h.opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.opts.Metrics))
	}

	// Versioned API endpoints
	h.registerAPIRoutes(router)

	// Event channel (HTTP upgrade) on the same port
	ws := []gin.HandlerFunc{h.requestIDMiddleware}
	if h.opts.RequireAuth {
		ws = append(ws, h.operatorMiddleware(true))
	}
	router.GET("/ws", append(ws, h.wsConnect)...)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.requestIDMiddleware)
	{
		h.registerAuthRoutes(api)
		h.registerFormRoutes(api)
		h.registerCatalogRoutes(api)
		h.registerRunRoutes(api)
		api.GET("/canvas/:file", h.getCanvas)
	}
}

func (h *Handler) registerFormRoutes(api *gin.RouterGroup) {
	form := api.Group("/form")
	{
		form.GET("", h.getForm)
		// Body example: {"type":"change","control":"pressure_lhs","value":"205"}
		if h.opts.RequireAuth {
			form.POST("/events", h.operatorMiddleware(false), h.postEvent)
		} else {
			form.POST("/events", h.postEvent)
		}
	}
	api.GET("/request", h.getRequest)
}

func (h *Handler) registerCatalogRoutes(api *gin.RouterGroup) {
	cat := api.Group("/catalog")
	{
		cat.GET("", h.listCatalog)
		cat.GET("/:catalyst", h.getCatalogEntry)
	}
}

func (h *Handler) registerRunRoutes(api *gin.RouterGroup) {
	runs := api.Group("/runs")
	{
		runs.GET("", h.getRuns)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
