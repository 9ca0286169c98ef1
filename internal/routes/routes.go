package routes

import (
	"io"
	"os"
	"time"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"tourhub/internal/controllers"
	"tourhub/internal/metrics"
	"tourhub/internal/middleware"
)

// Options configures the router.
type Options struct {
	Controller     *controllers.Controller
	Auth           *middleware.Auth
	Metrics        *metrics.Metrics
	LogWriter      io.Writer
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// SetupRouter builds the engine. It does not start listening.
func SetupRouter(opts Options) *gin.Engine {
	if opts.LogWriter == nil {
		opts.LogWriter = os.Stdout
	}
	r := gin.New()
	r.Use(
		ginlog.SetLogger(
			ginlog.WithWriter(opts.LogWriter),
			ginlog.WithUTC(true),
			ginlog.WithSkipPath([]string{"/healthz", "/metrics"}),
		),
		gin.Recovery(),
		middleware.CORS(opts.AllowedOrigins),
	)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	ctl := opts.Controller
	r.GET("/healthz", ctl.Healthz)
	WebSocketRoutes(r, ctl)

	api := r.Group("/api/v1", opts.Auth.RequireAuth(), middleware.Timeout(opts.RequestTimeout))
	writes := api.Group("", middleware.RequireRole(middleware.RoleManager, middleware.RoleAdmin))

	GroupRoutes(api, writes, ctl)
	MemberRoutes(api, writes, ctl)
	SegmentRoutes(api, writes, ctl)
	LogisticsRoutes(api, writes, ctl)

	return r
}
