package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/urmzd/homectl/pkg/api/handlers"
	"github.com/urmzd/homectl/pkg/home"
)

const shutdownTimeout = 5 * time.Second

// Deps are the services the router exposes.
type Deps struct {
	Manager *home.Manager
	Lights  *home.Lights
	Setup   *home.AccessorySetup

	// Gatherer serves /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// Router holds the Gin engine and dependencies
type Router struct {
	engine *gin.Engine
	deps   Deps
	lights *handlers.LightsHandler
}

// NewRouter creates a new API router
func NewRouter(deps Deps) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine: engine,
		deps:   deps,
		lights: handlers.NewLightsHandler(deps.Manager, deps.Lights),
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Swagger UI
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	healthHandler := handlers.NewHealthHandler(r.deps.Manager.Platform())
	r.engine.GET("/health", healthHandler.Health)

	if r.deps.Gatherer != nil {
		r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.deps.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)

		eventsHandler := handlers.NewEventsHandler(r.deps.Manager)
		v1.GET("/events", eventsHandler.Events)

		homesHandler := handlers.NewHomesHandler(r.deps.Manager)
		accessoriesHandler := handlers.NewAccessoriesHandler(r.deps.Manager, r.deps.Setup)
		homes := v1.Group("/homes")
		{
			homes.GET("", homesHandler.ListHomes)
			homes.POST("", homesHandler.CreateHome)
			homes.GET("/:homeID", homesHandler.GetHome)
			homes.DELETE("/:homeID", homesHandler.DeleteHome)

			homes.POST("/:homeID/accessories", accessoriesHandler.AddAccessory)
			homes.DELETE("/:homeID/accessories/:accessoryID", accessoriesHandler.RemoveAccessory)

			homes.GET("/:homeID/lights", r.lights.ListLights)
			homes.GET("/:homeID/lights/:accessoryID", r.lights.GetLight)
			homes.POST("/:homeID/lights/:accessoryID/toggle", r.lights.ToggleLight)
			homes.PUT("/:homeID/lights/:accessoryID/power", r.lights.SetPower)
		}
	}
}

// Handler returns the HTTP handler
func (r *Router) Handler() http.Handler {
	return r.engine
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (r *Router) Run(ctx context.Context, addr string) error {
	go r.lights.Run(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r.engine,
		ReadHeaderTimeout: 10 * time.Second,
		// Event streams end with ctx instead of holding Shutdown open.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
