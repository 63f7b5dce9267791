package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"shopwidget/internal/api/handlers"
	"shopwidget/internal/api/middleware"
	"shopwidget/internal/config"
	"shopwidget/internal/images"
	"shopwidget/internal/logger"
	"shopwidget/internal/widget"

	"github.com/gin-gonic/gin"
)

// Server is the widget's embedding surface: the host page talks to these
// routes, which only read derived views from the store and call its mutation
// operations. Run mounts the widget, Destroy unmounts it.
type Server struct {
	config *config.Config
	logger *logger.Logger
	store  *widget.Store
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, store *widget.Store, resolver *images.Resolver) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	widgetHandler := handlers.NewWidgetHandler(store, resolver, logger)

	// Health check endpoint
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Widget API is running",
			"status":  "healthy",
		})
	})

	// Routes
	v1 := router.Group("/api/v1/widget")
	{
		v1.GET("/home", widgetHandler.Home)
		v1.GET("/catalog", widgetHandler.Catalog)

		filters := v1.Group("/filters")
		{
			filters.POST("/dealers/:id", widgetHandler.ToggleDealer)
			filters.PUT("/sort", widgetHandler.SetSort)
		}

		cart := v1.Group("/cart")
		{
			cart.GET("", widgetHandler.GetCart)
			cart.POST("/items", widgetHandler.AddItem)
			cart.POST("/items/:id/decrement", widgetHandler.DecrementItem)
			cart.DELETE("/items/:id", widgetHandler.RemoveItem)
			cart.DELETE("", widgetHandler.ClearCart)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		store:  store,
		router: router,
	}
}

// Run mounts the widget: the initial catalog fetch starts in the background
// and the listener comes up immediately, reporting loading until data lands.
func (s *Server) Run() error {
	go s.store.Initialize(context.Background(), s.config.DealerScope)

	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

// Destroy unmounts the widget and drains in-flight requests.
func (s *Server) Destroy(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// GetRouter exposes the router for handler tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
