package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"unistay-inbox/internal/auth"
	"unistay-inbox/internal/config"
	"unistay-inbox/internal/handler"
	"unistay-inbox/internal/middleware"
	"unistay-inbox/internal/transport/httpdto"
	"unistay-inbox/pkg/logger"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ProductionEnv = "production"
	TestEnv       = "test"
)

type Handlers struct {
	Inbox    *handler.InboxHandler
	Messages *handler.MessageHandler
	WS       *handler.WSHandler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.Server.Environment == ProductionEnv {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.Server.Environment == TestEnv {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

// Pinger is what the health endpoint probes; both hide-list backends
// implement it.
type Pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) SetupRoutes(handlers *Handlers, parser *auth.TokenParser, health Pinger) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if health != nil {
			if err := health.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
				return
			}
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	s.engine.GET("/v1/ws", handlers.WS.Serve)

	authed := s.engine.Group("/v1", middleware.AuthMiddleware(parser))
	{
		authed.GET("/inbox", handlers.Inbox.List)
		authed.POST("/inbox/open", handlers.Inbox.Open)
		authed.POST("/inbox/close", handlers.Inbox.Close)
		authed.GET("/inbox/route", handlers.Inbox.Route)
		authed.POST("/inbox/hide", handlers.Inbox.Hide)
		authed.GET("/inbox/compose", handlers.Inbox.GetCompose)
		authed.PUT("/inbox/compose", handlers.Inbox.UpdateCompose)

		authed.POST("/messages", handlers.Messages.Send)
		authed.PUT("/messages/:id", handlers.Messages.Edit)
		authed.DELETE("/messages/:id", handlers.Messages.Delete)
		authed.DELETE("/conversations/:id", handlers.Messages.DeleteConversation)
	}
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.Server.Port)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.Server.Port)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
