package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"crypto-trading-sim/internal/config"
	"crypto-trading-sim/internal/resources"
	"crypto-trading-sim/internal/trader"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

//go:embed templates/index.html
var templates embed.FS

// Server serves the trading page and its JSON API for one session.
type Server struct {
	session   *trader.Session
	logger    *zap.Logger
	router    *gin.Engine
	server    *http.Server
	page      *template.Template
	resources template.HTML
	upgrader  websocket.Upgrader
}

// NewServer creates a Server for session.
func NewServer(cfg config.Server, session *trader.Session, logger *zap.Logger) (*Server, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	page, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("could not parse page template: %w", err)
	}

	res, err := resources.HTML()
	if err != nil {
		return nil, err
	}

	s := &Server{
		session:   session,
		logger:    logger.Named("server"),
		router:    gin.New(),
		page:      page,
		resources: template.HTML(res),
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 2 * time.Second,
			WriteBufferSize:  1024,
		},
	}
	s.router.Use(s.accessLog(), s.recovery())
	s.routes()

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s, nil
}

func (s *Server) routes() {
	s.router.GET("/", s.handleIndex())
	s.router.POST("/trade", s.handleTradeForm())
	s.router.GET("/health", s.handleHealth())

	api := s.router.Group("/api")
	api.GET("/status", s.handleStatus())
	api.GET("/prices", s.handlePrices())
	api.GET("/portfolio", s.handlePortfolio())
	api.POST("/buy", s.handleTrade(true))
	api.POST("/sell", s.handleTrade(false))
	api.GET("/resources", s.handleResources())
	api.GET("/portfolio/stream", s.handlePortfolioStream())
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Starting web server", zap.String("address", s.server.Addr))
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Stopping web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web server shutdown failed: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
