// Package server exposes the dashboard over HTTP for headless use.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/existflow/sheetboard/internal/dashboard"
	"github.com/existflow/sheetboard/internal/db"
	"github.com/existflow/sheetboard/internal/logger"
	"github.com/existflow/sheetboard/internal/schedule"
	"github.com/existflow/sheetboard/internal/settings"
	"github.com/existflow/sheetboard/internal/sheets"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
)

// Options configure a server
type Options struct {
	Token     string            // bearer token for the settings endpoints; empty disables them
	Secret    string            // seals the stored API key
	Dashboard dashboard.Options // ranges and fetch policy
	Source    dashboard.Source  // defaults to the Google Sheets client
	Clock     schedule.Clock    // defaults to the wall clock
}

// Server serves one dashboard backed by a settings database
type Server struct {
	db    *db.DB
	store *settings.Store
	board *dashboard.Dashboard
	feed  *notificationLog
	token string
	echo  *echo.Echo
}

// New connects to Postgres at dbURL and creates a server
func New(ctx context.Context, dbURL string, opts Options) (*Server, error) {
	sqlDB, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}

	database, err := db.Wrap(sqlDB, db.Postgres)
	if err != nil {
		return nil, err
	}
	return NewWithDB(ctx, database, opts)
}

// NewWithDB creates a server on an already migrated database
func NewWithDB(ctx context.Context, database *db.DB, opts Options) (*Server, error) {
	store := settings.NewStore(database, settings.NewSealer(opts.Secret))

	s, saved, err := store.Load(ctx)
	if err != nil {
		logger.Warn("Failed to load settings", logger.F("error", err))
	} else if !saved {
		logger.Info("No saved settings yet, waiting for PUT /api/v1/settings")
	}

	if opts.Source == nil {
		opts.Source = sheets.NewClient()
	}
	if opts.Clock == nil {
		opts.Clock = schedule.RealClock{}
	}
	opts.Dashboard.Saver = store

	srv := &Server{
		db:    database,
		store: store,
		board: dashboard.New(opts.Source, opts.Clock, s, opts.Dashboard),
		feed:  newNotificationLog(notificationHistory),
		token: opts.Token,
	}
	srv.board.Attach(srv.feed)
	srv.setupEcho()

	return srv, nil
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	// API v1
	api := e.Group("/api/v1")
	api.GET("/dashboard", s.handleDashboard)
	api.POST("/refresh", s.handleRefresh)
	api.POST("/alert/dismiss", s.handleDismissAlert)
	api.GET("/notifications", s.handleNotifications)
	api.GET("/todos.ics", s.handleTodoFeed)

	// Protected endpoints
	protected := api.Group("")
	protected.Use(s.authMiddleware)
	protected.GET("/settings", s.handleGetSettings)
	protected.PUT("/settings", s.handlePutSettings)

	s.echo = e
}

// Dashboard returns the served dashboard
func (s *Server) Dashboard() *dashboard.Dashboard {
	return s.board
}

// Close stops the dashboard and closes the database connection
func (s *Server) Close() error {
	s.board.Stop()
	return s.db.Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Run loads the dashboard, arms its timers and serves addr until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	go s.board.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", logger.F("addr", addr))
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("Shutting down server")
	return s.echo.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
