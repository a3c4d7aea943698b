package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/existflow/sheetboard/internal/dashboard"
	"github.com/existflow/sheetboard/internal/db"
	"github.com/existflow/sheetboard/internal/logger"
	"github.com/existflow/sheetboard/internal/model"
	"github.com/existflow/sheetboard/internal/schedule"
	"github.com/existflow/sheetboard/internal/settings"
	"github.com/existflow/sheetboard/internal/sheets"
)

// session is the local database, the settings saved in it and a dashboard
// wired to the spreadsheet
type session struct {
	db        *db.DB
	store     *settings.Store
	settings  model.Settings
	dashboard *dashboard.Dashboard
}

func openDatabase() (*db.DB, error) {
	var (
		database *db.DB
		err      error
	)
	if cfg != nil && cfg.DBPath != "" {
		database, err = db.Open(cfg.DBPath)
	} else {
		database, err = db.OpenDefault()
	}
	if err != nil {
		logger.Error("Failed to open database", logger.F("error", err))
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

func openStore() (*db.DB, *settings.Store, error) {
	database, err := openDatabase()
	if err != nil {
		return nil, nil, err
	}
	sealer := settings.NewSealer(os.Getenv(settings.SecretEnv))
	return database, settings.NewStore(database, sealer), nil
}

func openSession(ctx context.Context) (*session, error) {
	database, store, err := openStore()
	if err != nil {
		return nil, err
	}

	s, saved, err := store.Load(ctx)
	if err != nil {
		// Unreadable settings behave like no settings; the dashboard will
		// report the missing credentials.
		logger.Warn("Failed to load settings", logger.F("error", err))
	} else if !saved {
		logger.Info("No saved settings yet")
	}

	opts := dashboard.Options{Saver: store}
	if cfg != nil {
		opts.CourseRange = cfg.CourseRange
		opts.TodoRange = cfg.TodoRange
		opts.DiscardStale = cfg.DiscardStale
		opts.FetchTimeout = cfg.FetchTimeout
		opts.VerboseLabels = cfg.VerboseLabels
	}

	return &session{
		db:        database,
		store:     store,
		settings:  s,
		dashboard: dashboard.New(sheets.NewClient(), schedule.RealClock{}, s, opts),
	}, nil
}

// Close stops the dashboard timers and releases the database
func (s *session) Close() {
	s.dashboard.Stop()
	if err := s.db.Close(); err != nil {
		logger.Warn("Failed to close database", logger.F("error", err))
		return
	}
	logger.Info("Database closed")
}
