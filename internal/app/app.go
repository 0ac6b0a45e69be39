package app

import (
	"fmt"
	"os"

	"github.com/gofrs/flock"

	"github.com/GMouaad/waqt/internal/config"
	"github.com/GMouaad/waqt/internal/db"
	"github.com/GMouaad/waqt/internal/notify"
	"github.com/GMouaad/waqt/internal/report"
	"github.com/GMouaad/waqt/internal/timer"
)

// App holds the application state and dependencies
type App struct {
	Config   *config.Config
	DB       *db.DB
	Timer    *timer.Service
	Engine   *report.Engine
	Notifier *notify.Notifier
	lockFile *flock.Flock
}

// New creates a new application instance. A nil config loads the default
// chain (file, then environment).
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &App{
		Config:   cfg,
		DB:       database,
		Timer:    timer.New(database),
		Engine:   report.New(database),
		Notifier: notify.NewNotifier(),
	}, nil
}

// AcquireLock takes an exclusive file lock. The server takes it so only one
// instance binds the database for long-running work; one-shot commands skip
// it and rely on the busy timeout.
func (a *App) AcquireLock() error {
	a.lockFile = flock.New(a.Config.LockPath())

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another waqt server is already running")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	a.releaseLock()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
