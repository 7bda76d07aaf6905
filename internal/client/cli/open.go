package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/pharmaintel/internal/client/api"
	"github.com/dmitrijs2005/pharmaintel/internal/client/config"
	"github.com/dmitrijs2005/pharmaintel/internal/client/slot"
	"github.com/dmitrijs2005/pharmaintel/internal/client/transport"
	"github.com/dmitrijs2005/pharmaintel/internal/logging"
)

// Open wires the console for cfg: logger on stderr, persistence slot at
// cfg.StateDSN, gateway services and a terminal notifier. Call Close after
// Run returns.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.New(os.Stderr, level, cfg.LogFormat)

	db, err := slot.OpenDatabase(ctx, cfg.StateDSN)
	if err != nil {
		return nil, fmt.Errorf("error initializing state database: %w", err)
	}

	notifier := NewNotifier(os.Stdout)
	svc, err := api.New(api.Options{
		BaseURL:   cfg.BaseURL,
		Store:     slot.NewSQLiteSlot(db),
		Notifier:  notifier,
		Logger:    logger,
		Transport: []transport.Option{transport.WithTimeout(cfg.RequestTimeout)},
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app := NewApp(cfg, svc, os.Stdin, notifier.Writer(), logger)
	app.closers = append(app.closers, db.Close)
	return app, nil
}

// Close releases resources acquired by Open.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
