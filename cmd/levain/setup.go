package main

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/hammamikhairi/levain/internal/config"
	"github.com/hammamikhairi/levain/internal/engine"
	"github.com/hammamikhairi/levain/internal/journal"
	"github.com/hammamikhairi/levain/internal/logger"
	"github.com/hammamikhairi/levain/internal/recipe"
	"github.com/hammamikhairi/levain/internal/storage"
)

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// openLog opens the log destination. "stderr" or an empty path logs to
// the console. The returned closer is never nil.
func openLog(path string) (io.Writer, func()) {
	if path == "" || path == "stderr" {
		return os.Stderr, func() {}
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return os.Stderr, func() {}
	}
	return f, func() { f.Close() }
}

// bakery bundles what every command needs: the store, the engine
// restored from the last snapshot and the journal.
type bakery struct {
	cfg     *config.Config
	log     *logger.Logger
	store   *storage.SQLiteStore
	snaps   *storage.Snapshots
	engine  *engine.Engine
	journal *journal.Journal
}

func openBakery(ctx context.Context, cfg *config.Config, log *logger.Logger) (*bakery, error) {
	store, err := storage.OpenSQLite(cfg.General.DatabasePath, log)
	if err != nil {
		return nil, err
	}
	snaps := storage.NewSnapshots(store, log)

	eng := engine.New(recipe.Default(log), snaps, log, engine.WithDefaults(cfg.Recipe.Defaults()))
	eng.Restore(snaps.LoadState(ctx))

	return &bakery{
		cfg:     cfg,
		log:     log,
		store:   store,
		snaps:   snaps,
		engine:  eng,
		journal: journal.New(ctx, snaps, log),
	}, nil
}

func (b *bakery) Close() {
	if err := b.store.Close(); err != nil {
		b.log.Warn("closing store: %v", err)
	}
}

// withBakery loads the config and opens the store for one-shot commands.
// Logs go to the configured log file so stdout stays scriptable.
func withBakery(fn func(ctx context.Context, b *bakery) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logOut, closeLog := openLog(cfg.Log.File)
	defer closeLog()
	stdlog.SetOutput(logOut)
	log := logger.New(cfg.Log.LogLevel(), logOut)

	ctx := context.Background()
	b, err := openBakery(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(ctx, b)
}
