package cmd

import (
	"fmt"

	"clinic-desk/core/config"
	"clinic-desk/core/database"
	"clinic-desk/core/logger"
	"clinic-desk/core/storage"

	"go.uber.org/zap"
)

// runtime is what every command needs before it can touch a store.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	stores *database.StoreSet
}

func loadRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(l)

	stores, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &runtime{cfg: cfg, logger: l, stores: stores}, nil
}

func (r *runtime) close() {
	if err := r.stores.Close(); err != nil {
		r.logger.Warn("Failed to close stores", zap.Error(err))
	}
	_ = r.logger.Sync()
}

// archive builds the report archive. A storage that cannot be configured
// disables archiving rather than failing the command.
func (r *runtime) archive() *storage.Archive {
	archive, err := storage.Open(r.cfg.Storage)
	if err != nil {
		r.logger.Warn("Report archive disabled", zap.Error(err))
		return nil
	}
	return archive
}
