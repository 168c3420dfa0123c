// Package adapter selects the active persistence backend at startup.
package adapter

import (
	"go.uber.org/zap"

	"github.com/campushq/campus-admin-api/internal/store"
	"github.com/campushq/campus-admin-api/internal/store/file"
	"github.com/campushq/campus-admin-api/internal/store/postgres"
	"github.com/campushq/campus-admin-api/pkg/config"
	"github.com/campushq/campus-admin-api/pkg/database"
)

// Open selects the persistence backend for the process lifetime: the
// database backend is attempted first and any initialisation failure
// (connection, auth, timeout) falls back to the JSON-file store. There is
// no per-request re-selection; callers hold the returned Store until
// shutdown.
func Open(cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	db, err := database.NewPostgres(cfg.Database)
	if err == nil {
		pg, initErr := postgres.New(db, cfg.FileStore.Seed)
		if initErr == nil {
			logger.Info("using postgres backend", zap.String("database", cfg.Database.Name))
			return pg, nil
		}
		_ = db.Close()
		err = initErr
	}

	logger.Warn("database backend unavailable, falling back to file store",
		zap.String("data_dir", cfg.FileStore.DataDir),
		zap.Error(err))

	fs, err := file.New(cfg.FileStore.DataDir, cfg.FileStore.Seed)
	if err != nil {
		return nil, err
	}
	logger.Info("using file backend", zap.String("data_dir", cfg.FileStore.DataDir))
	return fs, nil
}
