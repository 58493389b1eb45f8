package database

import (
	"fmt"

	"etalase/internal/config"

	"github.com/philippgille/gokv"
	"github.com/philippgille/gokv/file"
	"github.com/philippgille/gokv/syncmap"
)

// NewStore opens the key-value backend selected by cfg.Backend.
func NewStore(cfg config.StorageConfig) (gokv.Store, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		ext := "json"
		return file.NewStore(file.Options{
			Directory:         cfg.DataDir,
			FilenameExtension: &ext,
			Codec:             Raw,
		})
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendRedis:
		client, err := NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, Raw), nil
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath, Raw)
	case config.BackendPostgres:
		return NewPostgresStore(cfg.DatabaseURL, Raw)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// NewMemoryStore returns a process-local store. Contents are lost on exit.
func NewMemoryStore() gokv.Store {
	return syncmap.NewStore(syncmap.Options{Codec: Raw})
}
