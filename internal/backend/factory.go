package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cozypocket/internal/amqp"
	"cozypocket/internal/storage"
)

type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend opens the blob store for config.Type and, when an AMQP URL
// is set, a publisher. A broker that cannot be reached is logged and
// skipped; the ledger works without it.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	result, err := f.createStore(config)
	if err != nil {
		return nil, err
	}

	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without change events", "error", err)
		} else {
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			result.Publisher = client
			storeCleanup := result.Cleanup
			result.Cleanup = func() error {
				return errors.Join(client.Close(), run(storeCleanup))
			}
		}
	}

	f.logger.InfoContext(ctx, "Initialized storage backend",
		"type", config.Type,
		"amqp_enabled", result.Publisher != nil)
	return result, nil
}

func (f *DefaultFactory) createStore(config Config) (*BackendResult, error) {
	switch config.Type {
	case SQLiteBackend:
		store, err := storage.NewSQLiteStore(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.Info("Opened SQLite store", "db_path", config.SQLiteDBPath)
		return &BackendResult{Blobs: store, Ready: store.Ping, Cleanup: store.Close}, nil

	case FileBackend:
		store, err := storage.NewFileStore(config.DataDirectory)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		f.logger.Info("Opened file store", "data_directory", config.DataDirectory)
		return &BackendResult{Blobs: store, Ready: alwaysReady}, nil

	case MemoryBackend:
		f.logger.Warn("Using in-memory store, data is lost on restart")
		return &BackendResult{Blobs: storage.NewMemoryStore(), Ready: alwaysReady}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func alwaysReady(context.Context) error { return nil }

func run(fn CleanupFunc) error {
	if fn == nil {
		return nil
	}
	return fn()
}
