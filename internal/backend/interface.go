package backend

import (
	"context"

	"cozypocket/internal/services"
	"cozypocket/internal/storage"
)

type CleanupFunc func() error

// BackendResult is everything the server needs to persist and announce
// ledger changes. Publisher is nil when AMQP is not configured.
type BackendResult struct {
	Blobs     storage.BlobStore
	Publisher services.Publisher
	Ready     func(ctx context.Context) error
	Cleanup   CleanupFunc
}

type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	SQLiteDBPath  string
	DataDirectory string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	FileBackend   BackendType = "file"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, FileBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
