package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"cozypocket/internal/amqp"
	"cozypocket/internal/core"
	"cozypocket/internal/ledger"
)

// Publisher announces ledger changes to other processes.
type Publisher interface {
	PublishLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error
}

// LedgerService writes through the ledger store and publishes a change
// message after every applied mutation. Publishing is best effort: the
// store is the source of truth and a broker failure never fails a write.
type LedgerService struct {
	store     *ledger.Store
	publisher Publisher
	logger    *slog.Logger
}

func NewLedgerService(store *ledger.Store, publisher Publisher, logger *slog.Logger) *LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerService{store: store, publisher: publisher, logger: logger}
}

func (s *LedgerService) Store() *ledger.Store {
	return s.store
}

// Add stores draft as a new transaction and returns it with its id.
func (s *LedgerService) Add(ctx context.Context, draft core.Transaction) core.Transaction {
	tx := s.store.Add(ctx, draft)
	s.logger.DebugContext(ctx, "Transaction added", "id", tx.ID, "type", tx.Type, "amount", tx.Amount.String())
	s.publish(ctx, amqp.OpCreated, tx.ID)
	return tx
}

func (s *LedgerService) Update(ctx context.Context, tx core.Transaction) bool {
	if !s.store.Update(ctx, tx) {
		return false
	}
	s.logger.DebugContext(ctx, "Transaction updated", "id", tx.ID)
	s.publish(ctx, amqp.OpUpdated, tx.ID)
	return true
}

func (s *LedgerService) Delete(ctx context.Context, id string) bool {
	if !s.store.Delete(ctx, id) {
		return false
	}
	s.logger.DebugContext(ctx, "Transaction deleted", "id", id)
	s.publish(ctx, amqp.OpDeleted, id)
	return true
}

func (s *LedgerService) publish(ctx context.Context, op amqp.Op, id string) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewLedgerChangedMessage(op, id, s.store.Version())
	if err := s.publisher.PublishLedgerChanged(context.WithoutCancel(ctx), msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger change",
			"op", op, "id", id, "error", err)
	}
}

// Close releases the publisher when it holds a connection.
func (s *LedgerService) Close() error {
	var errs []error
	if c, ok := s.publisher.(io.Closer); ok && c != nil {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}
	return nil
}
