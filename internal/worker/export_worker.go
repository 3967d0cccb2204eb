// Package worker mirrors the stored transaction collection to an external
// spreadsheet, driven by ledger change messages and a periodic resync.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"cozypocket/internal/amqp"
	"cozypocket/internal/ledger"
	"cozypocket/internal/sheets"
	"cozypocket/internal/storage"
)

// Consumer delivers ledger change messages until ctx is done.
type Consumer interface {
	ConsumeLedgerChanged(ctx context.Context, handler func(context.Context, *amqp.LedgerChangedMessage) error) error
}

type Config struct {
	// Key is the blob key the ledger is stored under.
	Key string
	// Interval forces a full export even without messages. Zero disables it.
	Interval time.Duration
	// ExportTimeout bounds a single export (default: 30s).
	ExportTimeout time.Duration
}

// ExportWorker coalesces change notifications: any number of messages
// arriving during an export trigger exactly one follow-up export.
type ExportWorker struct {
	blobs    storage.BlobStore
	exporter sheets.Exporter
	consumer Consumer
	cfg      Config
	logger   *slog.Logger

	pending chan struct{}

	mu       sync.Mutex
	exports  int
	failures int
	lastErr  error
}

func NewExportWorker(blobs storage.BlobStore, exporter sheets.Exporter, consumer Consumer, cfg Config, logger *slog.Logger) *ExportWorker {
	if cfg.Key == "" {
		cfg.Key = ledger.DefaultKey
	}
	if cfg.ExportTimeout <= 0 {
		cfg.ExportTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportWorker{
		blobs:    blobs,
		exporter: exporter,
		consumer: consumer,
		cfg:      cfg,
		logger:   logger,
		pending:  make(chan struct{}, 1),
	}
}

// HandleLedgerChanged schedules an export. It never blocks and never
// fails, so the message is always acknowledged.
func (w *ExportWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	w.logger.DebugContext(ctx, "Ledger change received",
		"message_id", msg.MessageID,
		"op", msg.Op,
		"transaction_id", msg.TransactionID,
		"version", msg.Version)
	w.schedule()
	return nil
}

func (w *ExportWorker) schedule() {
	select {
	case w.pending <- struct{}{}:
	default:
	}
}

// Run exports once at startup and then on every scheduled change or tick
// until ctx is cancelled.
func (w *ExportWorker) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if w.consumer != nil {
		g.Go(func() error {
			return w.consumer.ConsumeLedgerChanged(gctx, w.HandleLedgerChanged)
		})
	}
	g.Go(func() error {
		return w.loop(gctx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (w *ExportWorker) loop(ctx context.Context) error {
	var tick <-chan time.Time
	if w.cfg.Interval > 0 {
		ticker := time.NewTicker(w.cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	w.ExportOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.pending:
			w.ExportOnce(ctx)
		case <-tick:
			w.ExportOnce(ctx)
		}
	}
}

// ExportOnce reads the stored ledger and pushes it to the exporter.
// A missing ledger is not an error: nothing has been written yet.
func (w *ExportWorker) ExportOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.ExportTimeout)
	defer cancel()

	err := w.export(ctx)
	w.mu.Lock()
	w.lastErr = err
	if err != nil {
		w.failures++
	} else {
		w.exports++
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.ErrorContext(ctx, "Export failed", "error", err)
	}
}

func (w *ExportWorker) export(ctx context.Context) error {
	txs, err := ledger.Read(ctx, w.blobs, w.cfg.Key)
	if errors.Is(err, storage.ErrNotFound) {
		w.logger.InfoContext(ctx, "No stored ledger yet, exporting empty table", "key", w.cfg.Key)
		txs, err = nil, nil
	}
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}
	if err := w.exporter.Export(ctx, txs); err != nil {
		return fmt.Errorf("export %d transactions: %w", len(txs), err)
	}
	return nil
}

// Stats reports successful and failed exports and the last outcome.
func (w *ExportWorker) Stats() (exports, failures int, lastErr error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.exports, w.failures, w.lastErr
}
