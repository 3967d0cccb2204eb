// Package ledger owns the in-memory transaction collection and mirrors it
// to a durable blob after every mutation.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"cozypocket/internal/core"
	"cozypocket/internal/storage"
)

// DefaultKey is the blob key the collection is stored under.
const DefaultKey = "cozy-pocket-tx"

// Store is the authoritative transaction collection. Newest additions come
// first. Reads return copies; mutations persist synchronously and never
// report storage failures to the caller.
type Store struct {
	mu      sync.RWMutex
	blobs   storage.BlobStore
	key     string
	items   []core.Transaction
	version uint64
	lastID  int64
	now     func() time.Time
	logger  *slog.Logger
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock replaces time.Now, used for ids and seed dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(blobs storage.BlobStore, opts ...Option) *Store {
	s := &Store{
		blobs:  blobs,
		key:    DefaultKey,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted blob. A missing
// or unreadable blob yields the seed dataset instead of an error.
func (s *Store) Load(ctx context.Context) []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.blobs.Get(ctx, s.key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.logger.InfoContext(ctx, "No stored transactions, starting from seed data", "key", s.key)
		s.items = Seed(core.DateOf(s.now()))
		s.persistLocked(ctx)
	case err != nil:
		s.logger.ErrorContext(ctx, "Failed to read stored transactions, using seed data", "key", s.key, "error", err)
		s.items = Seed(core.DateOf(s.now()))
	default:
		items, derr := decode(raw)
		if derr != nil {
			s.logger.ErrorContext(ctx, "Stored transactions are corrupt, using seed data", "key", s.key, "error", derr)
			items = Seed(core.DateOf(s.now()))
		}
		s.items = items
	}

	s.lastID = 0
	for _, tx := range s.items {
		if n, err := strconv.ParseInt(tx.ID, 10, 64); err == nil && n > s.lastID {
			s.lastID = n
		}
	}
	s.version++
	s.logger.InfoContext(ctx, "Transactions loaded", "count", len(s.items))
	return cloneAll(s.items)
}

// Add assigns an id, prepends the record and persists the collection.
func (s *Store) Add(ctx context.Context, draft core.Transaction) core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := draft.Normalize()
	tx.ID = s.nextIDLocked()
	s.items = append([]core.Transaction{tx}, s.items...)
	s.version++
	s.persistLocked(ctx)
	return tx
}

// Update replaces the record with the same id. An unknown id is a no-op
// and reports false.
func (s *Store) Update(ctx context.Context, tx core.Transaction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(tx.ID)
	if i < 0 {
		s.logger.DebugContext(ctx, "Update ignored, unknown transaction", "id", tx.ID)
		return false
	}
	s.items[i] = tx.Normalize()
	s.version++
	s.persistLocked(ctx)
	return true
}

// Delete removes the record with id. Deleting an unknown id is a no-op
// and reports false.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.version++
	s.persistLocked(ctx)
	return true
}

func (s *Store) Get(id string) (core.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.items[i], true
	}
	return core.Transaction{}, false
}

// Snapshot returns a copy of the collection in stored order.
func (s *Store) Snapshot() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.items)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Version increases on every load and mutation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// nextIDLocked uses the current Unix millisecond, bumped past any id
// already handed out so two adds in the same millisecond stay distinct.
func (s *Store) nextIDLocked() string {
	n := s.now().UnixMilli()
	if n <= s.lastID {
		n = s.lastID + 1
	}
	for s.indexLocked(strconv.FormatInt(n, 10)) >= 0 {
		n++
	}
	s.lastID = n
	return strconv.FormatInt(n, 10)
}

// persistLocked writes the whole collection. Failures are logged only.
func (s *Store) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(s.items)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to encode transactions", "error", err)
		return
	}
	if err := s.blobs.Put(context.WithoutCancel(ctx), s.key, raw); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist transactions", "key", s.key, "error", err)
	}
}

// Read decodes the collection stored under key without seeding or
// writing anything. It is meant for readers in other processes.
func Read(ctx context.Context, blobs storage.BlobStore, key string) ([]core.Transaction, error) {
	if key == "" {
		key = DefaultKey
	}
	raw, err := blobs.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	items, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return items, nil
}

func decode(raw []byte) ([]core.Transaction, error) {
	var items []core.Transaction
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	out := make([]core.Transaction, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, tx := range items {
		if _, dup := seen[tx.ID]; dup && tx.ID != "" {
			continue
		}
		seen[tx.ID] = struct{}{}
		out = append(out, tx.Normalize())
	}
	return out, nil
}

func cloneAll(items []core.Transaction) []core.Transaction {
	return append([]core.Transaction(nil), items...)
}
