package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cozypocket/internal/core"
	"cozypocket/internal/storage"
	"cozypocket/internal/views"
)

var fixedNow = time.Date(2026, time.January, 17, 10, 0, 0, 0, time.UTC)

type failingStore struct {
	getErr error
	putErr error
	puts   int
}

func (f *failingStore) Get(context.Context, string) ([]byte, error) { return nil, f.getErr }
func (f *failingStore) Put(context.Context, string, []byte) error {
	f.puts++
	return f.putErr
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStore(t *testing.T, blobs storage.BlobStore) *Store {
	t.Helper()
	return New(blobs, WithClock(func() time.Time { return fixedNow }), WithLogger(quietLogger()))
}

func draft(amount int64) core.Transaction {
	return core.Transaction{
		Type:          core.Expense,
		Amount:        decimal.NewFromInt(amount),
		CategoryID:    "food",
		SubCategoryID: "lunch",
		Date:          core.NewDate(2026, time.January, 17),
		Time:          "12:00",
		PaymentMethod: core.Cash,
	}
}

func stored(t *testing.T, blobs storage.BlobStore) []core.Transaction {
	t.Helper()
	raw, err := blobs.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	var out []core.Transaction
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestLoadEmptyStoreSeedsAndPersists(t *testing.T) {
	blobs := storage.NewMemoryStore()
	s := newStore(t, blobs)

	items := s.Load(context.Background())
	require.Len(t, items, 11)
	assert.Equal(t, "2026-01-17", items[0].Date.String())
	assert.Len(t, stored(t, blobs), 11)
}

func TestLoadUnreadableStoreFallsBackToSeed(t *testing.T) {
	blobs := &failingStore{getErr: errors.New("disk on fire")}
	s := newStore(t, blobs)

	items := s.Load(context.Background())
	assert.Len(t, items, 11)
	assert.Zero(t, blobs.puts, "an unreadable blob must not be overwritten on load")
}

func TestLoadCorruptBlobFallsBackToSeed(t *testing.T) {
	blobs := storage.NewMemoryStore()
	require.NoError(t, blobs.Put(context.Background(), DefaultKey, []byte("{not json")))
	s := newStore(t, blobs)

	assert.Len(t, s.Load(context.Background()), 11)
}

func TestLoadLegacyRecordsDefaultToExpense(t *testing.T) {
	blobs := storage.NewMemoryStore()
	legacy := `[
		{"id":"1","amount":120,"categoryId":"food","date":"2026-01-17","time":"08:00","paymentMethod":"現金"},
		{"id":"2","type":"收入","amount":52000,"categoryId":"salary","subCategoryId":"x","date":"2026-01-16","time":"09:00","paymentMethod":"轉帳"},
		{"id":"2","type":"expense","amount":1,"categoryId":"food","date":"2026-01-16","time":"09:00","paymentMethod":"cash"}
	]`
	require.NoError(t, blobs.Put(context.Background(), DefaultKey, []byte(legacy)))
	s := newStore(t, blobs)

	items := s.Load(context.Background())
	require.Len(t, items, 2, "duplicate ids are dropped")
	assert.Equal(t, core.Expense, items[0].Type)
	assert.Equal(t, core.Cash, items[0].PaymentMethod)
	assert.Equal(t, core.Income, items[1].Type)
	assert.Empty(t, items[1].SubCategoryID)
}

func TestAddPrependsAssignsIDAndPersists(t *testing.T) {
	blobs := storage.NewMemoryStore()
	s := newStore(t, blobs)
	s.Load(context.Background())

	first := s.Add(context.Background(), draft(100))
	second := s.Add(context.Background(), draft(200))

	assert.Equal(t, "1768644000000", first.ID)
	assert.NotEqual(t, first.ID, second.ID, "same-millisecond adds get distinct ids")

	snap := s.Snapshot()
	require.Len(t, snap, 13)
	assert.Equal(t, second.ID, snap[0].ID)
	assert.Equal(t, first.ID, snap[1].ID)

	persisted := stored(t, blobs)
	require.Len(t, persisted, 13)
	assert.Equal(t, second.ID, persisted[0].ID)
}

func TestUpdateReplacesWholeRecord(t *testing.T) {
	blobs := storage.NewMemoryStore()
	s := newStore(t, blobs)
	s.Load(context.Background())
	tx := s.Add(context.Background(), draft(100))

	changed := tx
	changed.Amount = decimal.NewFromInt(999)
	changed.Note = ""
	changed.Merchant = "Corner shop"
	require.True(t, s.Update(context.Background(), changed))

	got, ok := s.Get(tx.ID)
	require.True(t, ok)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(999)))
	assert.Equal(t, "Corner shop", got.Merchant)
	assert.Equal(t, 12, s.Len())
	assert.Equal(t, "Corner shop", stored(t, blobs)[0].Merchant)
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	blobs := &failingStore{getErr: storage.ErrNotFound}
	s := newStore(t, blobs)
	s.Load(context.Background())
	puts := blobs.puts
	before := s.Version()

	ghost := draft(5)
	ghost.ID = "ghost"
	assert.False(t, s.Update(context.Background(), ghost))
	assert.Equal(t, before, s.Version())
	assert.Equal(t, puts, blobs.puts, "no-op update must not write")
	assert.Len(t, s.Snapshot(), 11)
}

func TestDeleteIsIdempotent(t *testing.T) {
	blobs := storage.NewMemoryStore()
	s := newStore(t, blobs)
	s.Load(context.Background())

	assert.True(t, s.Delete(context.Background(), "3"))
	assert.False(t, s.Delete(context.Background(), "3"))
	assert.False(t, s.Delete(context.Background(), "missing"))

	_, ok := s.Get("3")
	assert.False(t, ok)
	assert.Len(t, stored(t, blobs), 10)
}

func TestSnapshotIsIsolatedFromLaterMutations(t *testing.T) {
	s := newStore(t, storage.NewMemoryStore())
	s.Load(context.Background())
	snap := s.Snapshot()

	s.Delete(context.Background(), snap[0].ID)
	assert.Len(t, snap, 11)
	assert.Equal(t, "1", snap[0].ID)
}

func TestWriteFailuresAreSwallowed(t *testing.T) {
	blobs := &failingStore{getErr: storage.ErrNotFound, putErr: errors.New("quota exceeded")}
	s := newStore(t, blobs)
	s.Load(context.Background())

	tx := s.Add(context.Background(), draft(42))
	assert.NotEmpty(t, tx.ID)
	_, ok := s.Get(tx.ID)
	assert.True(t, ok, "in-memory state advances even when the write fails")
}

func TestConcurrentAddsKeepUniqueIDs(t *testing.T) {
	s := newStore(t, storage.NewMemoryStore())
	s.Load(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Add(context.Background(), draft(int64(n+1)))
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, tx := range s.Snapshot() {
		require.False(t, seen[tx.ID], "duplicate id %s", tx.ID)
		seen[tx.ID] = true
	}
	assert.Len(t, seen, 61)
}

func TestWithKeyStoresUnderCustomKey(t *testing.T) {
	blobs := storage.NewMemoryStore()
	s := New(blobs, WithKey("custom"), WithClock(func() time.Time { return fixedNow }), WithLogger(quietLogger()))
	s.Load(context.Background())

	_, err := blobs.Get(context.Background(), "custom")
	assert.NoError(t, err)
	_, err = blobs.Get(context.Background(), DefaultKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReadDoesNotSeed(t *testing.T) {
	blobs := storage.NewMemoryStore()
	_, err := Read(context.Background(), blobs, "")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	s := newStore(t, blobs)
	s.Load(context.Background())
	items, err := Read(context.Background(), blobs, DefaultKey)
	require.NoError(t, err)
	assert.Len(t, items, s.Len())

	require.NoError(t, blobs.Put(context.Background(), "broken", []byte("{")))
	_, err = Read(context.Background(), blobs, "broken")
	assert.Error(t, err)
}

func emptyStore(t *testing.T) (*Store, *storage.MemoryStore) {
	t.Helper()
	blobs := storage.NewMemoryStore()
	require.NoError(t, blobs.Put(context.Background(), DefaultKey, []byte("[]")))
	s := newStore(t, blobs)
	require.Empty(t, s.Load(context.Background()))
	return s, blobs
}

func TestMonthlyTotalsAfterAddingIncomeAndExpense(t *testing.T) {
	s, _ := emptyStore(t)
	ctx := context.Background()
	s.Add(ctx, draft(458))

	salary := draft(52000)
	salary.Type = core.Income
	salary.CategoryID = "salary"
	salary.SubCategoryID = ""
	salary.PaymentMethod = core.Transfer
	s.Add(ctx, salary)
	s.Add(ctx, draft(890))

	stats := views.Monthly(s.Snapshot(), core.NewDate(2026, time.January, 1))
	assert.True(t, stats.Income.Equal(decimal.NewFromInt(52000)), stats.Income.String())
	assert.True(t, stats.Expense.Equal(decimal.NewFromInt(1348)), stats.Expense.String())
}

func TestReloadRestoresEveryField(t *testing.T) {
	s, blobs := emptyStore(t)
	ctx := context.Background()

	lunch := draft(458)
	lunch.Name = "Ramen"
	lunch.Merchant = "Ichiran"
	lunch.Note = "team lunch"
	lunch.Tags = "work"
	lunch.PaymentMethod = core.CreditCard

	refund := draft(0)
	refund.Amount = decimal.RequireFromString("-12.75")
	refund.Date = core.NewDate(2025, time.December, 31)
	refund.Time = "9:05"

	salary := draft(52000)
	salary.Type = core.Income
	salary.CategoryID = "salary"
	salary.SubCategoryID = ""
	salary.Time = ""
	salary.PaymentMethod = core.Transfer

	for _, d := range []core.Transaction{lunch, refund, salary} {
		s.Add(ctx, d)
	}
	want := s.Snapshot()

	reloaded := newStore(t, blobs).Load(ctx)
	require.Len(t, reloaded, len(want))
	for i := range want {
		w, g := want[i], reloaded[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Type, g.Type, w.ID)
		assert.True(t, w.Amount.Equal(g.Amount), "%s amount %s vs %s", w.ID, w.Amount, g.Amount)
		assert.Equal(t, w.CategoryID, g.CategoryID, w.ID)
		assert.Equal(t, w.SubCategoryID, g.SubCategoryID, w.ID)
		assert.Equal(t, w.Name, g.Name, w.ID)
		assert.Equal(t, w.Note, g.Note, w.ID)
		assert.Equal(t, w.Merchant, g.Merchant, w.ID)
		assert.Equal(t, w.Tags, g.Tags, w.ID)
		assert.True(t, w.Date.Equal(g.Date), "%s date %s vs %s", w.ID, w.Date, g.Date)
		assert.Equal(t, w.Time, g.Time, w.ID)
		assert.Equal(t, w.PaymentMethod, g.PaymentMethod, w.ID)
	}
	assert.Equal(t, "09:05", reloaded[1].Time)
}

func TestLoadKeepsBlobWithUnknownType(t *testing.T) {
	blobs := storage.NewMemoryStore()
	raw := `[
		{"id":"1","type":"loan","amount":30,"categoryId":"food","date":"2026-01-17","time":"08:00","paymentMethod":"cash"},
		{"id":"2","type":"income","amount":100,"categoryId":"salary","date":"2026-01-17","time":"09:00","paymentMethod":"transfer"}
	]`
	require.NoError(t, blobs.Put(context.Background(), DefaultKey, []byte(raw)))
	s := newStore(t, blobs)

	items := s.Load(context.Background())
	require.Len(t, items, 2, "one odd record must not discard the blob")
	assert.Equal(t, core.Expense, items[0].Type)
	assert.Equal(t, core.Income, items[1].Type)

	s.Add(context.Background(), draft(5))
	assert.Len(t, stored(t, blobs), 3)
}
