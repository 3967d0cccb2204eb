package memory

import (
	"context"
	"sync"

	"cozypocket/internal/core"
	ports "cozypocket/internal/sheets"
)

// Exporter keeps the last exported table in memory. The worker falls back
// to it when no spreadsheet is configured.
type Exporter struct {
	mu      sync.Mutex
	rows    [][]any
	exports int
	err     error
}

var _ ports.Exporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

// FailWith makes subsequent exports return err. Nil restores success.
func (e *Exporter) FailWith(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = err
}

func (e *Exporter) Export(_ context.Context, txs []core.Transaction) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.rows = ports.Rows(txs)
	e.exports++
	return nil
}

// Rows returns the last exported table, header included.
func (e *Exporter) Rows() [][]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]any(nil), e.rows...)
}

func (e *Exporter) Exports() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exports
}
