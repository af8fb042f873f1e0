// Package memory is an in-memory spreadsheet writer used by tests and by
// deployments without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

type Writer struct {
	mu   sync.Mutex
	rows []core.Transaction

	// FailNext makes the next Append return an error, for retry tests.
	FailNext error
}

var _ ports.TransactionWriter = (*Writer)(nil)

func NewWriter() *Writer {
	return &Writer{}
}

// Append implements sheets.TransactionWriter.
func (w *Writer) Append(_ context.Context, tx core.Transaction) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.FailNext != nil {
		err := w.FailNext
		w.FailNext = nil
		return "", err
	}

	w.rows = append(w.rows, tx)
	return fmt.Sprintf("memory!A%d:F%d", len(w.rows), len(w.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (w *Writer) Rows() []core.Transaction {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]core.Transaction, len(w.rows))
	copy(out, w.rows)
	return out
}
