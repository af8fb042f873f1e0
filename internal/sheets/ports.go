// Package sheets defines the outbound port for exporting transactions to a
// spreadsheet.
package sheets

import (
	"context"

	"fintrack/internal/core"
)

// TransactionWriter appends one transaction row and returns a reference to
// the written range.
type TransactionWriter interface {
	Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
}
