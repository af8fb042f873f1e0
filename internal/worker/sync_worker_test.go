package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/sheets/memory"
	"fintrack/internal/store/sqlite"
)

func newTestSetup(t *testing.T) (*sqlite.Repository, *memory.Writer, *SyncWorker) {
	t.Helper()
	repo, err := sqlite.NewRepository(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	writer := memory.NewWriter()
	return repo, writer, NewSyncWorker(repo, writer, 10)
}

func appendTransaction(t *testing.T, repo *sqlite.Repository, desc string) int64 {
	t.Helper()
	ctx := context.Background()
	u, err := repo.CreateUser(ctx, "alice-"+desc, "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	id, err := repo.Append(ctx, core.Transaction{
		Description: desc,
		Amount:      core.Money{Cents: 1250},
		Category:    "food",
		Type:        core.Spending,
		Date:        core.NewDate(2025, 4, 1),
		UserID:      u.ID,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	return id
}

func TestHandleSyncMessage(t *testing.T) {
	repo, writer, w := newTestSetup(t)
	ctx := context.Background()

	id := appendTransaction(t, repo, "Coffee")

	msg := amqp.NewTransactionSyncMessage(id, 1, 1)
	if err := w.HandleSyncMessage(ctx, msg); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}

	rows := writer.Rows()
	if len(rows) != 1 || rows[0].Description != "Coffee" {
		t.Fatalf("exported rows = %v, want single Coffee row", rows)
	}

	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSync: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("transaction still pending after sync: %v", pending)
	}
}

func TestHandleSyncMessageMissingTransaction(t *testing.T) {
	_, _, w := newTestSetup(t)

	msg := amqp.NewTransactionSyncMessage(999, 1, 1)
	if err := w.HandleSyncMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error for missing transaction")
	}
}

func TestProcessPendingTransactions(t *testing.T) {
	repo, writer, w := newTestSetup(t)
	ctx := context.Background()

	appendTransaction(t, repo, "Rent")
	appendTransaction(t, repo, "Groceries")

	if err := w.ProcessPendingTransactions(ctx); err != nil {
		t.Fatalf("ProcessPendingTransactions: %v", err)
	}

	if got := len(writer.Rows()); got != 2 {
		t.Fatalf("exported %d rows, want 2", got)
	}

	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSync: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("rows still pending: %v", pending)
	}

	// Second sweep is a no-op.
	if err := w.ProcessPendingTransactions(ctx); err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if got := len(writer.Rows()); got != 2 {
		t.Errorf("second sweep duplicated rows: %d", got)
	}
}

func TestPendingSurvivesWriterFailure(t *testing.T) {
	repo, writer, w := newTestSetup(t)
	ctx := context.Background()

	appendTransaction(t, repo, "Cinema")
	writer.FailNext = errors.New("sheet unavailable")

	if err := w.ProcessPendingTransactions(ctx); err != nil {
		t.Fatalf("ProcessPendingTransactions: %v", err)
	}

	// The failed row stays pending and exports on the next sweep.
	pending, err := repo.GetPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSync: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %v, want 1 row", pending)
	}

	if err := w.ProcessPendingTransactions(ctx); err != nil {
		t.Fatalf("retry sweep: %v", err)
	}
	if got := len(writer.Rows()); got != 1 {
		t.Errorf("exported %d rows after retry, want 1", got)
	}
}

func TestStartupSyncCheck(t *testing.T) {
	repo, writer, w := newTestSetup(t)
	ctx := context.Background()

	appendTransaction(t, repo, "Salary")

	if err := w.StartupSyncCheck(ctx); err != nil {
		t.Fatalf("StartupSyncCheck: %v", err)
	}
	if got := len(writer.Rows()); got != 1 {
		t.Errorf("exported %d rows, want 1", got)
	}
}
