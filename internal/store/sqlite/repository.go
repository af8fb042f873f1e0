package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"

	_ "modernc.org/sqlite"
)

// Repository is the SQLite adapter for both the user and transaction ports,
// plus the sync bookkeeping used by the export worker.
type Repository struct {
	db *sql.DB
}

var (
	_ store.TransactionStore = (*Repository)(nil)
	_ store.UserStore        = (*Repository)(nil)
)

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

// Ping reports whether the database answers, for readiness probes.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser implements store.UserStore.
func (r *Repository) CreateUser(ctx context.Context, username, passwordHash string) (store.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
		username, passwordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return store.User{}, store.ErrUsernameTaken
		}
		return store.User{}, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return store.User{}, fmt.Errorf("user insert id: %w", err)
	}

	slog.InfoContext(ctx, "User created", "id", id, "username", username)
	return store.User{ID: id, Username: username, PasswordHash: passwordHash}, nil
}

// GetUserByUsername implements store.UserStore.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (store.User, error) {
	var u store.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM users WHERE username = ?`,
		username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, store.ErrUserNotFound
	}
	if err != nil {
		return store.User{}, fmt.Errorf("select user by username: %w", err)
	}
	return u, nil
}

// GetUserByID implements store.UserStore.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (store.User, error) {
	var u store.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM users WHERE id = ?`,
		id).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, store.ErrUserNotFound
	}
	if err != nil {
		return store.User{}, fmt.Errorf("select user by id: %w", err)
	}
	return u, nil
}

// Append implements store.TransactionStore. The single INSERT is atomic:
// a failure leaves no partial row visible.
func (r *Repository) Append(ctx context.Context, tx core.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, description, amount_cents, category, type, tx_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tx.UserID, tx.Description, tx.Amount.Cents, tx.Category, string(tx.Type), tx.Date.String())
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"user_id", tx.UserID,
		"type", tx.Type,
		"amount_cents", tx.Amount.Cents,
		"date", tx.Date.String())

	return id, nil
}

// ListByUser implements store.TransactionStore.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, description, amount_cents, category, type, tx_date
		 FROM transactions WHERE user_id = ? ORDER BY tx_date DESC, id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListByUserBetween implements store.TransactionStore.
func (r *Repository) ListByUserBetween(ctx context.Context, userID int64, from, to core.Date) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, description, amount_cents, category, type, tx_date
		 FROM transactions
		 WHERE user_id = ? AND tx_date >= ? AND tx_date <= ?
		 ORDER BY tx_date DESC, id DESC`,
		userID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("select transactions in window: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetTransaction returns a single transaction by ID, for the export worker.
func (r *Repository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, description, amount_cents, category, type, tx_date
		 FROM transactions WHERE id = ?`, id)

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("select transaction: %w", err)
	}
	return tx, nil
}

// PendingSync is the minimal row the export worker needs to retry a sync.
type PendingSync struct {
	ID        int64
	CreatedAt time.Time
}

// GetPendingSync returns transactions not yet exported, oldest first.
func (r *Repository) GetPendingSync(ctx context.Context, limit int) ([]PendingSync, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at FROM transactions
		 WHERE sync_status = 'pending' ORDER BY id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select pending sync: %w", err)
	}
	defer rows.Close()

	var pending []PendingSync
	for rows.Next() {
		var p PendingSync
		if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending sync: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkSynced records a successful export.
func (r *Repository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'synced', synced_at = CURRENT_TIMESTAMP WHERE id = ?`,
		id); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError records a failed export; the row stays eligible for manual
// inspection but leaves the retry queue.
func (r *Repository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = 'error' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx      core.Transaction
		typ     string
		rawDate string
	)
	if err := row.Scan(&tx.ID, &tx.UserID, &tx.Description, &tx.Amount.Cents, &tx.Category, &typ, &rawDate); err != nil {
		return core.Transaction{}, err
	}
	tx.Type = core.TxType(typ)
	date, err := core.ParseDate(rawDate)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored date %q: %w", rawDate, err)
	}
	tx.Date = date
	return tx, nil
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
