// Package services orchestrates the domain operations behind the HTTP
// handlers: transaction creation with auto-categorization, account
// management, and the forecast/summary read paths.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/classifier"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// IncomeCategory is the fixed category for income transactions. The
// classifier only ever sees spending.
const IncomeCategory = "income"

// SyncPublisher pushes a sync request for a stored transaction. Publishing
// is best effort; a failed publish never fails the insert.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id, userID, version int64) error
}

// CacheInvalidator drops cached per-user read results after a write.
type CacheInvalidator interface {
	Invalidate(userID int64)
}

// NewTransaction is the validated input for creating a transaction.
type NewTransaction struct {
	Description string
	Amount      core.Money
	Category    string
	Type        core.TxType
	Date        core.Date
}

// TransactionService couples the store with the classifier and the async
// export pipeline.
type TransactionService struct {
	store       store.TransactionStore
	model       *classifier.Model
	publisher   SyncPublisher
	invalidator CacheInvalidator
}

func NewTransactionService(txStore store.TransactionStore, model *classifier.Model, publisher SyncPublisher, invalidator CacheInvalidator) *TransactionService {
	return &TransactionService{
		store:       txStore,
		model:       model,
		publisher:   publisher,
		invalidator: invalidator,
	}
}

// Create validates, categorizes and stores one transaction. Nothing is
// persisted when validation or classification fails.
func (s *TransactionService) Create(ctx context.Context, userID int64, in NewTransaction) (core.Transaction, error) {
	tx := core.Transaction{
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
		Type:        in.Type,
		Date:        in.Date,
		UserID:      userID,
	}

	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if tx.Type == core.Income {
		tx.Category = IncomeCategory
	} else if tx.Category == "" {
		category, err := s.classify(tx)
		if err != nil {
			return core.Transaction{}, err
		}
		tx.Category = category
	}

	id, err := s.store.Append(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	tx.ID = id

	if s.invalidator != nil {
		s.invalidator.Invalidate(userID)
	}

	// New rows start at version 1.
	if s.publisher != nil {
		if err := s.publisher.PublishTransactionSync(ctx, id, userID, 1); err != nil {
			slog.ErrorContext(ctx, "Failed to publish sync message",
				"id", id, "user_id", userID, "error", err)
		}
	}

	return tx, nil
}

// List returns the user's transactions, newest first.
func (s *TransactionService) List(ctx context.Context, userID int64) ([]core.Transaction, error) {
	txs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (s *TransactionService) classify(tx core.Transaction) (string, error) {
	if s.model == nil {
		return "", fmt.Errorf("%w: no model loaded", classifier.ErrClassification)
	}

	// The model's weekday convention starts the week on Monday.
	weekday := (int(tx.Date.Weekday()) + 6) % 7

	category, err := s.model.Classify(classifier.Features{
		Amount:      float64(tx.Amount.Cents) / 100.0,
		Description: tx.Description,
		Day:         tx.Date.Day(),
		Weekday:     weekday,
		Month:       int(tx.Date.Month()),
	})
	if err != nil {
		return "", fmt.Errorf("categorize %q: %w", tx.Description, err)
	}
	return category, nil
}
