// Package memory is an in-memory store adapter. It backs tests and the
// default DATA_BACKEND=memory mode, where state lives only for the process
// lifetime.
package memory

import (
	"context"
	"sort"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Store struct {
	mu     sync.RWMutex
	users  map[int64]store.User
	byName map[string]int64
	txs    map[int64]core.Transaction
	nextU  int64
	nextTx int64
}

var (
	_ store.TransactionStore = (*Store)(nil)
	_ store.UserStore        = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		users:  make(map[int64]store.User),
		byName: make(map[string]int64),
		txs:    make(map[int64]core.Transaction),
	}
}

// CreateUser implements store.UserStore.
func (s *Store) CreateUser(_ context.Context, username, passwordHash string) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[username]; exists {
		return store.User{}, store.ErrUsernameTaken
	}
	s.nextU++
	u := store.User{ID: s.nextU, Username: username, PasswordHash: passwordHash}
	s.users[u.ID] = u
	s.byName[username] = u.ID
	return u, nil
}

// GetUserByUsername implements store.UserStore.
func (s *Store) GetUserByUsername(_ context.Context, username string) (store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[username]
	if !ok {
		return store.User{}, store.ErrUserNotFound
	}
	return s.users[id], nil
}

// GetUserByID implements store.UserStore.
func (s *Store) GetUserByID(_ context.Context, id int64) (store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return store.User{}, store.ErrUserNotFound
	}
	return u, nil
}

// Append implements store.TransactionStore.
func (s *Store) Append(_ context.Context, tx core.Transaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTx++
	tx.ID = s.nextTx
	s.txs[tx.ID] = tx
	return tx.ID, nil
}

// ListByUser implements store.TransactionStore.
func (s *Store) ListByUser(_ context.Context, userID int64) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var txs []core.Transaction
	for _, tx := range s.txs {
		if tx.UserID == userID {
			txs = append(txs, tx)
		}
	}
	sortDateDescending(txs)
	return txs, nil
}

// ListByUserBetween implements store.TransactionStore.
func (s *Store) ListByUserBetween(_ context.Context, userID int64, from, to core.Date) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var txs []core.Transaction
	for _, tx := range s.txs {
		if tx.UserID != userID {
			continue
		}
		if tx.Date.Before(from.Time) || tx.Date.After(to.Time) {
			continue
		}
		txs = append(txs, tx)
	}
	sortDateDescending(txs)
	return txs, nil
}

func sortDateDescending(txs []core.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date.Time) {
			return txs[i].Date.After(txs[j].Date.Time)
		}
		return txs[i].ID > txs[j].ID
	})
}
