package amqp

import (
	"encoding/json"
	"time"
)

// TransactionSyncMessage is the lightweight message that asks the worker to
// export one transaction. It carries only the ID and owning user; the worker
// fetches the full row from the database.
type TransactionSyncMessage struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionSyncMessage creates a new sync message
func NewTransactionSyncMessage(id, userID, version int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		ID:        id,
		UserID:    userID,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionSyncMessageFromJSON creates a message from JSON bytes
func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
