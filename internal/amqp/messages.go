package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Op names the kind of ledger mutation a message announces.
type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

// LedgerChangedMessage announces that the transaction collection changed.
// It carries no record data; consumers read the current snapshot from the
// store, so only the latest message per version matters.
type LedgerChangedMessage struct {
	MessageID     string    `json:"message_id"`
	Op            Op        `json:"op"`
	TransactionID string    `json:"transaction_id"`
	Version       uint64    `json:"version"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(op Op, transactionID string, version uint64) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		MessageID:     uuid.NewString(),
		Op:            op,
		TransactionID: transactionID,
		Version:       version,
		Timestamp:     time.Now().UTC(),
	}
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
