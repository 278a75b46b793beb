package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"budget/internal/core"
)

// TransactionRecordedMessage announces that a transaction was stored.
// It carries only the id and month; consumers recompute from the store.
type TransactionRecordedMessage struct {
	ID        string        `json:"id"`
	Month     core.MonthKey `json:"month"`
	Timestamp time.Time     `json:"timestamp"`
}

func NewTransactionRecordedMessage(id string, month core.MonthKey) *TransactionRecordedMessage {
	return &TransactionRecordedMessage{
		ID:        id,
		Month:     month,
		Timestamp: time.Now(),
	}
}

func (m *TransactionRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionRecordedMessageFromJSON decodes a message and rejects ones
// without an id or a well-formed month.
func TransactionRecordedMessageFromJSON(data []byte) (*TransactionRecordedMessage, error) {
	var msg TransactionRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, fmt.Errorf("message without transaction id")
	}
	if !msg.Month.Valid() {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidMonth, msg.Month)
	}
	return &msg, nil
}
