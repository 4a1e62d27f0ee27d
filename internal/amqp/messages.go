package amqp

import (
	"encoding/json"
	"time"
)

// ExpenseLoggedMessage tells the companion worker that an expense was added
// locally. It carries only the id; the worker reads the full record from the
// shared store.
type ExpenseLoggedMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseLoggedMessage creates a message for a freshly added expense.
func NewExpenseLoggedMessage(id string) *ExpenseLoggedMessage {
	return &ExpenseLoggedMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseLoggedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseLoggedMessageFromJSON creates a message from JSON bytes
func ExpenseLoggedMessageFromJSON(data []byte) (*ExpenseLoggedMessage, error) {
	var msg ExpenseLoggedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
