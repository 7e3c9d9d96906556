package amqp

import (
	"encoding/json"
	"time"
)

// Event types carried on the ledger exchange.
const (
	EventExpenseCreated       = "expense.created"
	EventExpenseUpdated       = "expense.updated"
	EventExpenseDeleted       = "expense.deleted"
	EventExpenseStatusChanged = "expense.status_changed"
)

// ExpenseEvent is the message published after a ledger mutation.
// Consumers that need the full record fetch it by ID; the payload
// carries just enough to route and deduplicate.
type ExpenseEvent struct {
	Type        string    `json:"type"`
	ID          int64     `json:"id"`
	Category    string    `json:"category,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Status      string    `json:"status,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewExpenseEvent creates an event stamped with the current time.
func NewExpenseEvent(eventType string, id int64) *ExpenseEvent {
	return &ExpenseEvent{
		Type:      eventType,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseEventFromJSON parses an event from JSON bytes.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var e ExpenseEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
