// Package notify publishes budget insight changes to a message broker.
package notify

import (
	"encoding/json"
	"time"

	"github.com/theirongolddev/budgetpulse/internal/model"
)

// Message is the body published for each insight event.
type Message struct {
	Type     string               `json:"type"`
	At       time.Time            `json:"at"`
	Revision int64                `json:"revision"`
	Month    string               `json:"month"`
	Insights model.BudgetInsights `json:"insights"`
}

// NewMessage builds a message for an event of the given type.
func NewMessage(eventType string, revision int64, month time.Time, in model.BudgetInsights) Message {
	return Message{
		Type:     eventType,
		At:       time.Now().UTC(),
		Revision: revision,
		Month:    month.Format("2006-01"),
		Insights: in,
	}
}

// ToJSON encodes the message.
func (m Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MessageFromJSON decodes a message body.
func MessageFromJSON(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, err
	}
	return m, nil
}
