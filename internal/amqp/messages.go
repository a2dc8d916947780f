package amqp

import (
	"encoding/json"
	"time"
)

// ChangeMessage announces that a vault collection changed. It carries no
// record content; consumers reload the collection if they need it.
type ChangeMessage struct {
	Collection string    `json:"collection"`
	Operation  string    `json:"operation"`
	Count      int       `json:"count"`
	RecordID   string    `json:"recordId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewChangeMessage stamps a change with the current time.
func NewChangeMessage(collection, operation string, count int, recordID string) ChangeMessage {
	return ChangeMessage{
		Collection: collection,
		Operation:  operation,
		Count:      count,
		RecordID:   recordID,
		Timestamp:  time.Now(),
	}
}

func (m ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ChangeMessageFromJSON(data []byte) (ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ChangeMessage{}, err
	}
	return msg, nil
}
