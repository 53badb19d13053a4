package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IngestRequestMessage asks a worker to reload the dataset.
type IngestRequestMessage struct {
	ID          string    `json:"id"`
	RequestedBy string    `json:"requestedBy"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewIngestRequestMessage creates a request with a fresh random id.
func NewIngestRequestMessage(requestedBy string) *IngestRequestMessage {
	return &IngestRequestMessage{
		ID:          uuid.NewString(),
		RequestedBy: requestedBy,
		Timestamp:   time.Now().UTC(),
	}
}

func (m *IngestRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// IngestRequestMessageFromJSON decodes a request and checks its id is a UUID.
func IngestRequestMessageFromJSON(data []byte) (*IngestRequestMessage, error) {
	var msg IngestRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(msg.ID); err != nil {
		return nil, fmt.Errorf("invalid message id %q: %w", msg.ID, err)
	}
	return &msg, nil
}
