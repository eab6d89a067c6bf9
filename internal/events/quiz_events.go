package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of domain events the service emits
type EventType string

const (
	EventTestEdited       EventType = "test.edited"
	EventSessionCompleted EventType = "session.completed"
	EventSessionRescored  EventType = "session.rescored"
)

const (
	eventSource  = "quiz-service"
	eventVersion = "1.0"
)

// Event is the envelope shared by every published event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewEvent wraps data in an envelope with a fresh id.
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

// Event payloads

type TestEditedEvent struct {
	TestID           uint   `json:"test_id"`
	OwnerID          string `json:"owner_id"`
	EditedBy         string `json:"edited_by,omitempty"`
	QuestionCount    int    `json:"question_count"`
	SessionsRescored int    `json:"sessions_rescored"`
}

type SessionCompletedEvent struct {
	SessionID uint   `json:"session_id"`
	TestID    uint   `json:"test_id"`
	UserID    string `json:"user_id"`
	Score     int    `json:"score"`
	MaxScore  int    `json:"max_score"`
}

type SessionRescoredEvent struct {
	SessionID        uint   `json:"session_id"`
	TestID           uint   `json:"test_id"`
	UserID           string `json:"user_id"`
	PreviousScore    int    `json:"previous_score"`
	PreviousMaxScore int    `json:"previous_max_score"`
	Score            int    `json:"score"`
	MaxScore         int    `json:"max_score"`
}
