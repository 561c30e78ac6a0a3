package repository

import (
	"errors"

	"cybersafe-backend/internal/models"
)

var (
	// ErrNotFound is returned when a report or chat session id is unknown.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned when creating a report whose id already exists.
	ErrDuplicateID = errors.New("duplicate id")
)

// ReportStore owns Report entities. Update fully replaces the stored value;
// callers construct the complete next state. Implementations must be safe for
// concurrent use from multiple in-flight pipelines.
type ReportStore interface {
	Create(report *models.Report) error
	Get(id string) (*models.Report, error)
	Update(report *models.Report) error
	List() ([]*models.Report, error)
}

// ChatStore owns the ordered message list of each chat session. Append fills
// in the id and timestamp when absent; appending a message with an id that
// already exists replaces the stored message instead of duplicating it, which
// tolerates at-least-once delivery from retrying callers. Listing an unknown
// chat id yields an empty slice, not an error.
type ChatStore interface {
	Append(chatID string, message *models.ChatMessage) (*models.ChatMessage, error)
	List(chatID string) ([]*models.ChatMessage, error)
}
