package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"cybersafe-backend/internal/models"
)

// postgresChatStore persists chat messages in the 'chat_messages' table.
// The upsert on the message id gives Append its replace-not-duplicate
// semantics.
type postgresChatStore struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPostgresChatStore creates a ChatStore backed by PostgreSQL.
func NewPostgresChatStore(db *sqlx.DB, logger *zap.Logger) ChatStore {
	return &postgresChatStore{db: db, logger: logger}
}

func (s *postgresChatStore) Append(chatID string, message *models.ChatMessage) (*models.ChatMessage, error) {
	stored := *message
	stored.ChatID = chatID
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.Timestamp.IsZero() {
		stored.Timestamp = time.Now().UTC()
	}

	query := `INSERT INTO chat_messages (id, chat_id, sender, text, timestamp)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (id) DO UPDATE SET sender = $3, text = $4, timestamp = $5`
	if _, err := s.db.Exec(query, stored.ID, stored.ChatID, stored.Sender, stored.Text, stored.Timestamp); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *postgresChatStore) List(chatID string) ([]*models.ChatMessage, error) {
	var messages []*models.ChatMessage
	query := `SELECT id, chat_id, sender, text, timestamp FROM chat_messages
	          WHERE chat_id = $1 ORDER BY timestamp ASC`
	if err := s.db.Select(&messages, query, chatID); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*models.ChatMessage{}
	}
	return messages, nil
}
