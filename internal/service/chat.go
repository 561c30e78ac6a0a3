package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"cybersafe-backend/internal/models"
	"cybersafe-backend/internal/repository"
)

var (
	// ErrReportUnavailable means chat initialization was attempted for a
	// session whose owning report does not exist. The greeting needs the
	// officer's identity, so the chat cannot be opened.
	ErrReportUnavailable = errors.New("report unavailable for chat session")
	// ErrInvalidMessage rejects malformed chat messages (empty text, unknown
	// sender).
	ErrInvalidMessage = errors.New("invalid chat message")
)

// ChatService bridges reports and their chat sessions. The first retrieval of
// a session belonging to a report with an assigned officer lazily inserts a
// single officer greeting; afterwards the session is a plain ordered message
// log.
type ChatService struct {
	chatStore   repository.ChatStore
	reportStore repository.ReportStore
	logger      *zap.Logger

	// mu guards sessionLocks. Greeting insertion itself holds the per-session
	// lock so two concurrent first accesses produce exactly one greeting.
	mu           sync.Mutex
	sessionLocks map[string]*sync.Mutex
}

// NewChatService creates a new chat service.
func NewChatService(chatStore repository.ChatStore, reportStore repository.ReportStore, logger *zap.Logger) *ChatService {
	return &ChatService{
		chatStore:    chatStore,
		reportStore:  reportStore,
		logger:       logger,
		sessionLocks: make(map[string]*sync.Mutex),
	}
}

func (s *ChatService) sessionLock(chatID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.sessionLocks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		s.sessionLocks[chatID] = lock
	}
	return lock
}

// Messages returns the session's ordered message list, initializing the
// session with the officer greeting on first access when the owning report
// has an assigned officer.
func (s *ChatService) Messages(chatID string) ([]*models.ChatMessage, error) {
	reportID, ok := models.ReportIDFromChatSession(chatID)
	if !ok {
		return nil, fmt.Errorf("%w: malformed chat session id %q", ErrReportUnavailable, chatID)
	}

	lock := s.sessionLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	report, err := s.reportStore.Get(reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: report %s not found", ErrReportUnavailable, reportID)
		}
		return nil, err
	}

	messages, err := s.chatStore.List(chatID)
	if err != nil {
		return nil, err
	}
	if len(messages) > 0 || report.AssignedOfficer == "" {
		return messages, nil
	}

	greeting := &models.ChatMessage{
		Sender: models.SenderOfficer,
		Text: fmt.Sprintf("Hello! I am %s. I'm reviewing your report (ID: %s). "+
			"How can I assist you further regarding this matter?", report.AssignedOfficer, report.ID),
	}
	stored, err := s.chatStore.Append(chatID, greeting)
	if err != nil {
		return nil, fmt.Errorf("failed to append officer greeting: %w", err)
	}
	s.logger.Info("Chat session initialized with officer greeting",
		zap.String("chat_id", chatID),
		zap.String("report_id", report.ID))
	return []*models.ChatMessage{stored}, nil
}

// PostMessage appends a message to a session. Retried posts carrying the same
// message id replace the stored copy instead of duplicating it.
func (s *ChatService) PostMessage(chatID string, message *models.ChatMessage) (*models.ChatMessage, error) {
	if strings.TrimSpace(message.Text) == "" {
		return nil, fmt.Errorf("%w: text must not be empty", ErrInvalidMessage)
	}
	if !models.ValidSender(message.Sender) {
		return nil, fmt.Errorf("%w: unknown sender %q", ErrInvalidMessage, message.Sender)
	}
	message.Text = strings.TrimSpace(message.Text)
	return s.chatStore.Append(chatID, message)
}
