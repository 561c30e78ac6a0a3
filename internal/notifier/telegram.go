package notifier

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"cybersafe-backend/internal/config"
	"cybersafe-backend/internal/models"
)

// TelegramNotifier alerts the operations chat when a case is escalated to an
// officer. Send failures are logged and dropped; notifications are advisory.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegramNotifier creates a notifier, or (nil, nil) when notifications
// are disabled in config.
func NewTelegramNotifier(cfg *config.Config, logger *zap.Logger) (*TelegramNotifier, error) {
	if !cfg.Notifications.Enabled || cfg.Notifications.TelegramBotToken == "" {
		logger.Info("Telegram notifications are disabled (notifications.enabled=false or token is empty)")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Notifications.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram notifier authorized", zap.String("username", botAPI.Self.UserName))
	return &TelegramNotifier{
		api:    botAPI,
		chatID: cfg.Notifications.TelegramChatID,
		logger: logger,
	}, nil
}

// NotifyOfficerAssigned sends an escalation alert for a report.
func (n *TelegramNotifier) NotifyOfficerAssigned(report *models.Report) {
	if n == nil {
		return
	}

	urgency, category := "unknown", "unknown"
	if report.TriageResult != nil {
		urgency = string(report.TriageResult.Urgency)
		category = report.TriageResult.Category
	}
	text := fmt.Sprintf("🚨 Case escalated\nReport: %s\nType: %s\nCategory: %s\nUrgency: %s\nOfficer: %s",
		report.ID, report.Type, category, urgency, report.AssignedOfficer)

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Error("Failed to send escalation notification",
			zap.String("report_id", report.ID),
			zap.Error(err))
	}
}
