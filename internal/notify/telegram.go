package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusops/viability-engine/internal/models"
	"github.com/campusops/viability-engine/internal/observability"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramNotifier шлёт алерт кураторам при активации нового риска.
// Это внешний приёмник: ядро только уведомляет, доставка — не его контракт.
type TelegramNotifier struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
	log     *zap.SugaredLogger
}

// NewTelegram — nil без ошибки, если токен или список чатов пустые
// (алерты просто выключены).
func NewTelegram(token string, chatIDs []int64, log *zap.SugaredLogger) (*TelegramNotifier, error) {
	if token == "" || len(chatIDs) == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatIDs: chatIDs, log: log}, nil
}

func (n *TelegramNotifier) RiskActivated(ctx context.Context, risk models.AttendanceViabilityRisk) {
	text := fmt.Sprintf(
		"⚠️ Attendance at risk: student %d\nHorizon: %d week(s), confidence %s\nReasons:\n• %s",
		risk.StudentID, risk.WeeksToRisk, risk.Confidence,
		strings.Join(risk.Reasons, "\n• "),
	)
	if risk.Recommendation != "" {
		text += "\n\n" + risk.Recommendation
	}
	for _, chatID := range n.chatIDs {
		if _, err := n.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			if isSystemErr(err) {
				observability.CaptureErr(err)
			}
			n.log.Warnw("risk alert send failed", "chat_id", chatID, "err", err)
		}
	}
}

// Считаем системными: 5xx, 429, timeout. 400-ки в Sentry не шлём.
func isSystemErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "429") || strings.Contains(s, "502") ||
		strings.Contains(s, "503") || strings.Contains(s, "timeout")
}
