package notifier

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/price-watcher/config"
	"github.com/yourusername/price-watcher/internal/domain/entity"
	"github.com/yourusername/price-watcher/internal/domain/repository"
)

// telegramSender is the slice of the bot API the notifier uses.
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type telegramNotifier struct {
	token  string
	chatID int64
	log    *logrus.Logger
	newBot func(token string) (telegramSender, error)
}

// NewTelegramNotifier builds the Telegram alert channel. Without a token
// and chat ID it stays a no-op that reports OutcomeSkipped.
func NewTelegramNotifier(cfg *config.Config, log *logrus.Logger) repository.Notifier {
	return &telegramNotifier{
		token:  cfg.TelegramToken,
		chatID: cfg.TelegramChatID,
		log:    log,
		newBot: func(token string) (telegramSender, error) {
			return tgbotapi.NewBotAPI(token)
		},
	}
}

func (n *telegramNotifier) Name() string { return "telegram" }

// Send posts the alert to the configured chat. The bot session is opened
// per send; alerts are rare enough that keeping a connection is not worth
// the reconnect handling.
func (n *telegramNotifier) Send(ctx context.Context, alert entity.Alert) (entity.Outcome, error) {
	if n.token == "" || n.chatID == 0 {
		return entity.OutcomeSkipped, nil
	}

	bot, err := n.newBot(n.token)
	if err != nil {
		return entity.OutcomeFailed, fmt.Errorf("telegram auth failed: %w", err)
	}

	msg := tgbotapi.NewMessage(n.chatID, formatAlertHTML(alert))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	n.log.WithField("chat_id", n.chatID).Debug("sending telegram alert")
	if _, err := bot.Send(msg); err != nil {
		return entity.OutcomeFailed, fmt.Errorf("telegram send failed: %w", err)
	}
	return entity.OutcomeSent, nil
}

// formatAlertHTML renders the Telegram message body (HTML parse mode).
func formatAlertHTML(alert entity.Alert) string {
	p := alert.Product
	var sb strings.Builder
	sb.WriteString("🔔 <b>Price Alert</b>\n\n")
	fmt.Fprintf(&sb, "<b>%s</b>\n\n", truncate(p.Name, 80))
	fmt.Fprintf(&sb, "💰 $%.2f (target: $%.2f)\n", p.Price, alert.TargetPrice)
	if alert.IsNewLow {
		sb.WriteString("📉 Lowest recorded price\n")
	}
	fmt.Fprintf(&sb, "📦 %s\n\n%s", p.Source, p.URL)
	return sb.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
