package alert

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/radieske/ev-lab-poc/pkg/contracts/events"
)

// TelegramNotifier envia alertas de picks de alto EV para um chat do Telegram.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *zap.Logger
}

func NewTelegramNotifier(token string, chatID int64, log *zap.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	bot.Debug = false

	log.Info("telegram notifier ready", zap.String("bot_user", bot.Self.UserName), zap.Int64("chat_id", chatID))
	return &TelegramNotifier{bot: bot, chatID: chatID, log: log}, nil
}

func (n *TelegramNotifier) Notify(pred events.MatchPrediction, reason string) error {
	text := fmt.Sprintf(
		"EV pick\nFixture: %s\nMarket: %s\nEV: %.3f\nProb: %.3f\nModel: %s\n%s",
		pred.FixtureID, pred.Market, pred.EV, pred.ProbModel, pred.Version, reason,
	)

	if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	n.log.Debug("telegram alert sent", zap.String("fixture_id", pred.FixtureID), zap.Float64("ev", pred.EV))
	return nil
}
