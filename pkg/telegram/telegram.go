package telegram

import (
	"context"
	"fmt"

	"tradein-estimator/config"
	"tradein-estimator/pkg/logger"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// Notifier delivers a message to the dealership staff channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// BotNotifier posts HTML messages to one chat, throttled by a global limiter.
type BotNotifier struct {
	log           *logger.Logger
	bot           sender
	chat          *telebot.Chat
	globalLimiter *rate.Limiter
}

// NewNotifier returns a BotNotifier when a bot token is configured and a
// log-only notifier otherwise.
func NewNotifier(cfg config.TelegramConfig, log *logger.Logger) (Notifier, error) {
	if cfg.BotToken == "" || cfg.ChatID == 0 {
		log.Warn("Telegram bot token or chat id not configured, staff notifications are only logged")
		return NewLogNotifier(log), nil
	}

	bot, err := telebot.NewBot(telebot.Settings{
		Token:   cfg.BotToken,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return newBotNotifier(cfg, log, bot), nil
}

func newBotNotifier(cfg config.TelegramConfig, log *logger.Logger, bot sender) *BotNotifier {
	perSecond := cfg.MaxGlobalRequestPerSecond
	if perSecond <= 0 {
		perSecond = 1
	}
	return &BotNotifier{
		log:           log,
		bot:           bot,
		chat:          &telebot.Chat{ID: cfg.ChatID},
		globalLimiter: rate.NewLimiter(rate.Limit(perSecond), perSecond),
	}
}

func (n *BotNotifier) Notify(ctx context.Context, message string) error {
	if err := n.globalLimiter.Wait(ctx); err != nil {
		n.log.ErrorContext(ctx, "Failed to wait for global rate limit", logger.ErrorField(err))
		return err
	}
	if _, err := n.bot.Send(n.chat, message, telebot.ModeHTML); err != nil {
		n.log.ErrorContext(ctx, "Failed to send telegram message", logger.ErrorField(err))
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

// LogNotifier writes notifications to the log only.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, message string) error {
	n.log.InfoContext(ctx, "Staff notification", logger.StringField("message", message))
	return nil
}
