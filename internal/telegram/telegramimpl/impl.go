package telegramimpl

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/mozimo-site/internal/telegram"
	"github.com/orgball2608/mozimo-site/pkg/config"
	"github.com/orgball2608/mozimo-site/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type TelegramImpl struct {
	TgBot  *tgbotapi.BotAPI
	Logger logger.Logger
	Config *config.Config
}

// New connects the bot. Without TELEGRAM_TOKEN the client is created
// disconnected and alerts are only logged.
func New(opts Opts) (*TelegramImpl, error) {
	log := opts.Logger.WithComponent("Telegram")
	impl := &TelegramImpl{
		Logger: log,
		Config: opts.Config,
	}

	if opts.Config.Telegram.Token == "" {
		log.Info("Telegram token not set, alerts will only be logged")
		return impl, nil
	}

	tgBot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.Token)
	if err != nil {
		log.Error("Error creating bot", "Error", err)
		return nil, err
	}
	impl.TgBot = tgBot

	return impl, nil
}

var _ telegram.Client = (*TelegramImpl)(nil)

// SendMessageToUser sends a text message to the configured user
func (tg *TelegramImpl) SendMessageToUser(message string) {
	if tg.TgBot == nil || tg.Config.Telegram.User == 0 {
		tg.Logger.Warn("Telegram alert not sent, bot not configured", "message", message)
		return
	}

	msg := tgbotapi.NewMessage(tg.Config.Telegram.User, message)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	_, err := tg.TgBot.Send(msg)
	if err != nil {
		tg.Logger.Error("Error sending message to user",
			"userID", tg.Config.Telegram.User,
			"error", err)
		return
	}

	tg.Logger.Info("Message sent to user",
		"userID", tg.Config.Telegram.User)
}
