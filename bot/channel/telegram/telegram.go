package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"ReturnsAgent/bot/channel"
	"ReturnsAgent/bot/dialog"
	"ReturnsAgent/entity"
	"ReturnsAgent/internal/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/callbackquery"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/message"
)

const ChannelName = "telegram"

// Handler runs turns and resets conversations.
type Handler interface {
	Handle(ctx context.Context, activity *entity.Activity, resp dialog.Responder) error
	Reset(ctx context.Context, channel, conversationID string) error
}

// Channel connects a Telegram bot to the turn router. Each chat is one
// conversation.
type Channel struct {
	bot     *tgbotapi.Bot
	api     API
	handler Handler
	timeout time.Duration
	log     *slog.Logger
}

func New(apiKey string, handler Handler, timeout time.Duration, log *slog.Logger) (*Channel, error) {
	bot, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %w", err)
	}
	c := newChannel(bot, handler, timeout, log)
	c.bot = bot
	return c, nil
}

func newChannel(api API, handler Handler, timeout time.Duration, log *slog.Logger) *Channel {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Channel{
		api:     api,
		handler: handler,
		timeout: timeout,
		log:     log.With(sl.Module("channel.telegram")),
	}
}

// Run polls for updates until ctx is cancelled.
func (c *Channel) Run(ctx context.Context) error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		// a failing update is logged and the dispatcher carries on
		Error: func(_ *tgbotapi.Bot, _ *ext.Context, err error) ext.DispatcherAction {
			c.log.Error("handling update", sl.Err(err))
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	dispatcher.AddHandler(handlers.NewCommand("start", c.onStart))
	dispatcher.AddHandler(handlers.NewCallback(callbackquery.Prefix(callbackPrefix), c.onCallback))
	dispatcher.AddHandler(handlers.NewMessage(message.Text, c.onText))

	updater := ext.NewUpdater(dispatcher, nil)
	err := updater.StartPolling(c.bot, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("start polling: %w", err)
	}
	c.log.Info("telegram polling started", slog.String("bot", c.bot.Username))

	<-ctx.Done()
	if err := updater.Stop(); err != nil {
		return fmt.Errorf("stop polling: %w", err)
	}
	c.log.Info("telegram polling stopped")
	return nil
}

func (c *Channel) onStart(_ *tgbotapi.Bot, ectx *ext.Context) error {
	return c.start(ectx.EffectiveChat.Id)
}

func (c *Channel) onText(_ *tgbotapi.Bot, ectx *ext.Context) error {
	return c.text(ectx.EffectiveChat.Id, ectx.EffectiveSender.Id(), ectx.EffectiveMessage.Text)
}

func (c *Channel) onCallback(_ *tgbotapi.Bot, ectx *ext.Context) error {
	cb := ectx.CallbackQuery
	return c.callback(ectx.EffectiveChat.Id, cb.From.Id, cb.Id, cb.Data)
}

func (c *Channel) start(chatID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if err := c.handler.Reset(ctx, ChannelName, conversationID(chatID)); err != nil {
		return err
	}
	resp := &responder{api: c.api, chatID: chatID}
	return resp.SendText(ctx, channel.MsgWelcome)
}

func (c *Channel) text(chatID, userID int64, text string) error {
	return c.turn(&entity.Activity{
		Channel:        ChannelName,
		ConversationID: conversationID(chatID),
		UserID:         strconv.FormatInt(userID, 10),
		Text:           text,
	}, chatID)
}

// callback acknowledges the button press first so the client stops its
// spinner even when the turn fails.
func (c *Channel) callback(chatID, userID int64, queryID, data string) error {
	if _, err := c.api.AnswerCallbackQuery(queryID, nil); err != nil {
		c.log.Warn("answer callback", sl.Err(err))
	}

	value, err := ParseCallback(data)
	if err != nil {
		return err
	}
	return c.turn(&entity.Activity{
		ID:             queryID,
		Channel:        ChannelName,
		ConversationID: conversationID(chatID),
		UserID:         strconv.FormatInt(userID, 10),
		Value:          value,
	}, chatID)
}

func (c *Channel) turn(activity *entity.Activity, chatID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if _, err := c.api.SendChatAction(chatID, "typing", nil); err != nil {
		c.log.Debug("send typing", sl.Err(err))
	}
	return c.handler.Handle(ctx, activity, &responder{api: c.api, chatID: chatID})
}

func conversationID(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
