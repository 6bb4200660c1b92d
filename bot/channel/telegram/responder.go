package telegram

import (
	"context"
	"fmt"

	"ReturnsAgent/bot/card"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// API is the part of the Telegram bot used by the channel.
type API interface {
	SendMessage(chatId int64, text string, opts *tgbotapi.SendMessageOpts) (*tgbotapi.Message, error)
	SendChatAction(chatId int64, action string, opts *tgbotapi.SendChatActionOpts) (bool, error)
	AnswerCallbackQuery(callbackQueryId string, opts *tgbotapi.AnswerCallbackQueryOpts) (bool, error)
}

// responder delivers the replies of one turn to a chat.
type responder struct {
	api    API
	chatID int64
}

func (r *responder) SendText(_ context.Context, text string) error {
	if text == "" {
		return nil
	}
	if _, err := r.api.SendMessage(r.chatID, text, nil); err != nil {
		return fmt.Errorf("send text to %d: %w", r.chatID, err)
	}
	return nil
}

// SendCards sends each card as its flattened text with the card actions as
// an inline keyboard. Telegram has no carousel; the layout is ignored.
func (r *responder) SendCards(_ context.Context, _ string, cards ...*card.Card) error {
	for _, c := range cards {
		text := c.PlainText()
		if text == "" {
			text = "-"
		}
		opts := &tgbotapi.SendMessageOpts{}
		if rows := Keyboard(c); len(rows) > 0 {
			opts.ReplyMarkup = tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
		}
		if _, err := r.api.SendMessage(r.chatID, text, opts); err != nil {
			return fmt.Errorf("send card to %d: %w", r.chatID, err)
		}
	}
	return nil
}
