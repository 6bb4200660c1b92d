package telegram

import (
	"ReturnsAgent/bot/card"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// Keyboard renders the submit actions of a card as inline buttons. An item
// selection card gets one button per return reason plus a remove button;
// a shipping card gets one button per method. Buttons whose data would not
// fit Telegram's limit are left out.
func Keyboard(c *card.Card) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	add := func(text, data string) {
		if len(data) > maxCallbackData {
			return
		}
		rows = append(rows, []tgbotapi.InlineKeyboardButton{{Text: text, CallbackData: data}})
	}

	for _, a := range c.Actions {
		action, _ := a.Data[card.ActionKey].(string)
		switch action {
		case card.ActionSubmitSelection:
			item, _ := a.Data[card.FieldItemID].(string)
			if item == "" {
				continue
			}
			if reasons, ok := c.Input(card.InputReturnReason); ok {
				for _, choice := range reasons.Choices {
					add("Return: "+choice.Title, addData(item, choice.Value))
				}
			}
			add("Remove from return", removeData(item))

		case card.ActionSelectShippingMethod:
			route, _ := a.Data[card.FieldSelectedMethod].(string)
			if route == "" {
				continue
			}
			add(a.Title, shipData(route))
		}
	}
	return rows
}
