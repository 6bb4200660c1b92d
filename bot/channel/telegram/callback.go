package telegram

import (
	"errors"
	"fmt"
	"strings"

	"ReturnsAgent/bot/card"
)

// Callback data prefixes. Telegram limits callback data to 64 bytes.
const (
	callbackPrefix  = "wf:"
	callbackAdd     = callbackPrefix + "add:"
	callbackRemove  = callbackPrefix + "rm:"
	callbackShip    = callbackPrefix + "ship:"
	maxCallbackData = 64
)

var ErrBadCallback = errors.New("malformed callback data")

func addData(itemID, reason string) string {
	return callbackAdd + itemID + ":" + reason
}

func removeData(itemID string) string {
	return callbackRemove + itemID
}

func shipData(routeID string) string {
	return callbackShip + routeID
}

// ParseCallback turns inline button data into the card submission value the
// router understands.
func ParseCallback(data string) (map[string]interface{}, error) {
	switch {
	case strings.HasPrefix(data, callbackAdd):
		rest := strings.TrimPrefix(data, callbackAdd)
		i := strings.LastIndex(rest, ":")
		if i <= 0 || i == len(rest)-1 {
			return nil, fmt.Errorf("%w: %q", ErrBadCallback, data)
		}
		return map[string]interface{}{
			card.ActionKey:         card.ActionSubmitSelection,
			card.FieldItemID:       rest[:i],
			card.InputReturnReason: rest[i+1:],
			card.InputAddToReturn:  true,
		}, nil

	case strings.HasPrefix(data, callbackRemove):
		item := strings.TrimPrefix(data, callbackRemove)
		if item == "" {
			return nil, fmt.Errorf("%w: %q", ErrBadCallback, data)
		}
		return map[string]interface{}{
			card.ActionKey:        card.ActionSubmitSelection,
			card.FieldItemID:      item,
			card.InputAddToReturn: false,
		}, nil

	case strings.HasPrefix(data, callbackShip):
		route := strings.TrimPrefix(data, callbackShip)
		if route == "" {
			return nil, fmt.Errorf("%w: %q", ErrBadCallback, data)
		}
		return map[string]interface{}{
			card.ActionKey:           card.ActionSelectShippingMethod,
			card.FieldSelectedMethod: route,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrBadCallback, data)
}
