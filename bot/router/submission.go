package router

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ReturnsAgent/bot/card"

	"github.com/mitchellh/mapstructure"
)

var (
	ErrUnknownAction     = errors.New("unknown card action")
	ErrInvalidSubmission = errors.New("invalid card submission")
)

// Submission is a decoded card action.
type Submission interface {
	isSubmission()
}

// SelectionChange is what a selection submission does to the item.
type SelectionChange int

const (
	// ChangeNone leaves the selection as it is: the toggle was missing or
	// not a boolean.
	ChangeNone SelectionChange = iota
	ChangeAdd
	ChangeRemove
)

// SubmitSelection adds an item to, or removes it from, the user's return.
type SubmitSelection struct {
	ItemID       string
	ReturnReason string
	Change       SelectionChange
}

type selectionPayload struct {
	ItemID       string      `mapstructure:"item_id"`
	ReturnReason string      `mapstructure:"returnReason"`
	AddToReturn  interface{} `mapstructure:"addToReturn"`
}

// SelectShippingMethod picks one of the offered return methods.
type SelectShippingMethod struct {
	SelectedMethod string `mapstructure:"selectedMethod"`
}

func (SubmitSelection) isSubmission()      {}
func (SelectShippingMethod) isSubmission() {}

// DecodeSubmission reads a card value. A value without an action is not a
// submission and yields nil. Errors wrap ErrUnknownAction or
// ErrInvalidSubmission.
func DecodeSubmission(value map[string]interface{}) (Submission, error) {
	action, _ := value[card.ActionKey].(string)
	switch action {
	case "":
		return nil, nil
	case card.ActionSubmitSelection:
		var p selectionPayload
		if err := decode(value, &p); err != nil {
			return nil, err
		}
		if p.ItemID == "" {
			return nil, fmt.Errorf("%w: %s: missing %s", ErrInvalidSubmission, action, card.FieldItemID)
		}
		return SubmitSelection{
			ItemID:       p.ItemID,
			ReturnReason: p.ReturnReason,
			Change:       selectionChange(p.AddToReturn),
		}, nil
	case card.ActionSelectShippingMethod:
		var s SelectShippingMethod
		if err := decode(value, &s); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

func decode(value map[string]interface{}, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(value); err != nil {
		return fmt.Errorf("decode submission: %w", err)
	}
	return nil
}

func selectionChange(v interface{}) SelectionChange {
	var add bool
	switch t := v.(type) {
	case bool:
		add = t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return ChangeNone
		}
		add = b
	default:
		return ChangeNone
	}
	if add {
		return ChangeAdd
	}
	return ChangeRemove
}
