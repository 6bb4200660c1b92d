package dialog

import (
	"context"
	"encoding/json"
	"fmt"

	"ReturnsAgent/bot/card"
	"ReturnsAgent/entity"
	"ReturnsAgent/internal/state"
)

// TurnContext carries everything a turn needs besides the stack.
type TurnContext struct {
	Activity  *entity.Activity
	Responder Responder
	State     *state.Turn
}

// StepContext is the view of the running frame given to a step.
type StepContext struct {
	turn  *TurnContext
	frame *Frame
}

func (sc *StepContext) Activity() *entity.Activity { return sc.turn.Activity }

func (sc *StepContext) State() *state.Turn { return sc.turn.State }

func (sc *StepContext) Flow() FlowID { return sc.frame.Flow }

// ParentFlow is the flow that started this frame, either by beginning it or
// by being replaced with it.
func (sc *StepContext) ParentFlow() FlowID { return sc.frame.Parent }

// Options decodes the options the frame was started with into v.
func (sc *StepContext) Options(v any) error {
	if len(sc.frame.Options) == 0 {
		return nil
	}
	if err := json.Unmarshal(sc.frame.Options, v); err != nil {
		return fmt.Errorf("decode %s options: %w", sc.frame.Flow, err)
	}
	return nil
}

// SetValue stores v in the frame's scratch values.
func (sc *StepContext) SetValue(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal value %s: %w", key, err)
	}
	if sc.frame.Values == nil {
		sc.frame.Values = make(map[string]json.RawMessage)
	}
	sc.frame.Values[key] = b
	return nil
}

// Value decodes the scratch value under key into v.
func (sc *StepContext) Value(key string, v any) (bool, error) {
	raw, ok := sc.frame.Values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("decode value %s: %w", key, err)
	}
	return true, nil
}

// StringValue returns the scratch value under key or "" when it is absent or
// not a string.
func (sc *StepContext) StringValue(key string) string {
	var s string
	if ok, err := sc.Value(key, &s); !ok || err != nil {
		return ""
	}
	return s
}

func (sc *StepContext) SendText(ctx context.Context, text string) error {
	return sc.turn.Responder.SendText(ctx, text)
}

func (sc *StepContext) SendCards(ctx context.Context, layout string, cards ...*card.Card) error {
	return sc.turn.Responder.SendCards(ctx, layout, cards...)
}
