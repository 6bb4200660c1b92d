package dialog

import (
	"context"
	"fmt"
	"log/slog"

	"ReturnsAgent/entity"
)

// MaxTransitions bounds the directives one turn may apply.
const MaxTransitions = 64

// Engine drives a conversation's stack of flows one activity at a time.
type Engine struct {
	root       FlowID
	flows      map[FlowID]Flow
	validators map[string]Validator
	observer   Observer
	log        *slog.Logger
}

// NewEngine creates an engine whose empty stacks start with root.
func NewEngine(root FlowID, log *slog.Logger) *Engine {
	e := &Engine{
		root:       root,
		flows:      make(map[FlowID]Flow),
		validators: make(map[string]Validator),
		log:        log.With(slog.String("module", "bot.dialog")),
	}
	e.RegisterValidator(ValidatorEmail, EmailValidator)
	e.RegisterValidator(ValidatorNumber, NumberValidator)
	e.RegisterValidator(ValidatorConfirm, ConfirmValidator)
	return e
}

func (e *Engine) RegisterFlow(f Flow) {
	e.flows[f.ID()] = f
	e.log.Debug("registered flow", slog.String("flow", string(f.ID())), slog.Int("steps", len(f.Steps())))
}

func (e *Engine) RegisterValidator(name string, v Validator) {
	e.validators[name] = v
}

func (e *Engine) SetObserver(o Observer) {
	e.observer = o
}

// Run processes one activity against stack. The stack is modified in place;
// on error the caller must discard it.
func (e *Engine) Run(ctx context.Context, tc *TurnContext, stack *Stack) (Status, error) {
	r := &runner{engine: e, turn: tc, stack: stack}

	if stack.Empty() {
		if err := r.begin(e.root, nil, ""); err != nil {
			return StatusWaiting, err
		}
		return r.advance(ctx, Input{})
	}

	top := stack.Top()
	flow, err := r.lookup(top.Flow)
	if err != nil {
		return StatusWaiting, err
	}
	steps := flow.Steps()
	if top.Cursor < 0 || top.Cursor >= len(steps) || steps[top.Cursor].Name() != top.Step {
		return StatusWaiting, &EngineError{Flow: top.Flow, Step: top.Step, Err: ErrStaleCursor}
	}

	if top.Prompt != nil {
		validate, err := r.validator(top, top.Prompt.Validator)
		if err != nil {
			return StatusWaiting, err
		}
		accepted, ok := validate(tc.Activity.Text)
		if !ok {
			retry := top.Prompt.Retry
			if retry == "" {
				retry = top.Prompt.Text
			}
			e.log.Debug("prompt rejected",
				slog.String("flow", string(top.Flow)),
				slog.String("step", string(top.Step)),
			)
			if err := tc.Responder.SendText(ctx, retry); err != nil {
				return StatusWaiting, fmt.Errorf("sending retry prompt: %w", err)
			}
			return StatusWaiting, nil
		}
		top.Prompt = nil
		in, err := ValueOf(accepted)
		if err != nil {
			return StatusWaiting, err
		}
		return r.advance(ctx, in)
	}

	in, err := activityInput(tc.Activity)
	if err != nil {
		return StatusWaiting, err
	}
	return r.advance(ctx, in)
}

// activityInput is the submitted card value when present, otherwise the text.
func activityInput(a *entity.Activity) (Input, error) {
	if len(a.Value) > 0 {
		return ValueOf(a.Value)
	}
	return ValueOf(a.Text)
}

type runner struct {
	engine      *Engine
	turn        *TurnContext
	stack       *Stack
	transitions int
}

func (r *runner) lookup(id FlowID) (Flow, error) {
	f, ok := r.engine.flows[id]
	if !ok {
		return nil, &EngineError{Flow: id, Err: ErrFlowNotFound}
	}
	return f, nil
}

func (r *runner) validator(frame *Frame, name string) (Validator, error) {
	if name == "" {
		return textValidator, nil
	}
	v, ok := r.engine.validators[name]
	if !ok {
		return nil, &EngineError{Flow: frame.Flow, Step: frame.Step, Err: fmt.Errorf("%w: %s", ErrValidatorNotFound, name)}
	}
	return v, nil
}

func (r *runner) begin(id FlowID, options any, parent FlowID) error {
	if _, err := r.lookup(id); err != nil {
		return err
	}
	opts, err := ValueOf(options)
	if err != nil {
		return err
	}
	r.stack.push(&Frame{
		Flow:    id,
		Parent:  parent,
		Cursor:  -1,
		Options: opts.Raw(),
	})
	return nil
}

// advance runs the top frame's next step with input and keeps applying
// directives until a frame waits or the stack empties.
func (r *runner) advance(ctx context.Context, input Input) (Status, error) {
	log := r.engine.log
	for {
		r.transitions++
		frame := r.stack.Top()
		if r.transitions > MaxTransitions {
			return StatusWaiting, &EngineError{Flow: frame.Flow, Step: frame.Step, Err: ErrTransitionBudget}
		}
		flow, err := r.lookup(frame.Flow)
		if err != nil {
			return StatusWaiting, err
		}

		frame.Cursor++
		var d Directive
		steps := flow.Steps()
		if frame.Cursor >= len(steps) {
			d = End(input)
		} else {
			step := steps[frame.Cursor]
			frame.Step = step.Name()
			d, err = step.Run(ctx, &StepContext{turn: r.turn, frame: frame}, input)
			if err != nil {
				return StatusWaiting, fmt.Errorf("%s.%s: %w", frame.Flow, frame.Step, err)
			}
		}

		if r.engine.observer != nil {
			r.engine.observer.ObserveDirective(string(frame.Flow), d.kind.String())
		}
		log.Debug("directive",
			slog.String("flow", string(frame.Flow)),
			slog.String("step", string(frame.Step)),
			slog.String("directive", d.kind.String()),
		)

		switch d.kind {
		case kindPrompt:
			if _, err := r.validator(frame, d.prompt.Validator); err != nil {
				return StatusWaiting, err
			}
			p := d.prompt
			frame.Prompt = &p
			if err := r.turn.Responder.SendText(ctx, p.Text); err != nil {
				return StatusWaiting, fmt.Errorf("sending prompt: %w", err)
			}
			return StatusWaiting, nil

		case kindWait:
			return StatusWaiting, nil

		case kindNext:
			if input, err = ValueOf(d.value); err != nil {
				return StatusWaiting, err
			}

		case kindBegin:
			if err := r.begin(d.flow, d.options, frame.Flow); err != nil {
				return StatusWaiting, err
			}
			input = Input{}

		case kindReplace:
			r.stack.pop()
			if err := r.begin(d.flow, d.options, frame.Flow); err != nil {
				return StatusWaiting, err
			}
			input = Input{}

		case kindEnd:
			if input, err = ValueOf(d.value); err != nil {
				return StatusWaiting, err
			}
			frame.Result = input.Raw()
			r.stack.pop()
			if r.stack.Empty() {
				return StatusComplete, nil
			}
		}
	}
}
