package dialog

type directiveKind int

const (
	kindNext directiveKind = iota
	kindPrompt
	kindWait
	kindBegin
	kindReplace
	kindEnd
)

var directiveNames = map[directiveKind]string{
	kindNext:    "next",
	kindPrompt:  "prompt",
	kindWait:    "wait",
	kindBegin:   "begin",
	kindReplace: "replace",
	kindEnd:     "end",
}

func (k directiveKind) String() string { return directiveNames[k] }

// Directive tells the engine how to continue after a step.
type Directive struct {
	kind    directiveKind
	prompt  PromptState
	flow    FlowID
	options any
	value   any
}

type PromptOption func(*PromptState)

// WithRetry sets the text re-sent when the validator rejects input.
func WithRetry(text string) PromptOption {
	return func(p *PromptState) { p.Retry = text }
}

// WithValidator names a registered validator for the reply.
func WithValidator(name string) PromptOption {
	return func(p *PromptState) { p.Validator = name }
}

// Prompt sends text and suspends until the next activity. The reply, once
// accepted, is the input of the following step.
func Prompt(text string, opts ...PromptOption) Directive {
	d := Directive{kind: kindPrompt, prompt: PromptState{Text: text}}
	for _, o := range opts {
		o(&d.prompt)
	}
	return d
}

// Next runs the following step with v.
func Next(v any) Directive {
	return Directive{kind: kindNext, value: v}
}

// Wait suspends until the next activity without sending anything. The
// activity, typically a card submission, is the input of the following step.
func Wait() Directive {
	return Directive{kind: kindWait}
}

// Begin starts flow as a child of the current frame.
func Begin(flow FlowID, options any) Directive {
	return Directive{kind: kindBegin, flow: flow, options: options}
}

// Replace ends the current frame and starts flow in its place.
func Replace(flow FlowID, options any) Directive {
	return Directive{kind: kindReplace, flow: flow, options: options}
}

// End finishes the current frame and hands v to the parent's next step.
func End(v any) Directive {
	return Directive{kind: kindEnd, value: v}
}
