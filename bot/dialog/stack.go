package dialog

import (
	"encoding/json"

	"ReturnsAgent/internal/state"
)

// StackProperty is where a conversation's dialog stack is persisted.
var StackProperty = state.NewProperty[Stack](state.ScopeConversation, "dialog_stack", nil)

// PromptState is kept on a frame while it waits for prompt input.
type PromptState struct {
	Text      string `json:"text"`
	Retry     string `json:"retry,omitempty"`
	Validator string `json:"validator,omitempty"`
}

// Frame is one running flow instance.
type Frame struct {
	Flow    FlowID                     `json:"flow"`
	Parent  FlowID                     `json:"parent,omitempty"`
	Cursor  int                        `json:"cursor"`
	Step    StepName                   `json:"step,omitempty"`
	Options json.RawMessage            `json:"options,omitempty"`
	Values  map[string]json.RawMessage `json:"values,omitempty"`
	Result  json.RawMessage            `json:"result,omitempty"`
	Prompt  *PromptState               `json:"prompt,omitempty"`
}

// Stack holds frames outermost first. Only the top frame is active.
type Stack struct {
	Frames []*Frame `json:"frames"`
}

func (s *Stack) Depth() int { return len(s.Frames) }

func (s *Stack) Empty() bool { return len(s.Frames) == 0 }

func (s *Stack) Top() *Frame {
	if len(s.Frames) == 0 {
		return nil
	}
	return s.Frames[len(s.Frames)-1]
}

func (s *Stack) push(f *Frame) {
	s.Frames = append(s.Frames, f)
}

func (s *Stack) pop() *Frame {
	if len(s.Frames) == 0 {
		return nil
	}
	top := s.Frames[len(s.Frames)-1]
	s.Frames = s.Frames[:len(s.Frames)-1]
	return top
}

// Reset drops every frame.
func (s *Stack) Reset() {
	s.Frames = nil
}
