package dialog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Input is the value handed to a step. Values are kept in their JSON form so
// they survive persistence unchanged.
type Input struct {
	raw json.RawMessage
}

// ValueOf marshals v into an Input.
func ValueOf(v any) (Input, error) {
	if v == nil {
		return Input{}, nil
	}
	if in, ok := v.(Input); ok {
		return in, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return Input{}, fmt.Errorf("marshal step value: %w", err)
	}
	return Input{raw: b}, nil
}

func RawInput(raw json.RawMessage) Input { return Input{raw: raw} }

func (i Input) Raw() json.RawMessage { return i.raw }

func (i Input) IsNil() bool {
	return len(i.raw) == 0 || bytes.Equal(i.raw, []byte("null"))
}

// String returns the input when it holds a JSON string.
func (i Input) String() (string, bool) {
	if i.IsNil() {
		return "", false
	}
	var s string
	if err := json.Unmarshal(i.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func (i Input) Bool() (bool, bool) {
	if i.IsNil() {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(i.raw, &b); err != nil {
		return false, false
	}
	return b, true
}

// Decode unmarshals the input into v. A nil input leaves v untouched.
func (i Input) Decode(v any) error {
	if i.IsNil() {
		return nil
	}
	return json.Unmarshal(i.raw, v)
}
