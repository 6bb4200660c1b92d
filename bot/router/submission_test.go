package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSubmission(t *testing.T) {
	sub, err := DecodeSubmission(map[string]interface{}{
		"action":       "submit_selection",
		"item_id":      "item-1",
		"returnReason": "TooBig",
		"addToReturn":  "true",
	})
	require.NoError(t, err)
	assert.Equal(t, SubmitSelection{ItemID: "item-1", ReturnReason: "TooBig", Change: ChangeAdd}, sub)

	sub, err = DecodeSubmission(map[string]interface{}{
		"action":      "submit_selection",
		"item_id":     "item-1",
		"addToReturn": false,
	})
	require.NoError(t, err)
	assert.Equal(t, ChangeRemove, sub.(SubmitSelection).Change)

	sub, err = DecodeSubmission(map[string]interface{}{
		"action":         "select_shipping_method",
		"selectedMethod": "route-1",
	})
	require.NoError(t, err)
	assert.Equal(t, SelectShippingMethod{SelectedMethod: "route-1"}, sub)

	sub, err = DecodeSubmission(map[string]interface{}{"note": "no action here"})
	require.NoError(t, err)
	assert.Nil(t, sub)

	_, err = DecodeSubmission(map[string]interface{}{"action": "submit_selection"})
	assert.ErrorIs(t, err, ErrInvalidSubmission)

	_, err = DecodeSubmission(map[string]interface{}{
		"action":  "submit_selection",
		"item_id": map[string]interface{}{"id": "item-1"},
	})
	assert.ErrorIs(t, err, ErrInvalidSubmission)

	_, err = DecodeSubmission(map[string]interface{}{"action": "dance"})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestSelectionToggle(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  SelectionChange
	}{
		{"bool true", true, ChangeAdd},
		{"bool false", false, ChangeRemove},
		{"string true", "true", ChangeAdd},
		{"string False", " False ", ChangeRemove},
		{"missing", nil, ChangeNone},
		{"not a boolean", "yes", ChangeNone},
		{"number", 3.5, ChangeNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value := map[string]interface{}{"action": "submit_selection", "item_id": "item-1"}
			if tt.value != nil {
				value["addToReturn"] = tt.value
			}
			sub, err := DecodeSubmission(value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sub.(SubmitSelection).Change)
		})
	}
}
