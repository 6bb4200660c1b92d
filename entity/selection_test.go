package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionsArePerUser(t *testing.T) {
	s := OrderItemSelections{}
	s.Add("user-1", "item-2", "TooBig")
	s.Add("user-2", "item-9", "Damaged")
	s.Add("user-1", "item-1", "Damaged")
	s.Add("user-1", "item-2", "Damaged")

	assert.Equal(t, []string{"item-2", "item-1"}, s.ItemIDs("user-1"))
	assert.Equal(t, []string{"item-9"}, s.ItemIDs("user-2"))
	assert.Empty(t, s.ItemIDs("user-3"))

	s.Remove("user-1", "item-2")
	s.Remove("user-3", "item-2")
	assert.Equal(t, []OrderItemSelection{{ItemID: "item-1", ReturnReasonCode: "Damaged"}}, s.For("user-1"))
}
