package channel

import (
	"context"
	"testing"

	"ReturnsAgent/bot/card"
	"ReturnsAgent/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	ctx := context.Background()

	require.NoError(t, c.SendText(ctx, "hello"))
	require.NoError(t, c.SendCards(ctx, card.LayoutList))
	require.NoError(t, c.SendCards(ctx, card.LayoutList, card.ShippingMethods([]entity.ReturnMethod{{ReturnMethod: "DropOff"}})))

	replies := c.Replies()
	require.Len(t, replies, 2)
	assert.Equal(t, "hello", replies[0].Text)
	assert.NotEmpty(t, replies[0].ID)
	assert.Equal(t, card.LayoutList, replies[1].Layout)
	assert.Len(t, replies[1].Cards, 1)
	assert.NotEqual(t, replies[0].ID, replies[1].ID)

	replies[0].Text = "changed"
	assert.Equal(t, "hello", c.Replies()[0].Text)
}
