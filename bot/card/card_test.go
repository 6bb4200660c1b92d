package card

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"ReturnsAgent/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemSelection(t *testing.T) {
	items := []entity.OrderItem{
		{ID: "i1", ProductDescription: "Shoe", ProductCode: "SKU1", UnitPrice: entity.Money{Amount: 99.5, Currency: "EUR"}},
		{ID: "i2", ProductDescription: "Hat", ProductCode: "SKU2", UnitPrice: entity.Money{Amount: 10, Currency: "EUR"}},
	}
	reasons := []entity.ReturnReason{{Code: "TooBig", Description: "Too big"}}

	cards := ItemSelection(items, reasons)
	require.Len(t, cards, 2)

	c := cards[0]
	assert.Equal(t, "AdaptiveCard", c.Type)
	assert.Equal(t, "1.3", c.Version)
	assert.Contains(t, c.PlainText(), "99.5 EUR")

	toggle, ok := c.Input(InputAddToReturn)
	require.True(t, ok)
	assert.Equal(t, "false", toggle.Value)

	choice, ok := c.Input(InputReturnReason)
	require.True(t, ok)
	assert.Equal(t, []Choice{{Title: "Too big", Value: "TooBig"}}, choice.Choices)

	require.Len(t, c.Actions, 1)
	assert.Equal(t, ActionSubmitSelection, c.Actions[0].Data[ActionKey])
	assert.Equal(t, "i1", c.Actions[0].Data[FieldItemID])
}

func TestShippingMethods(t *testing.T) {
	c := ShippingMethods([]entity.ReturnMethod{
		{ReturnMethod: "DropOff", CarrierServiceRoute: entity.CarrierServiceRoute{CarrierServiceRouteID: "r1", CarrierName: "An Post", IsPaperlessRoute: true}},
		{ReturnMethod: "Collection", CarrierServiceRoute: entity.CarrierServiceRoute{CarrierServiceRouteID: "r2", CarrierName: "DHL"}},
	})
	require.Len(t, c.Actions, 2)
	assert.Equal(t, "DropOff - An Post 🍃", c.Actions[0].Title)
	assert.Equal(t, "Collection - DHL", c.Actions[1].Title)
	assert.Equal(t, "r2", c.Actions[1].Data[FieldSelectedMethod])
	assert.Equal(t, ActionSelectShippingMethod, c.Actions[1].Data[ActionKey])
}

func TestReturnSummary(t *testing.T) {
	data := &entity.LogInData{
		EmailAddress: "jane@example.com",
		Order: &entity.Order{
			ShopperDetails: entity.ShopperDetails{
				FirstName: "Jane", LastName: "Doe",
				Address: entity.Address{CountryName: "Ireland", City: "Dublin", Address1: "1 Main St", PostalCode: "D01"},
			},
			Items: []entity.OrderItem{{ID: "i1", ProductDescription: "Shoe"}},
		},
		CountryConfiguration: &entity.CountryConfiguration{PortalSettings: entity.PortalSettings{
			CustomerReturnReasonCodes: []entity.ReturnReason{{Code: "TooBig", Description: "Too big"}},
		}},
	}
	c := ReturnSummary(data, []entity.OrderItemSelection{{ItemID: "i1", ReturnReasonCode: "TooBig"}}, "900123")

	text := c.PlainText()
	assert.Contains(t, text, "Your return order was successfully created!")
	assert.Contains(t, text, "Return Order Number: 900123")
	assert.Contains(t, text, "Jane Doe - Ireland, Dublin, 1 Main St, D01")
	assert.Contains(t, text, "Shoe. Return Reason: Too big")
	assert.Contains(t, text, "We sent an email to jane@example.com")
}

func TestMilestones(t *testing.T) {
	tracking := &entity.Tracking{Milestones: []entity.TrackingMilestone{
		{Code: entity.MilestoneReturnCreated, Location: "Dublin"},
		{Code: entity.MilestoneReturnReceivedByCarrier, IsCurrentMilestone: true},
	}}
	got := Milestones(tracking)
	assert.Equal(t, []Milestone{
		{Label: "Created", Status: MilestoneDone},
		{Label: "Received by carrier", Status: MilestoneCurrent},
		{Label: "Received", Status: MilestonePending},
		{Label: "Processed", Status: MilestonePending},
	}, got)

	processed := &entity.Tracking{Milestones: []entity.TrackingMilestone{
		{Code: entity.MilestoneReturnProcessed, IsCurrentMilestone: true},
	}}
	got = Milestones(processed)
	assert.Equal(t, MilestoneDone, got[0].Status)
	assert.Equal(t, MilestoneCurrent, got[3].Status)
}

func TestTrackingProgress(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	c := TrackingProgress(&entity.Tracking{
		Carrier: "DHL",
		Events: []entity.TrackingEvent{
			{Code: "CODE1", DateTime: at, Location: "Dublin"},
			{Code: "CODE9", DateTime: at, Location: "Cork"},
		},
	}, "123")

	text := c.PlainText()
	assert.Contains(t, text, "Return 123 shipping progress")
	assert.Contains(t, text, "Carrier: DHL")
	assert.Contains(t, text, "Return created - 2024-03-01 10:30 - Dublin")
	assert.Contains(t, text, "CODE9 - 2024-03-01 10:30 - Cork")

	raw, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"AdaptiveCard"`)
}

func TestTrackingEventsAreChronological(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	tracking := &entity.Tracking{Events: []entity.TrackingEvent{
		{Code: "CODE3", DateTime: at.Add(48 * time.Hour), Location: "Cork"},
		{Code: "CODE1", DateTime: at, Location: "Dublin"},
		{Code: "CODE2", DateTime: at.Add(24 * time.Hour), Location: "Athlone"},
	}}

	text := TrackingProgress(tracking, "123").PlainText()
	created := strings.Index(text, "Return created")
	arrived := strings.Index(text, "Return arrived at return center")
	processed := strings.Index(text, "Return processed")
	require.True(t, created >= 0 && arrived >= 0 && processed >= 0, text)
	assert.Less(t, created, arrived)
	assert.Less(t, arrived, processed)

	assert.Equal(t, "CODE3", tracking.Events[0].Code, "input order is left alone")
}
