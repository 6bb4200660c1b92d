package createreturn_test

import (
	"context"
	"errors"
	"testing"

	"ReturnsAgent/bot/card"
	"ReturnsAgent/bot/flows"
	"ReturnsAgent/bot/flows/createreturn"
	"ReturnsAgent/bot/flows/flowstest"
	"ReturnsAgent/entity"
	"ReturnsAgent/internal/nlu"
	"ReturnsAgent/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const returnText = "I want to return my Nike order ORD-1"

// start logs in through the classified fields and leaves the flow waiting
// for the selection to be confirmed.
func start(t *testing.T) *flowstest.Harness {
	t.Helper()
	h := flowstest.New(t)
	h.Classifier.Results[returnText] = &nlu.Result{
		Intent:         nlu.IntentCreateReturn,
		Store:          "Nike",
		OrderReference: "ORD-1",
		EmailAddress:   "jane@example.com",
	}
	rec := h.Say(returnText)
	require.Equal(t, createreturn.MsgConfirmSelection, rec.Texts[len(rec.Texts)-1])
	return h
}

func shippingSubmission(routeID string) map[string]interface{} {
	return map[string]interface{}{
		card.ActionKey:           card.ActionSelectShippingMethod,
		card.FieldSelectedMethod: routeID,
	}
}

func TestCreateReturnHappyPath(t *testing.T) {
	h := start(t)
	h.Select("item-1", "TooBig")

	rec := h.Say("yes")
	assert.Empty(t, rec.Texts)
	require.Len(t, rec.Cards, 1)
	assert.Equal(t, []string{card.LayoutList}, rec.Layouts)
	assert.Equal(t, []string{"item-1"}, h.OMS.SearchedItems)
	assert.Len(t, h.LogIn().AvailableReturnMethods, 2)
	assert.Equal(t, createreturn.StepSelectReturnMethod, h.Stack().Top().Step)

	h.ChooseMethod("route-1")
	rec = h.Submit(shippingSubmission("route-1"))
	assert.Equal(t, []string{flows.MsgWhatElse}, rec.Texts)
	require.Len(t, rec.Cards, 1)
	assert.Contains(t, rec.Cards[0].PlainText(), "900123")

	req := h.OMS.CreateRequest
	require.NotNil(t, req)
	assert.Equal(t, "ANPOST", req.CarrierIdentifier)
	assert.Equal(t, "jane@example.com", req.ConsumerEmailAddress)
	assert.Equal(t, "en-IE", req.CultureLanguageIso)
	assert.Equal(t, "SHIP-1", req.ShippingReference)
	assert.True(t, req.IsPaperlessRoute)
	assert.Equal(t, "Retailer", req.PaidBy)
	assert.Equal(t, "DropOff", req.ReturnMethod)
	assert.Equal(t, createreturn.ReturnType, req.ReturnType)
	assert.Equal(t, []entity.ReturnItem{{ID: "item-1", ReasonCode: "TooBig"}}, req.ReturnItems)

	assert.Empty(t, h.Selections().For(h.User))
	top := h.Stack().Top()
	assert.Equal(t, flows.Main, top.Flow)
	assert.Equal(t, flows.CreateReturn, top.Parent)
}

func TestCreateReturnOnlyUsesOwnSelection(t *testing.T) {
	h := start(t)
	h.Select("item-1", "TooBig")
	h.Update(func(ctx context.Context, turn *state.Turn) {
		s, err := flows.Selections.Get(ctx, turn)
		require.NoError(t, err)
		s.Add("someone-else", "item-2", "Damaged")
	})

	h.Say("yes")
	assert.Equal(t, []string{"item-1"}, h.OMS.SearchedItems)
}

func TestCreateReturnNotDoneRestarts(t *testing.T) {
	h := start(t)

	rec := h.Say("no")
	assert.Equal(t, []string{createreturn.MsgSelectItems, createreturn.MsgConfirmSelection}, rec.Texts)
	assert.Len(t, rec.Cards, 1)
	assert.Equal(t, 2, h.Stack().Depth())
}

func TestCreateReturnInvalidConfirmationReprompts(t *testing.T) {
	h := start(t)

	rec := h.Say("perhaps")
	assert.Equal(t, []string{createreturn.MsgConfirmSelection}, rec.Texts)
	assert.Equal(t, createreturn.StepAskForConfirmation, h.Stack().Top().Step)
}

func TestCreateReturnNothingSelected(t *testing.T) {
	h := start(t)

	rec := h.Say("yes")
	assert.Equal(t, []string{
		createreturn.MsgNothingSelected,
		createreturn.MsgSelectItems,
		createreturn.MsgConfirmSelection,
	}, rec.Texts)
	assert.Zero(t, h.OMS.CallCount("search_return_methods"))
}

func TestCreateReturnSearchFailureRestarts(t *testing.T) {
	h := start(t)
	h.Select("item-1", "TooBig")
	h.OMS.SearchErr = errors.New("unavailable")

	rec := h.Say("yes")
	assert.Equal(t, []string{
		createreturn.MsgReturnMethodsError,
		createreturn.MsgSelectItems,
		createreturn.MsgConfirmSelection,
	}, rec.Texts)
}

func TestCreateReturnCreateFailure(t *testing.T) {
	h := start(t)
	h.Select("item-1", "TooBig")
	h.Say("yes")
	h.ChooseMethod("route-2")
	h.OMS.CreateErr = errors.New("rejected")

	rec := h.Submit(shippingSubmission("route-2"))
	assert.Equal(t, []string{createreturn.MsgCreateReturnError, flows.MsgWhatElse}, rec.Texts)
	assert.Empty(t, rec.Cards)
	assert.Len(t, h.Selections().For(h.User), 1)
}

func TestCreateReturnTextInsteadOfMethod(t *testing.T) {
	h := start(t)
	h.Select("item-1", "TooBig")
	h.Say("yes")

	rec := h.Say("actually never mind")
	assert.Equal(t, []string{flows.MsgWhatElse}, rec.Texts)
	assert.Zero(t, h.OMS.CallCount("create_return_order"))
}

func TestCreateReturnSubmissionWithoutChosenMethod(t *testing.T) {
	h := start(t)
	h.Select("item-1", "TooBig")
	h.Say("yes")

	rec := h.Submit(shippingSubmission("route-9"))
	assert.Equal(t, []string{flows.MsgUnexpectedAction, flows.MsgWhatElse}, rec.Texts)
	assert.Zero(t, h.OMS.CallCount("create_return_order"))
}

func TestNoEligibleItems(t *testing.T) {
	h := flowstest.New(t)
	for i := range h.OMS.Order.Items {
		h.OMS.Order.Items[i].AvailableForReturns = false
	}
	h.Classifier.Results[returnText] = &nlu.Result{
		Intent:         nlu.IntentCreateReturn,
		Store:          "Nike",
		OrderReference: "ORD-1",
		EmailAddress:   "jane@example.com",
	}

	rec := h.Say(returnText)
	assert.Equal(t, []string{flows.MsgPleaseWait, createreturn.MsgNoEligibleItems, flows.MsgWhatElse}, rec.Texts)
	assert.Empty(t, rec.Cards)
}

func TestEligibility(t *testing.T) {
	items := []entity.OrderItem{
		{ID: "a", AvailableForReturns: true, UnitPrice: entity.Money{Amount: 80}},
		{ID: "b", AvailableForReturns: true, UnitPrice: entity.Money{Amount: 10}},
		{ID: "c", AvailableForReturns: false, UnitPrice: entity.Money{Amount: 90}},
	}

	def, err := createreturn.NewEligibility("  ")
	require.NoError(t, err)
	assert.Equal(t, createreturn.DefaultEligibilityRule, def.Rule())
	got, err := def.Filter(items)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	pricey, err := createreturn.NewEligibility("AvailableForReturns && UnitPrice.Amount > 50")
	require.NoError(t, err)
	got, err = pricey.Filter(items)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	_, err = createreturn.NewEligibility("Quantity")
	assert.Error(t, err)
	_, err = createreturn.NewEligibility("NoSuchField")
	assert.Error(t, err)
}
