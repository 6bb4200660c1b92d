package card

import (
	"fmt"
	"strconv"

	"ReturnsAgent/entity"
)

// ItemSelection builds one selectable card per order item. Each card carries
// an add-to-return toggle, the country's return reasons and a submit action
// bound to the item id.
func ItemSelection(items []entity.OrderItem, reasons []entity.ReturnReason) []*Card {
	choices := make([]Choice, 0, len(reasons))
	for _, r := range reasons {
		choices = append(choices, Choice{Title: r.Description, Value: r.Code})
	}

	cards := make([]*Card, 0, len(items))
	for _, item := range items {
		c := newCard()
		if item.ProductImageURL != "" {
			c.Body = append(c.Body, image(item.ProductImageURL, "Auto"))
		}
		c.Body = append(c.Body,
			heading(item.ProductDescription, "Medium"),
			textBlock(item.ProductCode),
			textBlock(fmt.Sprintf("%s %s", strconv.FormatFloat(item.UnitPrice.Amount, 'f', -1, 64), item.UnitPrice.Currency)),
			Element{
				Type:     "Input.Toggle",
				ID:       InputAddToReturn,
				Title:    "Add to return",
				ValueOn:  "true",
				ValueOff: "false",
				Value:    "false",
			},
			Element{
				Type:          "Input.ChoiceSet",
				ID:            InputReturnReason,
				Choices:       choices,
				Style:         "compact",
				IsMultiSelect: false,
				Placeholder:   "Select a return reason",
			},
		)
		c.Actions = []Action{
			submit("Submit selection", map[string]any{
				ActionKey:   ActionSubmitSelection,
				FieldItemID: item.ID,
			}),
		}
		cards = append(cards, c)
	}
	return cards
}

// ReturnMethodTitle is the label of a return method choice; paperless routes
// get a leaf.
func ReturnMethodTitle(m entity.ReturnMethod) string {
	title := fmt.Sprintf("%s - %s", m.ReturnMethod, m.CarrierServiceRoute.CarrierName)
	if m.CarrierServiceRoute.IsPaperlessRoute {
		title += " 🍃"
	}
	return title
}

// ShippingMethods offers one submit action per available return method.
func ShippingMethods(methods []entity.ReturnMethod) *Card {
	c := newCard(textBlock("Please select the return method for your return."))
	for _, m := range methods {
		c.Actions = append(c.Actions, submit(ReturnMethodTitle(m), map[string]any{
			ActionKey:           ActionSelectShippingMethod,
			FieldSelectedMethod: m.CarrierServiceRoute.CarrierServiceRouteID,
		}))
	}
	return c
}

// ReturnSummary confirms a created return order.
func ReturnSummary(data *entity.LogInData, selections []entity.OrderItemSelection, returnOrderNumber string) *Card {
	shopper := data.Order.ShopperDetails
	c := newCard(
		heading("Your return order was successfully created!", "Large"),
		heading(fmt.Sprintf("Return Order Number: %s", returnOrderNumber), "Medium"),
		textBlock(fmt.Sprintf("%s %s - %s, %s, %s, %s",
			shopper.FirstName, shopper.LastName,
			shopper.Address.CountryName, shopper.Address.City, shopper.Address.Address1, shopper.Address.PostalCode)),
	)

	for _, sel := range selections {
		item, ok := data.Order.Item(sel.ItemID)
		if !ok {
			continue
		}
		reason := data.CountryConfiguration.ReasonDescription(sel.ReturnReasonCode)
		row := Element{Type: "ColumnSet"}
		if item.ProductImageURL != "" {
			row.Columns = append(row.Columns, Column{Type: "Column", Width: "auto", Items: []Element{image(item.ProductImageURL, "Small")}})
		}
		row.Columns = append(row.Columns, Column{
			Type:  "Column",
			Width: "stretch",
			Items: []Element{textBlock(fmt.Sprintf("%s. Return Reason: %s", item.ProductDescription, reason))},
		})
		c.Body = append(c.Body, row)
	}

	c.Body = append(c.Body, textBlock(fmt.Sprintf(
		"We sent an email to %s with instructions on how to proceed with your return. Thank you for using ESW's Bot Assistant.",
		data.EmailAddress)))
	return c
}
