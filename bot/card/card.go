package card

import "strings"

const (
	ContentType = "application/vnd.microsoft.card.adaptive"
	cardType    = "AdaptiveCard"
	cardVersion = "1.3"

	LayoutList     = "list"
	LayoutCarousel = "carousel"
)

// Submit action payload keys and values understood by the router.
const (
	ActionKey                  = "action"
	ActionSubmitSelection      = "submit_selection"
	ActionSelectShippingMethod = "select_shipping_method"
	FieldItemID                = "item_id"
	FieldSelectedMethod        = "selectedMethod"
	InputAddToReturn           = "addToReturn"
	InputReturnReason          = "returnReason"
)

// Card is a channel neutral structured message in Adaptive Card shape.
type Card struct {
	Type    string    `json:"type"`
	Version string    `json:"version"`
	Body    []Element `json:"body"`
	Actions []Action  `json:"actions,omitempty"`
}

type Element struct {
	Type                string    `json:"type"`
	ID                  string    `json:"id,omitempty"`
	Text                string    `json:"text,omitempty"`
	Weight              string    `json:"weight,omitempty"`
	Size                string    `json:"size,omitempty"`
	Wrap                bool      `json:"wrap,omitempty"`
	URL                 string    `json:"url,omitempty"`
	Style               string    `json:"style,omitempty"`
	HorizontalAlignment string    `json:"horizontalAlignment,omitempty"`
	Title               string    `json:"title,omitempty"`
	Value               string    `json:"value,omitempty"`
	ValueOn             string    `json:"valueOn,omitempty"`
	ValueOff            string    `json:"valueOff,omitempty"`
	Placeholder         string    `json:"placeholder,omitempty"`
	IsMultiSelect       bool      `json:"isMultiSelect,omitempty"`
	Choices             []Choice  `json:"choices,omitempty"`
	Columns             []Column  `json:"columns,omitempty"`
	Items               []Element `json:"items,omitempty"`
	Width               string    `json:"width,omitempty"`
}

type Column struct {
	Type  string    `json:"type"`
	Width string    `json:"width,omitempty"`
	Items []Element `json:"items"`
}

type Choice struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

type Action struct {
	Type  string         `json:"type"`
	Title string         `json:"title"`
	Data  map[string]any `json:"data,omitempty"`
}

func newCard(body ...Element) *Card {
	return &Card{Type: cardType, Version: cardVersion, Body: body}
}

func textBlock(text string) Element {
	return Element{Type: "TextBlock", Text: text, Wrap: true}
}

func heading(text, size string) Element {
	return Element{Type: "TextBlock", Text: text, Weight: "Bolder", Size: size, Wrap: true}
}

func image(url, size string) Element {
	return Element{Type: "Image", URL: url, Size: size}
}

func submit(title string, data map[string]any) Action {
	return Action{Type: "Action.Submit", Title: title, Data: data}
}

// Input returns the first input element with the given id.
func (c *Card) Input(id string) (Element, bool) {
	for _, e := range c.Body {
		if e.ID == id {
			return e, true
		}
	}
	return Element{}, false
}

// PlainText flattens every text block, columns included, one per line.
func (c *Card) PlainText() string {
	var lines []string
	var walk func([]Element)
	walk = func(elements []Element) {
		for _, e := range elements {
			if e.Type == "TextBlock" && e.Text != "" {
				lines = append(lines, e.Text)
			}
			for _, col := range e.Columns {
				walk(col.Items)
			}
			walk(e.Items)
		}
	}
	walk(c.Body)
	return strings.Join(lines, "\n")
}
