package entity

type OrderItemSelection struct {
	ItemID           string `json:"itemId"`
	ReturnReasonCode string `json:"returnReasonCode"`
}

// OrderItemSelections maps a user id to the items that user marked for return.
type OrderItemSelections map[string][]OrderItemSelection

// Add appends the item for the user unless it is already selected.
func (s OrderItemSelections) Add(userID, itemID, reason string) {
	for _, sel := range s[userID] {
		if sel.ItemID == itemID {
			return
		}
	}
	s[userID] = append(s[userID], OrderItemSelection{ItemID: itemID, ReturnReasonCode: reason})
}

// Remove drops the item from the user's selection if present.
func (s OrderItemSelections) Remove(userID, itemID string) {
	list, ok := s[userID]
	if !ok {
		return
	}
	for i, sel := range list {
		if sel.ItemID == itemID {
			s[userID] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// For returns the user's selections.
func (s OrderItemSelections) For(userID string) []OrderItemSelection {
	return s[userID]
}

// ItemIDs returns the item ids selected by userID, in insertion order.
func (s OrderItemSelections) ItemIDs(userID string) []string {
	ids := make([]string, 0, len(s[userID]))
	for _, sel := range s[userID] {
		ids = append(ids, sel.ItemID)
	}
	return ids
}
