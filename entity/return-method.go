package entity

type CarrierServiceRoute struct {
	CarrierServiceRouteID string `json:"carrierServiceRouteId"`
	CarrierName           string `json:"carrierName"`
	EswCarrierIdentifier  string `json:"eswCarrierIdentifier"`
	IsPaperlessRoute      bool   `json:"isPaperlessRoute"`
}

// ReturnMethod is one way the shopper can send items back.
type ReturnMethod struct {
	ReturnMethod        string              `json:"returnMethod"`
	PaidBy              string              `json:"paidBy"`
	CarrierServiceRoute CarrierServiceRoute `json:"carrierServiceRoute"`
}

// FindReturnMethod returns the method whose carrier route id matches.
func FindReturnMethod(methods []ReturnMethod, routeID string) (*ReturnMethod, bool) {
	for i := range methods {
		if methods[i].CarrierServiceRoute.CarrierServiceRouteID == routeID {
			return &methods[i], true
		}
	}
	return nil, false
}

type ReturnItem struct {
	ID         string `json:"id"`
	ReasonCode string `json:"reasonCode,omitempty"`
}

// CreateReturnOrder is the request body for creating a return order.
type CreateReturnOrder struct {
	CarrierIdentifier    string       `json:"carrierIdentifier"`
	ConsumerEmailAddress string       `json:"consumerEmailAddress"`
	CultureLanguageIso   string       `json:"cultureLanguageIso"`
	ShippingReference    string       `json:"shippingReference"`
	IsPaperlessRoute     bool         `json:"isPaperlessRoute"`
	PaidBy               string       `json:"paidBy"`
	ReturnMethod         string       `json:"returnMethod"`
	ReturnType           int          `json:"returnType"`
	ReturnItems          []ReturnItem `json:"returnItems"`
}
