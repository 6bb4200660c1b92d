package entity

// Order is the snapshot of a shopper order returned by the OMS.
type Order struct {
	OrderReference string         `json:"orderReference"`
	CountryIso     string         `json:"countryIso"`
	ShopperDetails ShopperDetails `json:"shopperDetails"`
	Items          []OrderItem    `json:"items"`
}

type ShopperDetails struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Locale    string  `json:"locale"`
	Address   Address `json:"address"`
}

type Address struct {
	Address1    string `json:"address1"`
	City        string `json:"city"`
	PostalCode  string `json:"postalCode"`
	CountryName string `json:"countryName"`
}

type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type ShippingInformation struct {
	ShippingReference string `json:"shippingReference"`
}

type OrderItem struct {
	ID                  string              `json:"id"`
	ProductCode         string              `json:"productCode"`
	ProductDescription  string              `json:"productDescription"`
	ProductImageURL     string              `json:"productImageUrl"`
	UnitPrice           Money               `json:"unitPrice"`
	AvailableForReturns bool                `json:"availableForReturns"`
	Quantity            int                 `json:"quantity"`
	ShippingInformation ShippingInformation `json:"shippingInformation"`
}

// Item looks up an order line by id.
func (o *Order) Item(id string) (*OrderItem, bool) {
	if o == nil {
		return nil, false
	}
	for i := range o.Items {
		if o.Items[i].ID == id {
			return &o.Items[i], true
		}
	}
	return nil, false
}
