// Package omstest provides an in-memory oms.Gateway for tests.
package omstest

import (
	"context"
	"sync"

	"ReturnsAgent/entity"
	"ReturnsAgent/internal/service/oms"

	"golang.org/x/oauth2"
)

var _ oms.Gateway = (*Fake)(nil)

// Fake answers every call from its fields. A non-nil error field makes the
// matching call fail with an *oms.Error wrapping it.
type Fake struct {
	mu sync.Mutex

	Token             *oauth2.Token
	Order             *entity.Order
	CountryConfig     *entity.CountryConfiguration
	ReturnMethods     []entity.ReturnMethod
	ReturnOrderNumber string
	Tracking          *entity.Tracking

	AuthErr     error
	OrderErr    error
	ConfigErr   error
	SearchErr   error
	CreateErr   error
	TrackingErr error

	Calls         map[string]int
	CreateRequest *entity.CreateReturnOrder
	SearchedItems []string
	TrackedRef    int64
}

// New returns a Fake holding a small two-item order.
func New() *Fake {
	return &Fake{
		Token: &oauth2.Token{AccessToken: "token", TokenType: "Bearer"},
		Order: &entity.Order{
			OrderReference: "ORD-1",
			CountryIso:     "IE",
			ShopperDetails: entity.ShopperDetails{
				FirstName: "Jane",
				LastName:  "Doe",
				Email:     "jane@example.com",
				Locale:    "en-IE",
				Address: entity.Address{
					Address1:    "1 Main Street",
					City:        "Dublin",
					PostalCode:  "D01",
					CountryName: "Ireland",
				},
			},
			Items: []entity.OrderItem{
				{
					ID: "item-1", ProductCode: "SKU1", ProductDescription: "Running shoe",
					UnitPrice: entity.Money{Amount: 99.5, Currency: "EUR"}, AvailableForReturns: true,
					ShippingInformation: entity.ShippingInformation{ShippingReference: "SHIP-1"},
				},
				{
					ID: "item-2", ProductCode: "SKU2", ProductDescription: "Socks",
					UnitPrice: entity.Money{Amount: 9, Currency: "EUR"}, AvailableForReturns: false,
					ShippingInformation: entity.ShippingInformation{ShippingReference: "SHIP-2"},
				},
			},
		},
		CountryConfig: &entity.CountryConfiguration{
			CountryIso: "IE",
			PortalSettings: entity.PortalSettings{
				CustomerReturnReasonCodes: []entity.ReturnReason{
					{Code: "TooBig", Description: "Too big"},
					{Code: "Damaged", Description: "Arrived damaged"},
				},
			},
		},
		ReturnMethods: []entity.ReturnMethod{
			{
				ReturnMethod: "DropOff", PaidBy: "Retailer",
				CarrierServiceRoute: entity.CarrierServiceRoute{
					CarrierServiceRouteID: "route-1", CarrierName: "An Post",
					EswCarrierIdentifier: "ANPOST", IsPaperlessRoute: true,
				},
			},
			{
				ReturnMethod: "Collection", PaidBy: "Consumer",
				CarrierServiceRoute: entity.CarrierServiceRoute{
					CarrierServiceRouteID: "route-2", CarrierName: "DHL", EswCarrierIdentifier: "DHL",
				},
			},
		},
		ReturnOrderNumber: "900123",
		Tracking: &entity.Tracking{
			Carrier: "An Post",
			Milestones: []entity.TrackingMilestone{
				{Code: entity.MilestoneReturnCreated},
				{Code: entity.MilestoneReturnReceivedByCarrier, IsCurrentMilestone: true},
			},
		},
		Calls: make(map[string]int),
	}
}

func (f *Fake) count(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Calls == nil {
		f.Calls = make(map[string]int)
	}
	f.Calls[op]++
}

func fail(op string, err error) error {
	return &oms.Error{Operation: op, Err: err}
}

func (f *Fake) Authenticate(_ context.Context, _, _, _ string) (*oauth2.Token, error) {
	f.count("login")
	if f.AuthErr != nil {
		return nil, fail("login", f.AuthErr)
	}
	tok := *f.Token
	return &tok, nil
}

func (f *Fake) GetOrder(_ context.Context, tok *oauth2.Token, _, _, _ string) (*entity.Order, error) {
	f.count("get_order")
	if !tok.Valid() {
		return nil, oms.ErrNotAuthenticated
	}
	if f.OrderErr != nil {
		return nil, fail("get_order", f.OrderErr)
	}
	order := *f.Order
	return &order, nil
}

func (f *Fake) GetCountryConfig(_ context.Context, tok *oauth2.Token, _, _ string) (*entity.CountryConfiguration, error) {
	f.count("get_country_config")
	if !tok.Valid() {
		return nil, oms.ErrNotAuthenticated
	}
	if f.ConfigErr != nil {
		return nil, fail("get_country_config", f.ConfigErr)
	}
	conf := *f.CountryConfig
	return &conf, nil
}

func (f *Fake) SearchReturnMethods(_ context.Context, tok *oauth2.Token, _, _ string, itemIDs []string) ([]entity.ReturnMethod, error) {
	f.count("search_return_methods")
	if !tok.Valid() {
		return nil, oms.ErrNotAuthenticated
	}
	f.SearchedItems = append([]string(nil), itemIDs...)
	if f.SearchErr != nil {
		return nil, fail("search_return_methods", f.SearchErr)
	}
	return append([]entity.ReturnMethod(nil), f.ReturnMethods...), nil
}

func (f *Fake) CreateReturnOrder(_ context.Context, tok *oauth2.Token, _, _ string, req *entity.CreateReturnOrder) (string, error) {
	f.count("create_return_order")
	if !tok.Valid() {
		return "", oms.ErrNotAuthenticated
	}
	f.CreateRequest = req
	if f.CreateErr != nil {
		return "", fail("create_return_order", f.CreateErr)
	}
	return f.ReturnOrderNumber, nil
}

func (f *Fake) GetTrackingEvents(_ context.Context, tok *oauth2.Token, _, _ string, trackingRef int64) (*entity.Tracking, error) {
	f.count("get_tracking_events")
	if !tok.Valid() {
		return nil, oms.ErrNotAuthenticated
	}
	f.TrackedRef = trackingRef
	if f.TrackingErr != nil {
		return nil, fail("get_tracking_events", f.TrackingErr)
	}
	tracking := *f.Tracking
	return &tracking, nil
}

// CallCount reports how many times op was invoked.
func (f *Fake) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[op]
}
