package entity

import "golang.org/x/oauth2"

// LogInData is the per-user record accumulated by the login flow and read by
// the return and tracking flows.
type LogInData struct {
	TenantCode             string                `json:"tenantCode,omitempty"`
	OrderReference         string                `json:"orderReference,omitempty"`
	EmailAddress           string                `json:"emailAddress,omitempty"`
	AuthToken              *oauth2.Token         `json:"authToken,omitempty"`
	Order                  *Order                `json:"order,omitempty"`
	CountryConfiguration   *CountryConfiguration `json:"countryConfiguration,omitempty"`
	AvailableReturnMethods []ReturnMethod        `json:"availableReturnMethods,omitempty"`
	SelectedReturnMethod   *ReturnMethod         `json:"selectedReturnMethod,omitempty"`
}

// HasCredentials reports whether tenant, order reference and email are known.
func (d *LogInData) HasCredentials() bool {
	return d.TenantCode != "" && d.OrderReference != "" && d.EmailAddress != ""
}

// HasValidToken reports whether a non-expired bearer token is stored.
func (d *LogInData) HasValidToken() bool {
	return d.AuthToken.Valid()
}
