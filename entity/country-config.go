package entity

// CountryConfiguration is the brand configuration for the country an order
// was placed in. Only the portal settings are read by the assistant.
type CountryConfiguration struct {
	TenantCode     string         `json:"tenantCode"`
	CountryIso     string         `json:"countryIso"`
	PortalSettings PortalSettings `json:"portalSettings"`
}

type PortalSettings struct {
	CustomerReturnReasonCodes []ReturnReason `json:"customerReturnReasonCodes"`
}

type ReturnReason struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ReasonDescription returns the human readable text for a reason code, or the
// code itself when the configuration does not know it.
func (c *CountryConfiguration) ReasonDescription(code string) string {
	if c == nil {
		return code
	}
	for _, r := range c.PortalSettings.CustomerReturnReasonCodes {
		if r.Code == code {
			return r.Description
		}
	}
	return code
}
