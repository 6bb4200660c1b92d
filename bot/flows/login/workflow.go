package login

import (
	"context"
	"log/slog"

	"ReturnsAgent/bot/dialog"
	"ReturnsAgent/bot/flows"
	"ReturnsAgent/entity"

	"golang.org/x/oauth2"
)

// Step names
const (
	StepAskTenantCode     dialog.StepName = "ask_tenant_code"
	StepAskOrderReference dialog.StepName = "ask_order_reference"
	StepAskEmail          dialog.StepName = "ask_email"
	StepPleaseWait        dialog.StepName = "please_wait"
	StepFinishLogIn       dialog.StepName = "finish_log_in"
)

// frame value keys
const (
	valTenantCode     = "tenantCode"
	valOrderReference = "orderReference"
	valEmailAddress   = "emailAddress"
)

// Gateway defines the backend calls needed to log in.
type Gateway interface {
	Authenticate(ctx context.Context, tenantCode, orderReference, email string) (*oauth2.Token, error)
	GetOrder(ctx context.Context, tok *oauth2.Token, tenantCode, orderReference, filter string) (*entity.Order, error)
	GetCountryConfig(ctx context.Context, tok *oauth2.Token, tenantCode, countryIso string) (*entity.CountryConfiguration, error)
}

// TenantResolver maps a free-text store name to a tenant code.
type TenantResolver interface {
	TenantCode(name string) string
}

// Workflow collects the order credentials, logs in and loads the order. It
// ends with the classification it was started with, or nil on failure.
type Workflow struct {
	steps []dialog.Step
}

func New(gateway Gateway, tenants TenantResolver, log *slog.Logger) *Workflow {
	log = log.With(slog.String("flow", string(flows.Login)))
	return &Workflow{
		steps: []dialog.Step{
			&AskTenantCodeStep{},
			&AskOrderReferenceStep{tenants: tenants},
			&AskEmailStep{},
			&PleaseWaitStep{},
			&FinishLogInStep{gateway: gateway, log: log},
		},
	}
}

func (w *Workflow) ID() dialog.FlowID     { return flows.Login }
func (w *Workflow) Steps() []dialog.Step { return w.steps }
