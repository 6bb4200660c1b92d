package trackreturn

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
	StepAskTenantCode        dialog.StepName = "ask_tenant_code"
	StepAskOrderReference    dialog.StepName = "ask_order_reference"
	StepAskEmail             dialog.StepName = "ask_email"
	StepPleaseWait           dialog.StepName = "please_wait"
	StepFinishLogIn          dialog.StepName = "finish_log_in"
	StepAskTrackingReference dialog.StepName = "ask_tracking_reference"
	StepDisplayTracking      dialog.StepName = "display_tracking"
)

const (
	MsgAskReturnOrderNumber = "Please enter your return order number."
	MsgInvalidReturnNumber  = "The return order number must contain digits only."
)

const (
	valTenantCode     = "tenantCode"
	valOrderReference = "orderReference"
	valEmailAddress   = "emailAddress"
)

// Gateway defines the backend calls needed to track a return.
type Gateway interface {
	Authenticate(ctx context.Context, tenantCode, orderReference, email string) (*oauth2.Token, error)
	GetTrackingEvents(ctx context.Context, tok *oauth2.Token, tenantCode, email string, trackingRef int64) (*entity.Tracking, error)
}

type TenantResolver interface {
	TenantCode(name string) string
}

// Workflow shows the shipping progress of a return order. Credentials
// already on the login record are never asked again.
type Workflow struct {
	steps []dialog.Step
}

func New(gateway Gateway, tenants TenantResolver, log *slog.Logger) *Workflow {
	log = log.With(slog.String("flow", string(flows.TrackReturnOrder)))
	return &Workflow{
		steps: []dialog.Step{
			&AskTenantCodeStep{},
			&AskOrderReferenceStep{tenants: tenants},
			&AskEmailStep{},
			&PleaseWaitStep{},
			&FinishLogInStep{gateway: gateway, log: log},
			&AskTrackingReferenceStep{},
			&DisplayTrackingStep{gateway: gateway, log: log},
		},
	}
}

func (w *Workflow) ID() dialog.FlowID     { return flows.TrackReturnOrder }
func (w *Workflow) Steps() []dialog.Step { return w.steps }
