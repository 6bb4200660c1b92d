package trackreturn

import (
	"context"
	"log/slog"

	"ReturnsAgent/bot/card"
	"ReturnsAgent/bot/dialog"
	"ReturnsAgent/bot/flows"
	"ReturnsAgent/entity"
	"ReturnsAgent/internal/lib/sl"
	"ReturnsAgent/internal/nlu"
	"ReturnsAgent/internal/service/oms"
)

func options(sc *dialog.StepContext) (*nlu.Result, error) {
	var res nlu.Result
	if err := sc.Options(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

func loginData(ctx context.Context, sc *dialog.StepContext) (*entity.LogInData, error) {
	return flows.LogIn.Get(ctx, sc.State())
}

// keep stores a text answer under key unless the login record already has it.
func keep(sc *dialog.StepContext, key, known string, input dialog.Input, transform func(string) string) error {
	if known != "" {
		return nil
	}
	s, ok := input.String()
	if !ok {
		return nil
	}
	if transform != nil {
		s = transform(s)
	}
	return sc.SetValue(key, s)
}

type AskTenantCodeStep struct{}

func (s *AskTenantCodeStep) Name() dialog.StepName { return StepAskTenantCode }

func (s *AskTenantCodeStep) Run(ctx context.Context, sc *dialog.StepContext, _ dialog.Input) (dialog.Directive, error) {
	data, err := loginData(ctx, sc)
	if err != nil {
		return dialog.Directive{}, err
	}
	if data.TenantCode != "" {
		return dialog.Next(nil), nil
	}
	res, err := options(sc)
	if err != nil {
		return dialog.Directive{}, err
	}
	if res.Store != "" {
		return dialog.Next(res.Store), nil
	}
	return dialog.Prompt(flows.MsgAskStore), nil
}

type AskOrderReferenceStep struct {
	tenants TenantResolver
}

func (s *AskOrderReferenceStep) Name() dialog.StepName { return StepAskOrderReference }

func (s *AskOrderReferenceStep) Run(ctx context.Context, sc *dialog.StepContext, input dialog.Input) (dialog.Directive, error) {
	data, err := loginData(ctx, sc)
	if err != nil {
		return dialog.Directive{}, err
	}
	if err := keep(sc, valTenantCode, data.TenantCode, input, s.tenants.TenantCode); err != nil {
		return dialog.Directive{}, err
	}
	if data.OrderReference != "" {
		return dialog.Next(nil), nil
	}
	res, err := options(sc)
	if err != nil {
		return dialog.Directive{}, err
	}
	if res.OrderReference != "" {
		return dialog.Next(res.OrderReference), nil
	}
	return dialog.Prompt(flows.MsgAskOrderReference), nil
}

type AskEmailStep struct{}

func (s *AskEmailStep) Name() dialog.StepName { return StepAskEmail }

func (s *AskEmailStep) Run(ctx context.Context, sc *dialog.StepContext, input dialog.Input) (dialog.Directive, error) {
	data, err := loginData(ctx, sc)
	if err != nil {
		return dialog.Directive{}, err
	}
	if err := keep(sc, valOrderReference, data.OrderReference, input, nil); err != nil {
		return dialog.Directive{}, err
	}
	if data.EmailAddress != "" {
		return dialog.Next(nil), nil
	}
	res, err := options(sc)
	if err != nil {
		return dialog.Directive{}, err
	}
	if res.EmailAddress != "" {
		return dialog.Next(res.EmailAddress), nil
	}
	return dialog.Prompt(flows.MsgAskEmail,
		dialog.WithRetry(flows.MsgRetryEmail),
		dialog.WithValidator(dialog.ValidatorEmail),
	), nil
}

type PleaseWaitStep struct{}

func (s *PleaseWaitStep) Name() dialog.StepName { return StepPleaseWait }

func (s *PleaseWaitStep) Run(ctx context.Context, sc *dialog.StepContext, input dialog.Input) (dialog.Directive, error) {
	data, err := loginData(ctx, sc)
	if err != nil {
		return dialog.Directive{}, err
	}
	if err := keep(sc, valEmailAddress, data.EmailAddress, input, nil); err != nil {
		return dialog.Directive{}, err
	}
	if data.HasCredentials() && data.HasValidToken() {
		return dialog.Next(nil), nil
	}
	if err := sc.SendText(ctx, flows.MsgPleaseWait); err != nil {
		return dialog.Directive{}, err
	}
	return dialog.Next(nil), nil
}

// FinishLogInStep authenticates only when a credential is missing or the
// stored token has expired.
type FinishLogInStep struct {
	gateway Gateway
	log     *slog.Logger
}

func (s *FinishLogInStep) Name() dialog.StepName { return StepFinishLogIn }

func (s *FinishLogInStep) Run(ctx context.Context, sc *dialog.StepContext, _ dialog.Input) (dialog.Directive, error) {
	data, err := loginData(ctx, sc)
	if err != nil {
		return dialog.Directive{}, err
	}
	if data.HasCredentials() && data.HasValidToken() {
		return dialog.Next(nil), nil
	}

	tenant := cmpOr(data.TenantCode, sc.StringValue(valTenantCode))
	orderRef := cmpOr(data.OrderReference, sc.StringValue(valOrderReference))
	email := cmpOr(data.EmailAddress, sc.StringValue(valEmailAddress))

	tok, err := s.gateway.Authenticate(ctx, tenant, orderRef, email)
	if err != nil {
		return flows.OrderNotFound(ctx, sc, s.log, "authenticate", err)
	}
	data.TenantCode = tenant
	data.OrderReference = orderRef
	data.EmailAddress = email
	data.AuthToken = tok
	return dialog.Next(nil), nil
}

type AskTrackingReferenceStep struct{}

func (s *AskTrackingReferenceStep) Name() dialog.StepName { return StepAskTrackingReference }

func (s *AskTrackingReferenceStep) Run(_ context.Context, sc *dialog.StepContext, _ dialog.Input) (dialog.Directive, error) {
	res, err := options(sc)
	if err != nil {
		return dialog.Directive{}, err
	}
	if res.ReturnOrderNumber != "" {
		return dialog.Next(res.ReturnOrderNumber), nil
	}
	return dialog.Prompt(MsgAskReturnOrderNumber, dialog.WithValidator(dialog.ValidatorNumber)), nil
}

// DisplayTrackingStep renders the milestones of the return and ends with the
// classification marked complete once the return is processed.
type DisplayTrackingStep struct {
	gateway Gateway
	log     *slog.Logger
}

func (s *DisplayTrackingStep) Name() dialog.StepName { return StepDisplayTracking }

func (s *DisplayTrackingStep) Run(ctx context.Context, sc *dialog.StepContext, input dialog.Input) (dialog.Directive, error) {
	res, err := options(sc)
	if err != nil {
		return dialog.Directive{}, err
	}
	reference, _ := input.String()

	trackingRef, err := oms.ParseTrackingReference(reference)
	if err != nil {
		s.log.Debug("invalid tracking reference", slog.String("reference", reference), sl.Err(err))
		if err := sc.SendText(ctx, MsgInvalidReturnNumber); err != nil {
			return dialog.Directive{}, err
		}
		res.ReturnOrderNumber = ""
		return dialog.Replace(flows.TrackReturnOrder, res), nil
	}

	data, err := loginData(ctx, sc)
	if err != nil {
		return dialog.Directive{}, err
	}
	tracking, err := s.gateway.GetTrackingEvents(ctx, data.AuthToken, data.TenantCode, data.EmailAddress, trackingRef)
	if err != nil {
		return flows.OrderNotFound(ctx, sc, s.log, "get tracking events", err)
	}

	if err := sc.SendCards(ctx, card.LayoutList, card.TrackingProgress(tracking, reference)); err != nil {
		return dialog.Directive{}, err
	}
	res.IsComplete = tracking.IsProcessed()
	return dialog.End(res), nil
}

// cmpOr is cmp.Or from Go 1.22; the module targets the Go 1.21 toolchain.
func cmpOr[T comparable](vals ...T) T {
	var zero T
	for _, v := range vals {
		if v != zero {
			return v
		}
	}
	return zero
}
