package login

import (
	"context"
	"log/slog"

	"ReturnsAgent/bot/dialog"
	"ReturnsAgent/bot/flows"
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

// keep stores the previous answer under key when it is text.
func keep(sc *dialog.StepContext, key string, input dialog.Input, transform func(string) string) error {
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

func (s *AskTenantCodeStep) Run(_ context.Context, sc *dialog.StepContext, _ dialog.Input) (dialog.Directive, error) {
	res, err := options(sc)
	if err != nil {
		return dialog.Directive{}, err
	}
	if res.Store == "" {
		return dialog.Prompt(flows.MsgAskStore), nil
	}
	return dialog.Next(res.Store), nil
}

type AskOrderReferenceStep struct {
	tenants TenantResolver
}

func (s *AskOrderReferenceStep) Name() dialog.StepName { return StepAskOrderReference }

func (s *AskOrderReferenceStep) Run(_ context.Context, sc *dialog.StepContext, input dialog.Input) (dialog.Directive, error) {
	if err := keep(sc, valTenantCode, input, s.tenants.TenantCode); err != nil {
		return dialog.Directive{}, err
	}
	res, err := options(sc)
	if err != nil {
		return dialog.Directive{}, err
	}
	if res.OrderReference == "" {
		return dialog.Prompt(flows.MsgAskOrderReference), nil
	}
	return dialog.Next(res.OrderReference), nil
}

type AskEmailStep struct{}

func (s *AskEmailStep) Name() dialog.StepName { return StepAskEmail }

func (s *AskEmailStep) Run(_ context.Context, sc *dialog.StepContext, input dialog.Input) (dialog.Directive, error) {
	if err := keep(sc, valOrderReference, input, nil); err != nil {
		return dialog.Directive{}, err
	}
	res, err := options(sc)
	if err != nil {
		return dialog.Directive{}, err
	}
	if res.EmailAddress == "" {
		return dialog.Prompt(flows.MsgAskEmail,
			dialog.WithRetry(flows.MsgRetryEmail),
			dialog.WithValidator(dialog.ValidatorEmail),
		), nil
	}
	return dialog.Next(res.EmailAddress), nil
}

type PleaseWaitStep struct{}

func (s *PleaseWaitStep) Name() dialog.StepName { return StepPleaseWait }

func (s *PleaseWaitStep) Run(ctx context.Context, sc *dialog.StepContext, input dialog.Input) (dialog.Directive, error) {
	if err := keep(sc, valEmailAddress, input, nil); err != nil {
		return dialog.Directive{}, err
	}
	if err := sc.SendText(ctx, flows.MsgPleaseWait); err != nil {
		return dialog.Directive{}, err
	}
	return dialog.Next(nil), nil
}

// FinishLogInStep authenticates and loads the order with its country
// configuration. The stored login record changes only when every call
// succeeds.
type FinishLogInStep struct {
	gateway Gateway
	log     *slog.Logger
}

func (s *FinishLogInStep) Name() dialog.StepName { return StepFinishLogIn }

func (s *FinishLogInStep) Run(ctx context.Context, sc *dialog.StepContext, _ dialog.Input) (dialog.Directive, error) {
	tenant := sc.StringValue(valTenantCode)
	orderRef := sc.StringValue(valOrderReference)
	email := sc.StringValue(valEmailAddress)

	tok, err := s.gateway.Authenticate(ctx, tenant, orderRef, email)
	if err != nil {
		return flows.OrderNotFound(ctx, sc, s.log, "authenticate", err)
	}
	order, err := s.gateway.GetOrder(ctx, tok, tenant, orderRef, oms.OrderFilterNotReturned)
	if err != nil {
		return flows.OrderNotFound(ctx, sc, s.log, "get order", err)
	}
	config, err := s.gateway.GetCountryConfig(ctx, tok, tenant, order.CountryIso)
	if err != nil {
		return flows.OrderNotFound(ctx, sc, s.log, "get country config", err)
	}

	data, err := flows.LogIn.Get(ctx, sc.State())
	if err != nil {
		return dialog.Directive{}, err
	}
	data.TenantCode = tenant
	data.OrderReference = orderRef
	data.EmailAddress = email
	data.AuthToken = tok
	data.Order = order
	data.CountryConfiguration = config
	data.AvailableReturnMethods = nil
	data.SelectedReturnMethod = nil

	s.log.Info("logged in",
		slog.String("tenant", tenant),
		slog.String("order", orderRef),
		slog.Int("items", len(order.Items)),
	)

	res, err := options(sc)
	if err != nil {
		return dialog.Directive{}, err
	}
	return dialog.End(res), nil
}
