package createreturn

import (
	"context"
	"errors"
	"log/slog"

	"ReturnsAgent/bot/card"
	"ReturnsAgent/bot/dialog"
	"ReturnsAgent/bot/flows"
	"ReturnsAgent/entity"
	"ReturnsAgent/internal/lib/sl"
)

var errNotLoggedIn = errors.New("no order on login record")

func whatElse() dialog.Directive {
	return dialog.Replace(flows.Main, flows.MainOptions{Message: flows.MsgWhatElse})
}

// AskOrderItemsSelectionStep shows one card per eligible item.
type AskOrderItemsSelectionStep struct {
	eligibility *Eligibility
	log         *slog.Logger
}

func (s *AskOrderItemsSelectionStep) Name() dialog.StepName { return StepAskOrderItemsSelection }

func (s *AskOrderItemsSelectionStep) Run(ctx context.Context, sc *dialog.StepContext, _ dialog.Input) (dialog.Directive, error) {
	data, err := flows.LogIn.Get(ctx, sc.State())
	if err != nil {
		return dialog.Directive{}, err
	}
	if data.Order == nil {
		return flows.OrderNotFound(ctx, sc, s.log, "select items", errNotLoggedIn)
	}

	items, err := s.eligibility.Filter(data.Order.Items)
	if err != nil {
		return dialog.Directive{}, err
	}
	if len(items) == 0 {
		if err := sc.SendText(ctx, MsgNoEligibleItems); err != nil {
			return dialog.Directive{}, err
		}
		return whatElse(), nil
	}

	var reasons []entity.ReturnReason
	if data.CountryConfiguration != nil {
		reasons = data.CountryConfiguration.PortalSettings.CustomerReturnReasonCodes
	}

	if err := sc.SendText(ctx, MsgSelectItems); err != nil {
		return dialog.Directive{}, err
	}
	if err := sc.SendCards(ctx, card.LayoutCarousel, card.ItemSelection(items, reasons)...); err != nil {
		return dialog.Directive{}, err
	}
	return dialog.Next(nil), nil
}

type AskForConfirmationStep struct{}

func (s *AskForConfirmationStep) Name() dialog.StepName { return StepAskForConfirmation }

func (s *AskForConfirmationStep) Run(context.Context, *dialog.StepContext, dialog.Input) (dialog.Directive, error) {
	return dialog.Prompt(MsgConfirmSelection, dialog.WithValidator(dialog.ValidatorConfirm)), nil
}

// SelectReturnMethodStep looks up the return methods for the user's
// selection and waits for one to be chosen.
type SelectReturnMethodStep struct {
	gateway Gateway
	log     *slog.Logger
}

func (s *SelectReturnMethodStep) Name() dialog.StepName { return StepSelectReturnMethod }

func (s *SelectReturnMethodStep) Run(ctx context.Context, sc *dialog.StepContext, input dialog.Input) (dialog.Directive, error) {
	if done, _ := input.Bool(); !done {
		return dialog.Replace(flows.CreateReturn, nil), nil
	}

	selections, err := flows.Selections.Get(ctx, sc.State())
	if err != nil {
		return dialog.Directive{}, err
	}
	userID := sc.Activity().UserID
	itemIDs := selections.ItemIDs(userID)
	if len(itemIDs) == 0 {
		if err := sc.SendText(ctx, MsgNothingSelected); err != nil {
			return dialog.Directive{}, err
		}
		return dialog.Replace(flows.CreateReturn, nil), nil
	}

	data, err := flows.LogIn.Get(ctx, sc.State())
	if err != nil {
		return dialog.Directive{}, err
	}
	methods, err := s.gateway.SearchReturnMethods(ctx, data.AuthToken, data.TenantCode, data.OrderReference, itemIDs)
	if err != nil {
		s.log.Warn("search return methods failed", sl.Err(err), slog.Int("items", len(itemIDs)))
		if err := sc.SendText(ctx, MsgReturnMethodsError); err != nil {
			return dialog.Directive{}, err
		}
		return dialog.Replace(flows.CreateReturn, nil), nil
	}
	data.AvailableReturnMethods = methods
	data.SelectedReturnMethod = nil

	if err := sc.SendCards(ctx, card.LayoutList, card.ShippingMethods(methods)); err != nil {
		return dialog.Directive{}, err
	}
	return dialog.Wait(), nil
}

// FinishCreateReturnStep creates the return once a return method has been
// submitted.
type FinishCreateReturnStep struct {
	gateway Gateway
	log     *slog.Logger
}

func (s *FinishCreateReturnStep) Name() dialog.StepName { return StepFinishCreateReturn }

func (s *FinishCreateReturnStep) Run(ctx context.Context, sc *dialog.StepContext, input dialog.Input) (dialog.Directive, error) {
	var submitted map[string]any
	if err := input.Decode(&submitted); err != nil {
		// free text instead of a submission
		return whatElse(), nil
	}
	if submitted == nil {
		return whatElse(), nil
	}

	data, err := flows.LogIn.Get(ctx, sc.State())
	if err != nil {
		return dialog.Directive{}, err
	}
	if submitted[card.ActionKey] != card.ActionSelectShippingMethod || data.SelectedReturnMethod == nil {
		if err := sc.SendText(ctx, flows.MsgUnexpectedAction); err != nil {
			return dialog.Directive{}, err
		}
		return whatElse(), nil
	}

	selections, err := flows.Selections.Get(ctx, sc.State())
	if err != nil {
		return dialog.Directive{}, err
	}
	userID := sc.Activity().UserID
	chosen := selections.For(userID)

	req, err := buildReturnOrder(data, chosen)
	if err != nil {
		s.log.Warn("cannot build return order", sl.Err(err))
		if err := sc.SendText(ctx, MsgCreateReturnError); err != nil {
			return dialog.Directive{}, err
		}
		return whatElse(), nil
	}

	number, err := s.gateway.CreateReturnOrder(ctx, data.AuthToken, data.TenantCode, data.OrderReference, req)
	if err != nil {
		s.log.Warn("create return order failed", sl.Err(err), slog.String("order", data.OrderReference))
		if err := sc.SendText(ctx, MsgCreateReturnError); err != nil {
			return dialog.Directive{}, err
		}
		return whatElse(), nil
	}

	s.log.Info("return order created",
		slog.String("order", data.OrderReference),
		slog.String("return_order", number),
		slog.Int("items", len(chosen)),
	)
	if err := sc.SendCards(ctx, card.LayoutList, card.ReturnSummary(data, chosen, number)); err != nil {
		return dialog.Directive{}, err
	}
	delete(*selections, userID)
	return whatElse(), nil
}

func buildReturnOrder(data *entity.LogInData, chosen []entity.OrderItemSelection) (*entity.CreateReturnOrder, error) {
	if data.Order == nil || len(chosen) == 0 {
		return nil, errors.New("nothing to return")
	}
	first, ok := data.Order.Item(chosen[0].ItemID)
	if !ok {
		return nil, errors.New("selected item not in order: " + chosen[0].ItemID)
	}

	method := data.SelectedReturnMethod
	items := make([]entity.ReturnItem, 0, len(chosen))
	for _, sel := range chosen {
		items = append(items, entity.ReturnItem{ID: sel.ItemID, ReasonCode: sel.ReturnReasonCode})
	}

	return &entity.CreateReturnOrder{
		CarrierIdentifier:    method.CarrierServiceRoute.EswCarrierIdentifier,
		ConsumerEmailAddress: data.Order.ShopperDetails.Email,
		CultureLanguageIso:   data.Order.ShopperDetails.Locale,
		ShippingReference:    first.ShippingInformation.ShippingReference,
		IsPaperlessRoute:     method.CarrierServiceRoute.IsPaperlessRoute,
		PaidBy:               method.PaidBy,
		ReturnMethod:         method.ReturnMethod,
		ReturnType:           ReturnType,
		ReturnItems:          items,
	}, nil
}
