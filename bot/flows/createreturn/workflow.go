package createreturn

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
	StepAskOrderItemsSelection dialog.StepName = "ask_order_items_selection"
	StepAskForConfirmation     dialog.StepName = "ask_for_confirmation"
	StepSelectReturnMethod     dialog.StepName = "select_return_method"
	StepFinishCreateReturn     dialog.StepName = "finish_create_return"
)

const (
	MsgSelectItems        = "Select the items you want to return."
	MsgNoEligibleItems    = "There are no items in this order available for return."
	MsgConfirmSelection   = "Are you done selecting the items for return?"
	MsgNothingSelected    = "You have not selected any items for return."
	MsgReturnMethodsError = "There was an error while retrieving the available return methods."
	MsgCreateReturnError  = "Something went wrong while creating the return order. Please try again."
)

// ReturnType of a customer initiated return.
const ReturnType = 1

// Gateway defines the backend calls needed to create a return.
type Gateway interface {
	SearchReturnMethods(ctx context.Context, tok *oauth2.Token, tenantCode, orderReference string, itemIDs []string) ([]entity.ReturnMethod, error)
	CreateReturnOrder(ctx context.Context, tok *oauth2.Token, tenantCode, orderReference string, req *entity.CreateReturnOrder) (string, error)
}

// Workflow lets the user pick items and a return method, then creates the
// return order. Item cards are answered by submissions handled outside the
// flow; the flow only waits for the user to confirm.
type Workflow struct {
	steps []dialog.Step
}

func New(gateway Gateway, eligibility *Eligibility, log *slog.Logger) *Workflow {
	log = log.With(slog.String("flow", string(flows.CreateReturn)))
	return &Workflow{
		steps: []dialog.Step{
			&AskOrderItemsSelectionStep{eligibility: eligibility, log: log},
			&AskForConfirmationStep{},
			&SelectReturnMethodStep{gateway: gateway, log: log},
			&FinishCreateReturnStep{gateway: gateway, log: log},
		},
	}
}

func (w *Workflow) ID() dialog.FlowID     { return flows.CreateReturn }
func (w *Workflow) Steps() []dialog.Step { return w.steps }
