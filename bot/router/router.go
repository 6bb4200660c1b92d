package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ReturnsAgent/bot/dialog"
	"ReturnsAgent/bot/flows"
	"ReturnsAgent/entity"
	"ReturnsAgent/internal/lib/sl"
	"ReturnsAgent/internal/state"
)

// turn kinds reported to metrics
const (
	KindText           = "text"
	KindSelection      = "selection"
	KindShippingMethod = "shipping_method"
	KindUnknownAction  = "unknown_action"
	KindBadSubmission  = "bad_submission"
)

type TurnObserver interface {
	ObserveTurn(channel, kind string, err error, elapsed time.Duration)
}

// Router runs one activity per conversation at a time: it applies card
// submissions to state, drives the dialog engine and commits the turn.
type Router struct {
	store   *state.Store
	locker  *state.Locker
	engine  *dialog.Engine
	metrics TurnObserver
	log     *slog.Logger
}

func New(store *state.Store, locker *state.Locker, engine *dialog.Engine, metrics TurnObserver, log *slog.Logger) *Router {
	return &Router{
		store:   store,
		locker:  locker,
		engine:  engine,
		metrics: metrics,
		log:     log.With(sl.Module("bot.router")),
	}
}

func lockKey(channel, conversationID string) string {
	return channel + "/" + conversationID
}

// Handle processes the activity. Replies go to resp as they are produced;
// state is committed only when the whole turn succeeds.
func (r *Router) Handle(ctx context.Context, activity *entity.Activity, resp dialog.Responder) (err error) {
	start := time.Now()
	kind := KindText
	status := dialog.StatusWaiting

	logger := r.log.With(
		slog.String("channel", activity.Channel),
		slog.String("conversation", activity.ConversationID),
		slog.String("user", activity.UserID),
	)
	defer func() {
		if r.metrics != nil {
			r.metrics.ObserveTurn(activity.Channel, kind, err, time.Since(start))
		}
		logger = logger.With(
			slog.String("kind", kind),
			slog.Float64("duration", time.Since(start).Seconds()),
		)
		if err != nil {
			logger.Error("turn failed", sl.Err(err))
			return
		}
		logger.Debug("turn handled", slog.String("status", status.String()))
	}()

	key := lockKey(activity.Channel, activity.ConversationID)
	r.locker.Lock(key)
	defer r.locker.Unlock(key)

	turn := r.store.Begin(activity.Channel, activity.ConversationID, activity.UserID)

	if len(activity.Value) > 0 {
		sub, decodeErr := DecodeSubmission(activity.Value)
		if decodeErr != nil {
			kind = KindBadSubmission
			if errors.Is(decodeErr, ErrUnknownAction) {
				kind = KindUnknownAction
			}
			logger.Warn("unexpected card action", sl.Err(decodeErr))
			if err := resp.SendText(ctx, flows.MsgUnexpectedAction); err != nil {
				return err
			}
			plain := *activity
			plain.Value = nil
			activity = &plain
		}

		switch s := sub.(type) {
		case SubmitSelection:
			kind = KindSelection
			if err := r.applySelection(ctx, turn, activity.UserID, s); err != nil {
				return err
			}
			return turn.Flush(ctx)
		case SelectShippingMethod:
			kind = KindShippingMethod
			if err := r.applyShippingMethod(ctx, turn, s); err != nil {
				return err
			}
		}
	}

	stack, err := dialog.StackProperty.Get(ctx, turn)
	if err != nil {
		return err
	}
	status, err = r.engine.Run(ctx, &dialog.TurnContext{Activity: activity, Responder: resp, State: turn}, stack)
	if err != nil {
		return err
	}
	return turn.Flush(ctx)
}

func (r *Router) applySelection(ctx context.Context, turn *state.Turn, userID string, s SubmitSelection) error {
	selections, err := flows.Selections.Get(ctx, turn)
	if err != nil {
		return err
	}
	switch s.Change {
	case ChangeAdd:
		selections.Add(userID, s.ItemID, s.ReturnReason)
	case ChangeRemove:
		selections.Remove(userID, s.ItemID)
	default:
		r.log.Debug("selection without toggle", slog.String("item", s.ItemID))
	}
	return nil
}

// applyShippingMethod records the chosen method. An id that was not offered
// leaves the choice empty and the flow treats the submission as unexpected.
func (r *Router) applyShippingMethod(ctx context.Context, turn *state.Turn, s SelectShippingMethod) error {
	data, err := flows.LogIn.Get(ctx, turn)
	if err != nil {
		return err
	}
	data.SelectedReturnMethod = nil
	if m, ok := entity.FindReturnMethod(data.AvailableReturnMethods, s.SelectedMethod); ok {
		data.SelectedReturnMethod = m
	} else {
		r.log.Warn("return method not offered", slog.String("method", s.SelectedMethod))
	}
	return nil
}

// Reset forgets the conversation's dialog and item selections. Login data is
// user scoped and survives.
func (r *Router) Reset(ctx context.Context, channel, conversationID string) error {
	key := lockKey(channel, conversationID)
	r.locker.Lock(key)
	defer r.locker.Unlock(key)

	if err := r.store.Clear(ctx, channel, conversationID, dialog.StackProperty.Name(), flows.Selections.Name()); err != nil {
		return fmt.Errorf("reset %s: %w", conversationID, err)
	}
	r.log.Info("conversation reset",
		slog.String("channel", channel),
		slog.String("conversation", conversationID),
	)
	return nil
}
