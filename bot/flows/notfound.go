package flows

import (
	"context"
	"log/slog"

	"ReturnsAgent/bot/dialog"
	"ReturnsAgent/internal/lib/sl"
)

// OrderNotFound apologises for a failed backend lookup and ends the flow
// without a result.
func OrderNotFound(ctx context.Context, sc *dialog.StepContext, log *slog.Logger, operation string, err error) (dialog.Directive, error) {
	log.With(
		slog.String("flow", string(sc.Flow())),
		slog.String("operation", operation),
		slog.String("user", sc.Activity().UserID),
	).Warn("backend lookup failed", sl.Err(err))
	if err := sc.SendText(ctx, MsgOrderNotFound); err != nil {
		return dialog.Directive{}, err
	}
	return dialog.End(nil), nil
}
