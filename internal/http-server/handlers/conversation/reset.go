package conversation

import (
	"log/slog"
	"net/http"

	"ReturnsAgent/internal/lib/api/response"
	"ReturnsAgent/internal/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// Reset drops the dialog of a conversation. The channel defaults to the
// webchat one and may be given as ?channel=.
func Reset(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if handler == nil {
			log.Error("reset conversation not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Reset conversation not available"))
			return
		}

		conversationID := chi.URLParam(r, "conversationID")
		ch := r.URL.Query().Get("channel")
		if ch == "" {
			ch = DefaultChannel
		}

		if err := handler.ResetConversation(r.Context(), ch, conversationID); err != nil {
			log.Error("reset conversation", sl.Err(err), slog.String("conversation", conversationID))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Reset failed"))
			return
		}

		render.JSON(w, r, response.Ok("Conversation reset successfully"))
	}
}
