package conversation

import (
	"log/slog"
	"net/http"

	"ReturnsAgent/internal/lib/api/response"
	"ReturnsAgent/internal/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// Start begins a conversation from scratch and returns the welcome replies.
// The channel defaults to the webchat one and may be given as ?channel=.
func Start(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID := chi.URLParam(r, "conversationID")
		ch := r.URL.Query().Get("channel")
		if ch == "" {
			ch = DefaultChannel
		}

		replies, err := handler.StartConversation(r.Context(), ch, conversationID)
		if err != nil {
			log.Error("start conversation", sl.Err(err), slog.String("conversation", conversationID))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Start failed"))
			return
		}

		render.JSON(w, r, response.Ok(activityResponse{Replies: replies}))
	}
}
