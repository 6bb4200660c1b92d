package conversation

import (
	"log/slog"
	"net/http"

	"ReturnsAgent/entity"
	"ReturnsAgent/internal/lib/api/response"
	"ReturnsAgent/internal/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// GetTranscript lists the stored messages of a conversation, oldest first.
func GetTranscript(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conversationID := chi.URLParam(r, "conversationID")
		ch := r.URL.Query().Get("channel")
		if ch == "" {
			ch = DefaultChannel
		}

		entries, err := handler.Transcript(r.Context(), ch, conversationID)
		if err != nil {
			log.Error("get transcript", sl.Err(err), slog.String("conversation", conversationID))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Transcript not available"))
			return
		}
		if entries == nil {
			entries = []entity.TranscriptEntry{}
		}

		render.JSON(w, r, response.Ok(entries))
	}
}
