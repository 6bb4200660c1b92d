package conversation

import (
	"log/slog"
	"net/http"

	"ReturnsAgent/bot/channel"
	"ReturnsAgent/entity"
	"ReturnsAgent/internal/lib/api/response"
	"ReturnsAgent/internal/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

type activityResponse struct {
	ActivityID string          `json:"activity_id"`
	Replies    []channel.Reply `json:"replies"`
}

// PostActivity runs one turn of the conversation named in the path and
// returns the bot replies it produced.
func PostActivity(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.conversation")
		conversationID := chi.URLParam(r, "conversationID")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("conversation", conversationID),
		)

		if handler == nil {
			logger.Error("conversation handler not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Conversation handler not available"))
			return
		}

		activity := entity.Activity{
			Channel:        DefaultChannel,
			ConversationID: conversationID,
		}
		if err := render.Bind(r, &activity); err != nil {
			logger.Warn("invalid activity", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		// the path wins over a conversation id in the body
		activity.ConversationID = conversationID
		if activity.ID == "" {
			activity.ID = uuid.NewString()
		}

		logger = logger.With(
			slog.String("activity", activity.ID),
			slog.String("channel", activity.Channel),
			slog.String("user", activity.UserID),
		)

		replies, err := handler.HandleActivity(r.Context(), &activity)
		if err != nil {
			logger.Error("handle activity", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Turn failed"))
			return
		}
		logger.Debug("activity handled", slog.Int("replies", len(replies)))

		if replies == nil {
			replies = []channel.Reply{}
		}
		render.JSON(w, r, response.Ok(activityResponse{ActivityID: activity.ID, Replies: replies}))
	}
}
