package conversation

import (
	"log/slog"
	"net/http"

	"ReturnsAgent/internal/ws"

	"github.com/go-chi/chi/v5"
)

// Watch streams the replies of a conversation over a websocket.
func Watch(log *slog.Logger, hub *ws.Hub, auth ws.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWs(hub, auth, log, chi.URLParam(r, "conversationID"), w, r)
	}
}
