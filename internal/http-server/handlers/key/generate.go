package key

import (
	"context"
	"log/slog"
	"net/http"

	"ReturnsAgent/entity"
	"ReturnsAgent/internal/lib/api/cont"
	"ReturnsAgent/internal/lib/api/response"
	"ReturnsAgent/internal/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Core interface {
	GenerateApiKey(ctx context.Context, username string) (string, error)
}

// Generate issues an API key for a new client.
func Generate(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.key"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		if user := cont.GetUser(r.Context()); user != nil {
			logger = logger.With(slog.String("issuer", user.Username))
		}

		var req entity.KeyRequest
		if err := render.Bind(r, &req); err != nil {
			logger.Warn("invalid key request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		key, err := handler.GenerateApiKey(r.Context(), req.Username)
		if err != nil {
			logger.Error("generate api key", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Key generation failed"))
			return
		}
		logger.Info("api key issued", slog.String("username", req.Username))

		render.JSON(w, r, response.Ok(entity.UserAuth{Username: req.Username, Token: key}))
	}
}
