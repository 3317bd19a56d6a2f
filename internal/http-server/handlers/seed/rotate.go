package seed

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/slog"

	resp "go-fairplay/internal/lib/api/response"
	"go-fairplay/internal/lib/logger/sl"
	"go-fairplay/internal/repository"
)

type Rotate struct {
	log        *slog.Logger
	validator  *validator.Validate
	manager    *Manager
	userRep    repository.UserRepository
	commitment *Commitment
}

func NewRotate(
	log *slog.Logger,
	manager *Manager,
	userRep repository.UserRepository,
	commitment *Commitment) *Rotate {
	return &Rotate{
		log:        log,
		validator:  validator.New(),
		manager:    manager,
		userRep:    userRep,
		commitment: commitment,
	}
}

type RotateRequest struct {
	ClientSeed string `json:"client_seed" validate:"omitempty,min=1,max=64"`
}

type RotateResponse struct {
	resp.Response
	RevealedServerSeed     string    `json:"revealed_server_seed"`
	RevealedServerSeedHash string    `json:"revealed_server_seed_hash"`
	RevealedAt             time.Time `json:"revealed_at"`
	ServerSeedHash         string    `json:"server_seed_hash"`
	NextServerSeedHash     string    `json:"next_server_seed_hash"`
	ClientSeed             string    `json:"client_seed"`
}

func (h *Rotate) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.seed.Rotate.New"

		log := h.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req RotateRequest

		// body is optional: rotating without one keeps the current client seed
		err := render.DecodeJSON(r.Body, &req)
		if err != nil && !errors.Is(err, io.EOF) {
			log.Error("failed to decode request body", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to decode request body", http.StatusBadRequest))

			return
		}

		if err = h.validator.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("invalid request", sl.Err(err))

			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		uuidStr := chi.URLParam(r, "user_uuid")

		user, err := h.userRep.FindUserByUUID(uuidStr)
		if err != nil {
			log.Error("failed to find user", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to find user", http.StatusInternalServerError))

			return
		}
		if user == nil {
			render.JSON(w, r, resp.Error("user not found", http.StatusNotFound))

			return
		}

		revealed, promoted, err := h.manager.Rotate(user.ID, req.ClientSeed)
		if err != nil {
			log.Error("failed to rotate seed pair", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to rotate seed pair", http.StatusInternalServerError))

			return
		}

		h.commitment.Invalidate(uuidStr)

		log.Info("seed pair rotated",
			slog.Int64("user_id", user.ID),
			slog.String("revealed_hash", revealed.ServerSeedHash))

		render.JSON(w, r, RotateResponse{
			Response:               resp.OK(),
			RevealedServerSeed:     revealed.ServerSeed,
			RevealedServerSeedHash: revealed.ServerSeedHash,
			RevealedAt:             *revealed.RevealedAt,
			ServerSeedHash:         promoted.ServerSeedHash,
			NextServerSeedHash:     promoted.NextServerSeedHash,
			ClientSeed:             promoted.ClientSeed,
		})
	}
}
