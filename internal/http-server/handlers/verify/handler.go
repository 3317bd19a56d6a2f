package verify

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/slog"

	"go-fairplay/internal/config"
	resp "go-fairplay/internal/lib/api/response"
	"go-fairplay/internal/lib/fair"
	"go-fairplay/internal/lib/logger/sl"
)

type Request struct {
	ServerSeed     string      `json:"server_seed" validate:"required"`
	ServerSeedHash string      `json:"server_seed_hash" validate:"omitempty,len=64,hexadecimal"`
	ClientSeed     string      `json:"client_seed" validate:"required"`
	Nonce          int64       `json:"nonce" validate:"min=0"`
	Game           config.Game `json:"game" validate:"required"`
	Params         fair.Params `json:"params"`
	ClaimedResult  float64     `json:"claimed_result"`
	ClaimedNumbers []int       `json:"claimed_numbers"`
}

type Response struct {
	resp.Response
	IsValid         bool          `json:"is_valid"`
	CommitmentValid *bool         `json:"commitment_valid,omitempty"`
	Recomputed      *fair.Outcome `json:"recomputed"`
}

type Handler struct {
	log       *slog.Logger
	validator *validator.Validate
	service   *Service
}

func NewHandler(log *slog.Logger, service *Service) *Handler {
	return &Handler{
		log:       log,
		validator: validator.New(),
		service:   service,
	}
}

func (h *Handler) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.verify.New"

		log := h.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
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

		result, err := h.service.Verify(Input{
			ServerSeed:     req.ServerSeed,
			ClientSeed:     req.ClientSeed,
			Nonce:          req.Nonce,
			Game:           req.Game,
			Params:         req.Params,
			ClaimedResult:  req.ClaimedResult,
			ClaimedNumbers: req.ClaimedNumbers,
		})
		if err != nil {
			log.Error("failed to verify outcome", sl.Err(err))

			if errors.Is(err, fair.ErrInvalidGameParameter) || errors.Is(err, fair.ErrUnknownGame) {
				render.JSON(w, r, resp.Error(err.Error(), http.StatusBadRequest))

				return
			}

			render.JSON(w, r, resp.Error("failed to verify outcome", http.StatusInternalServerError))

			return
		}

		response := Response{
			Response:   resp.OK(),
			IsValid:    result.IsValid,
			Recomputed: result.Recomputed,
		}

		if req.ServerSeedHash != "" {
			commitmentValid := CheckCommitment(req.ServerSeed, req.ServerSeedHash)
			response.CommitmentValid = &commitmentValid
		}

		log.Info("outcome verified",
			slog.String("game", string(req.Game)),
			slog.Int64("nonce", req.Nonce),
			slog.Bool("is_valid", result.IsValid))

		render.JSON(w, r, response)
	}
}
