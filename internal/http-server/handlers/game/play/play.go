package play

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/slog"

	"go-fairplay/internal/config"
	"go-fairplay/internal/http-server/handlers/seed"
	resp "go-fairplay/internal/lib/api/response"
	"go-fairplay/internal/lib/fair"
	"go-fairplay/internal/lib/logger/sl"
	"go-fairplay/internal/repository"
)

type Request struct {
	UserUUID string      `json:"user_uuid" validate:"required,uuid"`
	Game     config.Game `json:"game" validate:"required"`
	Params   fair.Params `json:"params"`
}

// Response carries the outcome plus the active commitment. The server seed
// itself stays secret until the pair is rotated; only its hash is echoed.
type Response struct {
	resp.Response
	Game           config.Game `json:"game"`
	Result         float64     `json:"result"`
	Numbers        []int       `json:"numbers,omitempty"`
	Multiplier     float64     `json:"multiplier,omitempty"`
	AuditHash      string      `json:"audit_hash"`
	Nonce          int64       `json:"nonce"`
	ServerSeedHash string      `json:"server_seed_hash"`
	ClientSeed     string      `json:"client_seed"`
}

type Play struct {
	log       *slog.Logger
	validator *validator.Validate
	manager   *seed.Manager
	userRep   repository.UserRepository
}

func NewPlay(
	log *slog.Logger,
	manager *seed.Manager,
	userRep repository.UserRepository) *Play {
	return &Play{
		log:       log,
		validator: validator.New(),
		manager:   manager,
		userRep:   userRep,
	}
}

func (p *Play) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.game.play.New"

		log := p.log.With(
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

		if err = p.validator.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("invalid request", sl.Err(err))

			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		// reject bad parameters before a nonce is consumed
		if err = req.Params.Validate(req.Game); err != nil {
			log.Error("invalid game parameters", sl.Err(err))

			render.JSON(w, r, resp.Error(err.Error(), http.StatusBadRequest))

			return
		}

		user, err := p.userRep.FindUserByUUID(req.UserUUID)
		if err != nil {
			log.Error("failed to find user", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to find user", http.StatusInternalServerError))

			return
		}
		if user == nil {
			render.JSON(w, r, resp.Error("user not found", http.StatusNotFound))

			return
		}

		pair, err := p.manager.CreateIfAbsent(user.ID)
		if err != nil {
			log.Error("failed to resolve seed pair", sl.Err(err))

			if errors.Is(err, seed.ErrSeedPairCreationFailed) {
				render.JSON(w, r, resp.Error("please try again later", http.StatusInternalServerError))

				return
			}

			render.JSON(w, r, resp.Error("failed to resolve seed pair", http.StatusInternalServerError))

			return
		}

		nonce, err := p.manager.NextNonce(user.ID)
		if err != nil {
			log.Error("failed to allocate nonce", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to allocate nonce", http.StatusInternalServerError))

			return
		}

		outcome, err := fair.Play(req.Game, pair.ServerSeed, pair.ClientSeed, nonce, req.Params)
		if err != nil {
			log.Error("failed to compute outcome", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to compute outcome", http.StatusInternalServerError))

			return
		}

		log.Info("outcome computed",
			slog.String("game", string(req.Game)),
			slog.Int64("nonce", nonce),
			slog.Float64("result", outcome.Result))

		render.JSON(w, r, Response{
			Response:       resp.OK(),
			Game:           outcome.Game,
			Result:         outcome.Result,
			Numbers:        outcome.Numbers,
			Multiplier:     outcome.Multiplier,
			AuditHash:      outcome.AuditHash,
			Nonce:          outcome.Nonce,
			ServerSeedHash: pair.ServerSeedHash,
			ClientSeed:     outcome.ClientSeed,
		})
	}
}
