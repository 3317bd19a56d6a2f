package seed

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/patrickmn/go-cache"
	"golang.org/x/exp/slog"

	resp "go-fairplay/internal/lib/api/response"
	"go-fairplay/internal/lib/logger/sl"
	"go-fairplay/internal/repository"
)

// Commitment serves the public pre-bet view of a user's active pair: the
// server seed hash, the pre-committed next hash and the client seed. The
// server seed itself never appears here. Commitments only change on
// rotation, so responses are cached until the rotate handler busts the key.
type Commitment struct {
	log     *slog.Logger
	manager *Manager
	userRep repository.UserRepository
	cache   *cache.Cache
}

func NewCommitment(
	log *slog.Logger,
	manager *Manager,
	userRep repository.UserRepository) *Commitment {
	return &Commitment{
		log:     log,
		manager: manager,
		userRep: userRep,
		cache:   cache.New(5*time.Minute, 10*time.Minute),
	}
}

type CommitmentResponse struct {
	resp.Response
	ServerSeedHash     string `json:"server_seed_hash"`
	NextServerSeedHash string `json:"next_server_seed_hash"`
	ClientSeed         string `json:"client_seed"`
}

func (c *Commitment) New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.seed.Commitment.New"

		log := c.log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		uuidStr := chi.URLParam(r, "user_uuid")

		if cached, found := c.cache.Get(uuidStr); found {
			render.JSON(w, r, cached.(CommitmentResponse))

			return
		}

		user, err := c.userRep.FindUserByUUID(uuidStr)
		if err != nil {
			log.Error("failed to find user", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to find user", http.StatusInternalServerError))

			return
		}
		if user == nil {
			render.JSON(w, r, resp.Error("user not found", http.StatusNotFound))

			return
		}

		pair, err := c.manager.CreateIfAbsent(user.ID)
		if err != nil {
			log.Error("failed to resolve seed pair", sl.Err(err))

			render.JSON(w, r, resp.Error("failed to resolve seed pair", http.StatusInternalServerError))

			return
		}

		response := CommitmentResponse{
			Response:           resp.OK(),
			ServerSeedHash:     pair.ServerSeedHash,
			NextServerSeedHash: pair.NextServerSeedHash,
			ClientSeed:         pair.ClientSeed,
		}

		c.cache.Set(uuidStr, response, cache.DefaultExpiration)

		render.JSON(w, r, response)
	}
}

// Invalidate drops the cached commitment after a rotation.
func (c *Commitment) Invalidate(userUUID string) {
	c.cache.Delete(userUUID)
}
