package seed

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"go-fairplay/internal/http-server/model"
	"go-fairplay/internal/lib/fair"
	"go-fairplay/internal/lib/logger/sl"
	"go-fairplay/internal/lib/random"
	"go-fairplay/internal/repository"
)

const seedLength = 64

// ErrSeedPairCreationFailed means the single permitted conflict-and-reread
// retry was exhausted without finding a pair. Creation races themselves are
// absorbed and never reach callers.
var ErrSeedPairCreationFailed = errors.New("seed pair creation failed")

// SeedPairStore is the storage capability the manager needs. The concrete
// MySQL implementation lives in internal/repository; tests substitute an
// in-memory one.
type SeedPairStore interface {
	FindActive(userID int64) (*model.SeedPair, error)
	InsertIfAbsent(pair *model.SeedPair) (repository.InsertResult, error)
	IncrementNonce(userID int64) (int64, error)
	Rotate(userID int64, revealedAt time.Time, promoted *model.SeedPair) error
}

// Manager owns the seed-pair lifecycle: lazy creation on first use, nonce
// allocation, and rotation with pre-committed successors.
type Manager struct {
	store SeedPairStore
	log   *slog.Logger
}

func NewManager(store SeedPairStore, log *slog.Logger) *Manager {
	return &Manager{store: store, log: log}
}

func (m *Manager) GetActive(userID int64) (*model.SeedPair, error) {
	const op = "seed.Manager.GetActive"

	pair, err := m.store.FindActive(userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, nil
}

// CreateIfAbsent returns the user's active pair, creating it on first use.
// When a concurrent request wins the insert race, the loser re-reads the
// winner's row and proceeds; the retry happens at most once.
func (m *Manager) CreateIfAbsent(userID int64) (*model.SeedPair, error) {
	return m.createIfAbsent(userID, false)
}

func (m *Manager) createIfAbsent(userID int64, retried bool) (*model.SeedPair, error) {
	const op = "seed.Manager.createIfAbsent"

	pair, err := m.store.FindActive(userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if pair != nil {
		return pair, nil
	}

	fresh, err := newSeedPair(userID, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res, err := m.store.InsertIfAbsent(fresh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if res == repository.InsertConflict {
		if retried {
			return nil, fmt.Errorf("%s: user %d: %w", op, userID, ErrSeedPairCreationFailed)
		}

		m.log.Info("seed pair insert lost the race, rereading",
			slog.Int64("user_id", userID))

		return m.createIfAbsent(userID, true)
	}

	m.log.Info("seed pair created",
		slog.Int64("user_id", userID),
		slog.String("server_seed_hash", fresh.ServerSeedHash))

	return fresh, nil
}

// NextNonce atomically allocates the next nonce for the user's active pair.
func (m *Manager) NextNonce(userID int64) (int64, error) {
	const op = "seed.Manager.NextNonce"

	nonce, err := m.store.IncrementNonce(userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return nonce, nil
}

// Rotate reveals the current pair and promotes its pre-committed successor
// to active with a fresh successor of its own and nonce 0. An empty
// clientSeed keeps the current one.
func (m *Manager) Rotate(userID int64, clientSeed string) (revealed, promoted *model.SeedPair, err error) {
	const op = "seed.Manager.Rotate"

	current, err := m.CreateIfAbsent(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if clientSeed == "" {
		clientSeed = current.ClientSeed
	}

	successor, err := random.NewRandomString(seedLength)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	promoted = &model.SeedPair{
		UserID:             userID,
		ServerSeed:         current.NextServerSeed,
		ServerSeedHash:     current.NextServerSeedHash,
		ClientSeed:         clientSeed,
		Nonce:              0,
		NextServerSeed:     successor,
		NextServerSeedHash: fair.CommitmentHash(successor),
		IsActive:           true,
	}

	now := time.Now()

	if err = m.store.Rotate(userID, now, promoted); err != nil {
		m.log.Error("failed to rotate seed pair", sl.Err(err))

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	revealed = current
	revealed.IsActive = false
	revealed.RevealedAt = &now

	m.log.Info("seed pair rotated",
		slog.Int64("user_id", userID),
		slog.String("revealed_hash", revealed.ServerSeedHash),
		slog.String("active_hash", promoted.ServerSeedHash))

	return revealed, promoted, nil
}

func newSeedPair(userID int64, clientSeed string) (*model.SeedPair, error) {
	serverSeed, err := random.NewRandomString(seedLength)
	if err != nil {
		return nil, err
	}

	nextServerSeed, err := random.NewRandomString(seedLength)
	if err != nil {
		return nil, err
	}

	if clientSeed == "" {
		clientSeed = uuid.New().String()
	}

	return &model.SeedPair{
		UserID:             userID,
		ServerSeed:         serverSeed,
		ServerSeedHash:     fair.CommitmentHash(serverSeed),
		ClientSeed:         clientSeed,
		Nonce:              0,
		NextServerSeed:     nextServerSeed,
		NextServerSeedHash: fair.CommitmentHash(nextServerSeed),
		IsActive:           true,
	}, nil
}
