package verify

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/exp/slog"

	"go-fairplay/internal/config"
	"go-fairplay/internal/lib/fair"
)

// Input is everything an auditor supplies to re-run an outcome: the revealed
// seeds, the nonce, the game and its parameters, and the value they were
// shown at play time.
type Input struct {
	ServerSeed     string
	ClientSeed     string
	Nonce          int64
	Game           config.Game
	Params         fair.Params
	ClaimedResult  float64
	ClaimedNumbers []int
}

// Result reports whether the claimed outcome matches the recomputation.
// A mismatch is a result, not an error: only invalid parameters fail.
type Result struct {
	IsValid    bool
	Recomputed *fair.Outcome
}

type Service struct {
	log *slog.Logger
}

func NewService(log *slog.Logger) *Service {
	return &Service{log: log}
}

// Verify re-runs the full derivation pipeline and compares exactly: the
// formulas are deterministic, so no tolerance is allowed.
func (s *Service) Verify(in Input) (*Result, error) {
	const op = "verify.Service.Verify"

	outcome, err := fair.Play(in.Game, in.ServerSeed, in.ClientSeed, in.Nonce, in.Params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	valid := outcome.Result == in.ClaimedResult && equalNumbers(outcome.Numbers, in.ClaimedNumbers)

	if !valid {
		s.log.Info("verification mismatch",
			slog.String("game", string(in.Game)),
			slog.Int64("nonce", in.Nonce),
			slog.Float64("claimed_result", in.ClaimedResult),
			slog.Float64("recomputed_result", outcome.Result))
	}

	return &Result{IsValid: valid, Recomputed: outcome}, nil
}

// CheckCommitment confirms the revealed server seed hashes to the commitment
// published before play. This is the proof the seed was not swapped after
// bets were placed.
func CheckCommitment(serverSeed, serverSeedHash string) bool {
	computed := fair.CommitmentHash(serverSeed)

	return subtle.ConstantTimeCompare([]byte(computed), []byte(serverSeedHash)) == 1
}

func equalNumbers(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
