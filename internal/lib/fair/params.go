package fair

import (
	"fmt"

	"go-fairplay/internal/config"
)

// Params carries the caller-supplied knobs per game. Fields irrelevant to the
// requested game are ignored.
type Params struct {
	HouseEdgePercent float64     `json:"house_edge_percent"`
	RowCount         int         `json:"row_count"`
	Risk             config.Risk `json:"risk"`
	MinesCount       int         `json:"mines_count"`
	PicksCount       int         `json:"picks_count"`
}

// Validate rejects out-of-range parameters before any bytes are derived, so
// a bad request can never move funds or consume a nonce's randomness.
func (p Params) Validate(game config.Game) error {
	const op = "fair.Params.Validate"

	switch game {
	case config.Dice:
		cfg := config.DiceGameConfig
		if p.HouseEdgePercent < cfg.MinHouseEdgePercent || p.HouseEdgePercent > cfg.MaxHouseEdgePercent {
			return fmt.Errorf("%s: house edge %.2f: %w", op, p.HouseEdgePercent, ErrInvalidGameParameter)
		}
	case config.Limbo, config.Crash:
		cfg := config.LimboGameConfig
		if p.HouseEdgePercent < cfg.MinHouseEdgePercent || p.HouseEdgePercent > cfg.MaxHouseEdgePercent {
			return fmt.Errorf("%s: house edge %.2f: %w", op, p.HouseEdgePercent, ErrInvalidGameParameter)
		}
	case config.Roulette, config.Blackjack:
		// no parameters
	case config.Plinko:
		cfg := config.PlinkoGameConfig
		if p.RowCount < cfg.MinRows || p.RowCount > cfg.MaxRows {
			return fmt.Errorf("%s: row count %d: %w", op, p.RowCount, ErrInvalidGameParameter)
		}
		if _, ok := config.PlinkoMultipliers[p.Risk]; !ok {
			return fmt.Errorf("%s: risk %q: %w", op, p.Risk, ErrInvalidGameParameter)
		}
	case config.Mines:
		cfg := config.MinesGameConfig
		if p.MinesCount < cfg.MinMines || p.MinesCount > cfg.MaxMines {
			return fmt.Errorf("%s: mines count %d: %w", op, p.MinesCount, ErrInvalidGameParameter)
		}
	case config.Keno:
		cfg := config.KenoGameConfig
		if p.PicksCount < 1 || p.PicksCount > cfg.MaxPicks {
			return fmt.Errorf("%s: picks count %d: %w", op, p.PicksCount, ErrInvalidGameParameter)
		}
	default:
		return fmt.Errorf("%s: %q: %w", op, game, ErrUnknownGame)
	}

	return nil
}
