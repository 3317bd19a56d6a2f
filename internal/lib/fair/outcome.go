package fair

import (
	"fmt"
	"math"

	"go-fairplay/internal/config"
)

// limboEpsilon floors the divisor so a normalized float of exactly 0 still
// yields a finite multiplier.
const limboEpsilon = 1e-9

const deckSize = 52

// Outcome is the result of one provably-fair draw. Scalar games fill Result;
// multi-number games (mines, keno, blackjack) fill Numbers. ServerSeed is
// echoed for the verification path and must not be exposed to players while
// the pair is still active.
type Outcome struct {
	Game       config.Game `json:"game"`
	Result     float64     `json:"result"`
	Numbers    []int       `json:"numbers,omitempty"`
	Multiplier float64     `json:"multiplier,omitempty"`
	AuditHash  string      `json:"audit_hash"`
	Nonce      int64       `json:"nonce"`
	ServerSeed string      `json:"server_seed"`
	ClientSeed string      `json:"client_seed"`
}

// Play validates params and maps the derived byte stream for
// (serverSeed, clientSeed, nonce) into the outcome of the requested game.
// It is a pure function: same inputs, same outcome, on every call.
func Play(game config.Game, serverSeed, clientSeed string, nonce int64, params Params) (*Outcome, error) {
	const op = "fair.Play"

	if err := params.Validate(game); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	gen := NewByteGenerator(serverSeed, clientSeed, nonce)

	outcome := &Outcome{
		Game:       game,
		AuditHash:  gen.AuditHash(),
		Nonce:      nonce,
		ServerSeed: serverSeed,
		ClientSeed: clientSeed,
	}

	var err error

	switch game {
	case config.Dice:
		err = mapDice(gen, outcome)
	case config.Limbo:
		err = mapLimbo(gen, outcome, params.HouseEdgePercent)
	case config.Crash:
		err = mapCrash(gen, outcome, params.HouseEdgePercent)
	case config.Roulette:
		err = mapRoulette(gen, outcome)
	case config.Plinko:
		err = mapPlinko(gen, outcome, params.RowCount, params.Risk)
	case config.Mines:
		err = mapDraw(gen, outcome, config.MinesGameConfig.GridSize, params.MinesCount)
	case config.Keno:
		err = mapDraw(gen, outcome, config.KenoGameConfig.GridSize, config.KenoGameConfig.DrawCount)
	case config.Blackjack:
		err = mapShuffle(gen, outcome)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return outcome, nil
}

// mapDice rolls in [0, 100) with two-decimal steps. Rounding f*10000 can
// reach 10000 for the largest floats, so the top step clamps to 99.99.
func mapDice(gen *ByteGenerator, outcome *Outcome) error {
	floats, err := Floats(gen, 1)
	if err != nil {
		return err
	}

	roll := math.Round(floats[0]*10000) / 100
	if roll >= 100 {
		roll = 99.99
	}

	outcome.Result = roll

	return nil
}

// mapLimbo computes (1 - edge) / f floored to two decimals, clamped to
// [1.00, MaxMultiplier]. Flooring keeps the rounding step from ever paying
// above the raw ratio.
func mapLimbo(gen *ByteGenerator, outcome *Outcome, houseEdgePercent float64) error {
	floats, err := Floats(gen, 1)
	if err != nil {
		return err
	}

	outcome.Result = limboMultiplier(floats[0], houseEdgePercent)

	return nil
}

func limboMultiplier(f, houseEdgePercent float64) float64 {
	edge := houseEdgePercent / 100

	multiplier := (1 - edge) / math.Max(f, limboEpsilon)
	multiplier = math.Floor(multiplier*100) / 100

	if multiplier < 1 {
		multiplier = 1
	}
	if multiplier > config.LimboGameConfig.MaxMultiplier {
		multiplier = config.LimboGameConfig.MaxMultiplier
	}

	return multiplier
}

// mapCrash is the limbo curve with the lowest floats reserved for an instant
// 1.00x crash on lift-off.
func mapCrash(gen *ByteGenerator, outcome *Outcome, houseEdgePercent float64) error {
	floats, err := Floats(gen, 1)
	if err != nil {
		return err
	}

	if floats[0] < config.CrashGameConfig.InstantCrashCutoff {
		outcome.Result = 1

		return nil
	}

	outcome.Result = limboMultiplier(floats[0], houseEdgePercent)

	return nil
}

func mapRoulette(gen *ByteGenerator, outcome *Outcome) error {
	floats, err := Floats(gen, 1)
	if err != nil {
		return err
	}

	outcome.Result = math.Floor(floats[0] * 37)

	return nil
}

// mapPlinko drops the ball through rowCount pegs, one float per row at a
// fixed 0.5 left probability. The landing bucket is the count of left steps,
// so the distribution is Binomial(rowCount, 0.5) for every risk level; risk
// only selects the payout table.
func mapPlinko(gen *ByteGenerator, outcome *Outcome, rowCount int, risk config.Risk) error {
	floats, err := Floats(gen, rowCount)
	if err != nil {
		return err
	}

	bucket := 0
	for _, f := range floats {
		if f < 0.5 {
			bucket++
		}
	}

	outcome.Result = float64(bucket)
	outcome.Multiplier = config.PlinkoMultipliers[risk][rowCount][bucket]

	return nil
}

// mapDraw selects k distinct cells from an n-cell grid by a partial
// Fisher-Yates over the index array, one float per pick. Every C(n, k)
// subset is equally likely and a cell can never repeat.
func mapDraw(gen *ByteGenerator, outcome *Outcome, n, k int) error {
	cells := make([]int, n)
	for i := range cells {
		cells[i] = i
	}

	floats, err := Floats(gen, k)
	if err != nil {
		return err
	}

	picks := make([]int, 0, k)
	for i, f := range floats {
		j := i + int(f*float64(n-i))
		cells[i], cells[j] = cells[j], cells[i]
		picks = append(picks, cells[i])
	}

	outcome.Numbers = picks

	return nil
}

// mapShuffle produces a uniform permutation of a 52-card deck via
// Fisher-Yates, one float per swap. Cards are indices 0..51 ordered by suit
// then rank.
func mapShuffle(gen *ByteGenerator, outcome *Outcome) error {
	deck := make([]int, deckSize)
	for i := range deck {
		deck[i] = i
	}

	floats, err := Floats(gen, deckSize-1)
	if err != nil {
		return err
	}

	for i := deckSize - 1; i > 0; i-- {
		j := int(floats[deckSize-1-i] * float64(i+1))
		deck[i], deck[j] = deck[j], deck[i]
	}

	outcome.Numbers = deck

	return nil
}
