package config

type Game string

const (
	Dice      Game = "dice"
	Limbo     Game = "limbo"
	Crash     Game = "crash"
	Roulette  Game = "roulette"
	Plinko    Game = "plinko"
	Mines     Game = "mines"
	Keno      Game = "keno"
	Blackjack Game = "blackjack"
)

func (g Game) Valid() bool {
	switch g {
	case Dice, Limbo, Crash, Roulette, Plinko, Mines, Keno, Blackjack:
		return true
	}

	return false
}

type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)
