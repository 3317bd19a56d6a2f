package config

type DiceConfig struct {
	MinHouseEdgePercent float64
	MaxHouseEdgePercent float64
}

type LimboConfig struct {
	MinHouseEdgePercent float64
	MaxHouseEdgePercent float64
	MaxMultiplier       float64
}

type CrashConfig struct {
	// Normalized floats below the cutoff map to an instant 1.00x crash.
	InstantCrashCutoff float64
}

type PlinkoConfig struct {
	MinRows int
	MaxRows int
}

type MinesConfig struct {
	GridSize int
	MinMines int
	MaxMines int
}

type KenoConfig struct {
	GridSize  int
	MaxPicks  int
	DrawCount int
}

var DiceGameConfig = DiceConfig{
	MinHouseEdgePercent: 0,
	MaxHouseEdgePercent: 10,
}

var LimboGameConfig = LimboConfig{
	MinHouseEdgePercent: 0,
	MaxHouseEdgePercent: 10,
	MaxMultiplier:       1000000,
}

var CrashGameConfig = CrashConfig{
	InstantCrashCutoff: 0.01,
}

var PlinkoGameConfig = PlinkoConfig{
	MinRows: 8,
	MaxRows: 16,
}

var MinesGameConfig = MinesConfig{
	GridSize: 25,
	MinMines: 1,
	MaxMines: 24,
}

var KenoGameConfig = KenoConfig{
	GridSize:  40,
	MaxPicks:  10,
	DrawCount: 10,
}
