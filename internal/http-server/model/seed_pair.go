package model

import "time"

// SeedPair is the per-user provably-fair seed record. Exactly one pair is
// active per user; rotated pairs stay in storage for audit with their
// server seed revealed.
type SeedPair struct {
	ID                 int64      `json:"id"`
	UserID             int64      `json:"user_id"`
	ServerSeed         string     `json:"server_seed"`
	ServerSeedHash     string     `json:"server_seed_hash"`
	ClientSeed         string     `json:"client_seed"`
	Nonce              int64      `json:"nonce"`
	NextServerSeed     string     `json:"next_server_seed"`
	NextServerSeedHash string     `json:"next_server_seed_hash"`
	IsActive           bool       `json:"is_active"`
	RevealedAt         *time.Time `json:"revealed_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
