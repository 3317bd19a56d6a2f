package fair

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Normalize maps a 4-byte window onto [0, 1). The sum is bounded by
// 255/256 + 255/65536 + 255/16777216 + 255/4294967296 = 1 - 2^-32, so the
// result is strictly below 1 for every possible input, which keeps the
// division-based multiplier formulas finite.
func Normalize(b0, b1, b2, b3 byte) float64 {
	return float64(b0)/256 +
		float64(b1)/65536 +
		float64(b2)/16777216 +
		float64(b3)/4294967296
}

// NormalizeAt normalizes the 4-byte window starting at offset within block.
func NormalizeAt(block []byte, offset int) (float64, error) {
	const op = "fair.NormalizeAt"

	window, err := windowAt(block, offset)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return Normalize(window[0], window[1], window[2], window[3]), nil
}

// Floats draws count floats in [0, 1) from the generator, each consuming its
// own 4-byte window. Windows never overlap, so the floats are independent.
func Floats(g *ByteGenerator, count int) ([]float64, error) {
	const op = "fair.Floats"

	floats := make([]float64, count)
	for i := range floats {
		window, err := g.NextWindow()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		floats[i] = Normalize(window[0], window[1], window[2], window[3])
	}

	return floats, nil
}

// HexDigest lowercase-hex encodes a digest.
func HexDigest(digest []byte) string {
	return hex.EncodeToString(digest)
}

// CommitmentHash computes the public lowercase-hex SHA-256 commitment for a
// server seed.
func CommitmentHash(serverSeed string) string {
	sum := sha256.Sum256([]byte(serverSeed))

	return hex.EncodeToString(sum[:])
}
