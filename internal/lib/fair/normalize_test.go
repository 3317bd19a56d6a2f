package fair

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		bytes [4]byte
		want  float64
	}{
		{
			name:  "AllZero",
			bytes: [4]byte{0x00, 0x00, 0x00, 0x00},
			want:  0,
		},
		{
			name:  "HalfExactly",
			bytes: [4]byte{0x80, 0x00, 0x00, 0x00},
			want:  0.5,
		},
		{
			name:  "AllMax",
			bytes: [4]byte{0xFF, 0xFF, 0xFF, 0xFF},
			want:  255.0/256 + 255.0/65536 + 255.0/16777216 + 255.0/4294967296,
		},
		{
			name:  "LowBytesOnly",
			bytes: [4]byte{0x00, 0x00, 0x00, 0x01},
			want:  1.0 / 4294967296,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Normalize(tc.bytes[0], tc.bytes[1], tc.bytes[2], tc.bytes[3])
			require.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeMaxInputStrictlyBelowOne(t *testing.T) {
	got := Normalize(0xFF, 0xFF, 0xFF, 0xFF)

	require.Less(t, got, 1.0)

	// the geometric sum collapses to exactly 1 - 2^-32
	require.Equal(t, 1-1.0/4294967296, got)
}

func TestNormalizeRange(t *testing.T) {
	// normalization is monotone per byte, so sweeping each byte with the
	// others at both extremes covers the boundary surface
	for b := 0; b <= 255; b++ {
		lo := Normalize(byte(b), 0, 0, 0)
		hi := Normalize(byte(b), 0xFF, 0xFF, 0xFF)

		require.GreaterOrEqual(t, lo, 0.0)
		require.Less(t, hi, 1.0)
	}
}

func TestNormalizeSpacingInFirstByte(t *testing.T) {
	for b := 0; b < 255; b++ {
		step := Normalize(byte(b+1), 0x12, 0x34, 0x56) - Normalize(byte(b), 0x12, 0x34, 0x56)

		require.InDelta(t, 1.0/256, step, 1e-12)
	}
}

func TestNormalizeAtInsufficientBytes(t *testing.T) {
	block := make([]byte, 10)

	_, err := NormalizeAt(block, 8)
	require.ErrorIs(t, err, ErrInsufficientBytes)

	_, err = NormalizeAt(block, -1)
	require.ErrorIs(t, err, ErrInsufficientBytes)

	f, err := NormalizeAt(block, 6)
	require.NoError(t, err)
	require.Equal(t, 0.0, f)
}

func TestFloatsConsumeDistinctWindows(t *testing.T) {
	gen := NewByteGenerator("server-seed", "client-seed", 7)

	// 20 floats span two derived blocks (16 windows per block)
	floats, err := Floats(gen, 20)
	require.NoError(t, err)
	require.Len(t, floats, 20)

	seen := make(map[float64]struct{}, len(floats))
	for _, f := range floats {
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)

		seen[f] = struct{}{}
	}

	// 20 independent 32-bit draws colliding would mean a broken stream
	require.Len(t, seen, 20)
}

func TestCommitmentHash(t *testing.T) {
	// well-known SHA-256 vector
	require.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		CommitmentHash(""))

	require.Equal(t, CommitmentHash("seed"), CommitmentHash("seed"))
	require.NotEqual(t, CommitmentHash("seed"), CommitmentHash("seed2"))
	require.Len(t, CommitmentHash("seed"), 64)
}

func TestNormalizeNeverNaN(t *testing.T) {
	gen := NewByteGenerator("s", "c", 0)

	floats, err := Floats(gen, 256)
	require.NoError(t, err)

	for _, f := range floats {
		require.False(t, math.IsNaN(f))
		require.False(t, math.IsInf(f, 0))
	}
}
