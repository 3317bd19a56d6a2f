package fair

import (
	"crypto/hmac"
	"crypto/sha512"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveBlock(t *testing.T) {
	block := DeriveBlock("s", "c", 1, 0)

	require.Len(t, block, BlockSize)

	// the message contract is "<clientSeed>:<nonce>:<cursor>"
	h := hmac.New(sha512.New, []byte("s"))
	h.Write([]byte("c:1:0"))
	require.Equal(t, h.Sum(nil), block)
}

func TestDeriveBlockDeterministic(t *testing.T) {
	a := DeriveBlock("server", "client", 42, 3)
	b := DeriveBlock("server", "client", 42, 3)

	require.Equal(t, a, b)
}

func TestDeriveBlockInputSensitivity(t *testing.T) {
	base := DeriveBlock("server", "client", 42, 0)

	cases := []struct {
		name  string
		block []byte
	}{
		{"ServerSeed", DeriveBlock("serveR", "client", 42, 0)},
		{"ClientSeed", DeriveBlock("server", "clienT", 42, 0)},
		{"Nonce", DeriveBlock("server", "client", 43, 0)},
		{"Cursor", DeriveBlock("server", "client", 42, 1)},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.NotEqual(t, base, tc.block)
		})
	}
}

func TestByteGeneratorAdvancesCursor(t *testing.T) {
	gen := NewByteGenerator("s", "c", 0)

	first := DeriveBlock("s", "c", 0, 0)
	second := DeriveBlock("s", "c", 0, 1)

	// one block holds exactly 16 windows
	for i := 0; i < 16; i++ {
		window, err := gen.NextWindow()
		require.NoError(t, err)
		require.Equal(t, first[i*4:i*4+4], window[:])
	}

	window, err := gen.NextWindow()
	require.NoError(t, err)
	require.Equal(t, second[:4], window[:])
}

func TestAuditHash(t *testing.T) {
	gen := NewByteGenerator("s", "c", 9)

	hash := gen.AuditHash()
	require.Len(t, hash, BlockSize*2)
	require.Equal(t, HexDigest(DeriveBlock("s", "c", 9, 0)), hash)

	// consuming windows must not change the audit hash
	_, err := gen.NextWindow()
	require.NoError(t, err)
	require.Equal(t, hash, gen.AuditHash())
}
