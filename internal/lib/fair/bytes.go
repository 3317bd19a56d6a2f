package fair

import (
	"crypto/hmac"
	"crypto/sha512"
	"fmt"
)

// BlockSize is the size of one derived digest in bytes.
const BlockSize = sha512.Size

// DeriveBlock computes one HMAC-SHA512 digest keyed by the server seed over
// the canonical message "<clientSeed>:<nonce>:<cursor>". The message format
// is part of the public verification contract: generation and verification
// must build it byte-for-byte identically.
func DeriveBlock(serverSeed, clientSeed string, nonce int64, cursor int) []byte {
	h := hmac.New(sha512.New, []byte(serverSeed))
	h.Write([]byte(fmt.Sprintf("%s:%d:%d", clientSeed, nonce, cursor)))

	return h.Sum(nil)
}

// ByteGenerator streams derived bytes for one (serverSeed, clientSeed, nonce)
// triple, pulling a fresh digest with an incremented cursor whenever the
// current one is exhausted. It has no shared state and is cheap to create
// per outcome.
type ByteGenerator struct {
	serverSeed string
	clientSeed string
	nonce      int64
	cursor     int
	block      []byte
	offset     int
}

func NewByteGenerator(serverSeed, clientSeed string, nonce int64) *ByteGenerator {
	return &ByteGenerator{
		serverSeed: serverSeed,
		clientSeed: clientSeed,
		nonce:      nonce,
	}
}

// NextWindow returns the next non-overlapping 4-byte window of the stream.
func (g *ByteGenerator) NextWindow() ([4]byte, error) {
	const op = "fair.ByteGenerator.NextWindow"

	if g.block == nil || g.offset >= len(g.block) {
		g.block = DeriveBlock(g.serverSeed, g.clientSeed, g.nonce, g.cursor)
		g.cursor++
		g.offset = 0
	}

	window, err := windowAt(g.block, g.offset)
	if err != nil {
		return window, fmt.Errorf("%s: %w", op, err)
	}

	g.offset += 4

	return window, nil
}

// AuditHash returns the hex digest of the first block of the stream; it is
// recorded alongside the outcome so auditors can match the raw material.
func (g *ByteGenerator) AuditHash() string {
	return HexDigest(DeriveBlock(g.serverSeed, g.clientSeed, g.nonce, 0))
}

func windowAt(block []byte, offset int) ([4]byte, error) {
	var window [4]byte

	if offset < 0 || offset+4 > len(block) {
		return window, fmt.Errorf("offset %d: %w", offset, ErrInsufficientBytes)
	}

	copy(window[:], block[offset:offset+4])

	return window, nil
}
