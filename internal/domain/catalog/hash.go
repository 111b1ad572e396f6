package catalog

import (
	"encoding/hex"
	"fmt"
	"math"
	"math/bits"
	"strings"
)

// Hash is a fixed-length perceptual hash, stored as packed bits.
type Hash []byte

// ParseHash decodes a hex-encoded hash. An optional "0x" prefix is accepted.
func ParseHash(s string) (Hash, error) {
	s = strings.TrimPrefix(strings.TrimSpace(strings.ToLower(s)), "0x")
	if s == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("parse hash %q: %w", s, err)
	}
	return Hash(b), nil
}

// String returns the lower-case hex form.
func (h Hash) String() string { return hex.EncodeToString(h) }

// Bits returns the hash length in bits.
func (h Hash) Bits() int { return len(h) * 8 }

// Distance returns the Hamming distance to other.
// Hashes of different (or zero) length are incomparable: +Inf.
func (h Hash) Distance(other Hash) float64 {
	if len(h) == 0 || len(h) != len(other) {
		return math.Inf(1)
	}
	d := 0
	for i := range h {
		d += bits.OnesCount8(h[i] ^ other[i])
	}
	return float64(d)
}
