package generators

import (
	mathrand "math/rand/v2"

	"github.com/google/uuid"
)

// rngIntN returns a random int in [0, n) using rng if non-nil,
// otherwise the global math/rand/v2 source.
func rngIntN(rng *mathrand.Rand, n int) int {
	if n <= 0 {
		return 0
	}
	if rng != nil {
		return rng.IntN(n)
	}
	return mathrand.IntN(n)
}

// rngUUID generates a version 4 UUID. A seeded rng gives deterministic output,
// nil uses crypto/rand through uuid.New.
func rngUUID(rng *mathrand.Rand) uuid.UUID {
	if rng == nil {
		return uuid.New()
	}
	var b uuid.UUID
	for i := range b {
		b[i] = byte(rng.IntN(256))
	}
	b[6] = (b[6] & 0x0f) | 0x40 // Version 4
	b[8] = (b[8] & 0x3f) | 0x80 // Variant
	return b
}
