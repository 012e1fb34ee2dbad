// Package id generates the opaque public identifiers exposed by the API.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// idEntropyBytes gives 128 bits per ID, enough that collisions are not a
// practical concern at this system's write rate.
const idEntropyBytes = 16

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, idEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
