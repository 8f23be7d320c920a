// Package generator builds random practice groups.
package generator

import (
	"math/rand"
	"time"
)

// Practice defaults.
const (
	DefaultAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	DefaultGroupSize = 5
)

// Generator produces random code groups.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Group draws size runes uniformly from alphabet.
func (g *Generator) Group(size int, alphabet []rune) string {
	if size <= 0 || len(alphabet) == 0 {
		return ""
	}
	out := make([]rune, size)
	for i := range out {
		out[i] = alphabet[g.rnd.Intn(len(alphabet))]
	}
	return string(out)
}
