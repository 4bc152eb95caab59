// Package shortcode generates the short shareable codes that identify albums.
//
// Codes are 6 uppercase alphanumeric characters drawn from an injected random
// source, so generation stays deterministic under test seeding. Uniqueness is
// established by a generate-and-check loop against existing codes; the unique
// index at the persistence layer remains the final guarantor under concurrent
// creation.
package shortcode

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/keepsakehq/keepsake-api/internal/domain"
)

// alphabet is the character set codes are drawn from.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ExistsFunc reports whether a candidate code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Generator produces album short codes from an injected random source.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a Generator backed by the given random source.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		panic("src cannot be nil")
	}
	return &Generator{rng: rand.New(src)}
}

// Generate returns a single candidate code. The caller is responsible for
// checking uniqueness; most callers should use GenerateUnique instead.
func (g *Generator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	b := make([]byte, domain.CodeLength)
	for i := range b {
		b[i] = alphabet[g.rng.Intn(len(alphabet))]
	}
	return string(b)
}

// GenerateUnique generates candidate codes until one passes the exists check.
// The loop has no retry cap: collisions are rare given the code space, but a
// single-shot generation cannot guarantee uniqueness. Context cancellation
// and exists-check failures abort the loop.
func (g *Generator) GenerateUnique(ctx context.Context, exists ExistsFunc) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("code generation aborted: %w", err)
		}

		code := g.Generate()

		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check code uniqueness: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
}
