package shortcode

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepsakehq/keepsake-api/internal/domain"
)

func TestGenerateProducesWellFormedCodes(t *testing.T) {
	t.Parallel()

	g := NewGenerator(rand.NewSource(1))

	for i := 0; i < 10000; i++ {
		code := g.Generate()
		require.Len(t, code, domain.CodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(alphabet, r),
				"code %q contains character outside the alphabet", code)
		}
		assert.True(t, domain.ValidCode(code))
	}
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	t.Parallel()

	a := NewGenerator(rand.NewSource(42))
	b := NewGenerator(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Generate(), b.Generate())
	}
}

func TestNewGeneratorNilSource(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		NewGenerator(nil)
	})
}

func TestGenerateUnique(t *testing.T) {
	t.Parallel()

	t.Run("returns first free code", func(t *testing.T) {
		t.Parallel()

		g := NewGenerator(rand.NewSource(7))
		calls := 0
		code, err := g.GenerateUnique(context.Background(), func(ctx context.Context, code string) (bool, error) {
			calls++
			return false, nil
		})
		require.NoError(t, err)
		assert.True(t, domain.ValidCode(code))
		assert.Equal(t, 1, calls)
	})

	t.Run("retries past taken codes", func(t *testing.T) {
		t.Parallel()

		// Seed a set with codes another identically seeded generator will
		// produce first, forcing retries.
		seeder := NewGenerator(rand.NewSource(7))
		taken := map[string]bool{
			seeder.Generate(): true,
			seeder.Generate(): true,
			seeder.Generate(): true,
		}

		g := NewGenerator(rand.NewSource(7))
		calls := 0
		code, err := g.GenerateUnique(context.Background(), func(ctx context.Context, code string) (bool, error) {
			calls++
			return taken[code], nil
		})
		require.NoError(t, err)
		assert.False(t, taken[code])
		assert.Equal(t, 4, calls)
	})

	t.Run("propagates exists check errors", func(t *testing.T) {
		t.Parallel()

		g := NewGenerator(rand.NewSource(7))
		storeErr := errors.New("connection lost")
		_, err := g.GenerateUnique(context.Background(), func(ctx context.Context, code string) (bool, error) {
			return false, storeErr
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("stops on canceled context", func(t *testing.T) {
		t.Parallel()

		g := NewGenerator(rand.NewSource(7))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := g.GenerateUnique(ctx, func(ctx context.Context, code string) (bool, error) {
			return true, nil
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestGenerateUniqueNeverReturnsTakenCode(t *testing.T) {
	t.Parallel()

	// Populate a large taken set from one generator, then have another
	// generator (overlapping output, different seed) produce codes against
	// it. Every returned code must be outside the taken set.
	taken := make(map[string]struct{}, 5000)
	seeder := NewGenerator(rand.NewSource(99))
	for len(taken) < 5000 {
		taken[seeder.Generate()] = struct{}{}
	}

	g := NewGenerator(rand.NewSource(7))
	exists := func(ctx context.Context, code string) (bool, error) {
		_, ok := taken[code]
		return ok, nil
	}

	for i := 0; i < 10000; i++ {
		code, err := g.GenerateUnique(context.Background(), exists)
		require.NoError(t, err)
		require.True(t, domain.ValidCode(code))
		if _, ok := taken[code]; ok {
			t.Fatalf("GenerateUnique returned taken code %q", code)
		}
		// Returned codes join the taken set, as they would in the database.
		taken[code] = struct{}{}
	}
}

func TestGenerateCollisionRateIsLow(t *testing.T) {
	t.Parallel()

	g := NewGenerator(rand.NewSource(99))
	seen := make(map[string]bool, 10000)
	collisions := 0
	for i := 0; i < 10000; i++ {
		code := g.Generate()
		if seen[code] {
			collisions++
		}
		seen[code] = true
	}

	// 36^6 is over two billion codes; 10k draws should essentially never
	// collide more than a handful of times.
	assert.LessOrEqual(t, collisions, 2)
}
