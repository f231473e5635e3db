package debtid

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator() *Generator {
	return New(rand.New(rand.NewSource(42)))
}

func TestGenerate_Format(t *testing.T) {
	g := newTestGenerator()

	for i := 0; i < 500; i++ {
		code, err := g.Generate(nil)
		require.NoError(t, err)
		assert.Regexp(t, Pattern, code)
	}
}

func TestGenerate_AvoidsExistingCodes(t *testing.T) {
	g := newTestGenerator()

	// Seed a store with a decent share of the code space.
	seeder := rand.New(rand.NewSource(7))
	existing := make(map[string]struct{})
	for len(existing) < 800 {
		code := string([]byte{
			'a' + byte(seeder.Intn(26)),
			'1' + byte(seeder.Intn(9)),
			'1' + byte(seeder.Intn(9)),
		})
		existing[code] = struct{}{}
	}

	for i := 0; i < 200; i++ {
		code, err := g.Generate(existing)
		require.NoError(t, err)
		assert.Regexp(t, Pattern, code)
		assert.NotContains(t, existing, code)
	}
}

func TestGenerate_ExhaustedSpace(t *testing.T) {
	g := newTestGenerator()

	existing := make(map[string]struct{}, 26*81)
	for letter := byte('a'); letter <= 'z'; letter++ {
		for d1 := byte('1'); d1 <= '9'; d1++ {
			for d2 := byte('1'); d2 <= '9'; d2++ {
				existing[string([]byte{letter, d1, d2})] = struct{}{}
			}
		}
	}

	_, err := g.Generate(existing)
	assert.ErrorIs(t, err, ErrExhausted)
}
