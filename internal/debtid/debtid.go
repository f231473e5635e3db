// Package debtid generates the short human-typeable codes that
// identify debts: one lowercase letter followed by two digits 1-9.
// Zero is skipped because it reads like the letter o.
package debtid

import (
	"errors"
	"math/rand"
	"regexp"
)

// Pattern matches a well-formed debtor code.
var Pattern = regexp.MustCompile(`^[a-z][1-9]{2}$`)

// ErrExhausted is returned when no free code could be found. The code
// space holds 26*81 combinations, so this only happens when the store
// is effectively full.
var ErrExhausted = errors.New("no free debtor code available")

const maxAttempts = 10000

type Generator struct {
	rnd *rand.Rand
}

func New(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Generate picks codes uniformly until one is absent from existing.
// The snapshot check is only an optimization: two concurrent flows can
// still pick the same code, and the store's uniqueness constraint is
// the final authority.
func (g *Generator) Generate(existing map[string]struct{}) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		code := string([]byte{
			'a' + byte(g.rnd.Intn(26)),
			'1' + byte(g.rnd.Intn(9)),
			'1' + byte(g.rnd.Intn(9)),
		})
		if _, taken := existing[code]; !taken {
			return code, nil
		}
	}
	return "", ErrExhausted
}
