package gf2n

import (
	"fmt"

	"github.com/ppopth/mceliece/gf2x"
)

// RandomRoot returns a root in f of g, a polynomial over GF(2) that splits
// in f. It repeatedly takes gcd(Tr(u*t) mod g, g) for random u to split g
// into smaller factors until a linear one remains. Draws come from the
// field's source and count against its attempt budget.
func RandomRoot(f Field, g *gf2x.Polynomial) (Element, error) {
	p := LiftPolynomial(f, g)
	if p.Degree() < 1 {
		return nil, fmt.Errorf("%w: polynomial %s has no roots", ErrNoSolution, g)
	}
	p, err := p.Monic()
	if err != nil {
		return nil, err
	}
	opts := f.base().opts
	n := f.Degree()
	attempts := 0
	for p.Degree() > 1 {
		var h *Polynomial
		for {
			if attempts == opts.maxAttempts {
				log.Warnf("%s: random root of %s exhausted %d attempts", f, g, attempts)
				return nil, fmt.Errorf("%w: root of %s in %s", ErrBudgetExhausted, g, f)
			}
			attempts++

			ut := newPolynomial(f, []Element{f.Zero(), f.Random(opts.src)})
			c := ut
			for i := 1; i < n; i++ {
				c, _ = c.MultiplyAndReduce(c, p)
				c = c.add(ut)
			}
			h, _ = c.GCD(p)
			if d := h.Degree(); d > 0 && d < p.Degree() {
				break
			}
		}
		if 2*h.Degree() > p.Degree() {
			p, _ = p.divMod(h)
		} else {
			p = h
		}
		log.Debugf("%s: random root search split to degree %d", f, p.Degree())
	}
	return p.At(0), nil
}
