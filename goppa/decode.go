package goppa

import (
	"fmt"

	"github.com/ppopth/mceliece/gf2"
	"github.com/ppopth/mceliece/gf2m"
)

// SyndromeDecode returns the error vector of length 2^m whose syndrome
// under the canonical check matrix of g is syndrome, by Patterson's
// algorithm. sqrtMatrix is the square-root matrix of GF(2^m)[X]/g. A
// syndrome of more than deg(g) errors yields a wrong error vector rather
// than an error; callers detect that by re-encoding.
func SyndromeDecode(syndrome *gf2.Vector, field *gf2m.Field, g *gf2m.Poly, sqrtMatrix []*gf2m.Poly) (*gf2.Vector, error) {
	if err := checkGoppaPoly(field, g); err != nil {
		return nil, err
	}
	t := g.Degree()
	if syndrome.Len() != t*field.Degree() {
		return nil, fmt.Errorf("%w: %d-bit syndrome for t = %d, m = %d", ErrDimension, syndrome.Len(), t, field.Degree())
	}
	if len(sqrtMatrix) != t {
		return nil, fmt.Errorf("%w: square-root matrix of %d columns for t = %d", ErrDimension, len(sqrtMatrix), t)
	}

	n := field.Size()
	errs := gf2.NewVector(n)
	if syndrome.IsZero() {
		return errs, nil
	}

	sv, err := gf2m.VectorFromBits(field, syndrome)
	if err != nil {
		return nil, err
	}
	s := gf2m.PolyFromVector(sv)

	// tau = sqrt(1/S + X) mod g
	inv, err := s.ModInverse(g)
	if err != nil {
		return nil, fmt.Errorf("inverting syndrome: %w", err)
	}
	tau, err := inv.AddMonomial(1).Mod(g)
	if err != nil {
		return nil, err
	}
	tau, err = tau.ModSquareRootMatrix(sqrtMatrix)
	if err != nil {
		return nil, err
	}

	// a = b*tau mod g with deg a <= t/2, locator = a^2 + X*b^2
	a, b, err := tau.ModPolynomialToFraction(g)
	if err != nil {
		return nil, err
	}
	locator := a.Multiply(a).Add(b.Multiply(b).MultMonomial(1))
	if locator.IsZero() {
		return errs, nil
	}
	locator = locator.Monic()

	for j := 0; j < n; j++ {
		if locator.Evaluate(j) == 0 {
			errs.SetBit(j)
		}
	}
	return errs, nil
}
