package goppa

import (
	"fmt"

	"github.com/ppopth/mceliece/gf2"
	"github.com/ppopth/mceliece/gf2m"
	"github.com/ppopth/mceliece/internal/parallel"
)

// CreateCanonicalCheckMatrix returns the (t*m) x 2^m parity-check matrix of
// the Goppa code defined by g over field. Column j belongs to the field
// element j. Its GF(2^m) entries are
//
//	h[i][j] = sum_(k<=i) g_(t+k-i) * j^k / g(j)
//
// and bit u of h[i][j] goes to row (i+1)*m - u - 1, so that grouping a
// syndrome back into field elements yields the syndrome polynomial with
// coefficient t-1-i from block i. g must have no roots in the field.
func CreateCanonicalCheckMatrix(field *gf2m.Field, g *gf2m.Poly) (*gf2.Matrix, error) {
	if err := checkGoppaPoly(field, g); err != nil {
		return nil, err
	}
	m := field.Degree()
	n := field.Size()
	t := g.Degree()
	for j := 0; j < n; j++ {
		if g.Evaluate(j) == 0 {
			return nil, fmt.Errorf("%w: Goppa polynomial %s vanishes at %d", gf2m.ErrDivisionByZero, g, j)
		}
	}

	h := gf2.NewMatrix(t*m, n)
	// one task per 32-column block, so no two tasks share a row word
	parallel.For((n+31)>>5, 0, func(lo, hi int) {
		yz := make([]int, t)
		for j := lo << 5; j < min(hi<<5, n); j++ {
			yz[0], _ = field.Inverse(g.Evaluate(j))
			for i := 1; i < t; i++ {
				yz[i] = field.Mult(yz[i-1], j)
			}
			for i := 0; i < t; i++ {
				e := 0
				for k := 0; k <= i; k++ {
					e ^= field.Mult(yz[k], g.Coefficient(t+k-i))
				}
				for u := 0; u < m; u++ {
					if e>>uint(u)&1 != 0 {
						h.SetBit((i+1)*m-u-1, j)
					}
				}
			}
		}
	})
	return h, nil
}
