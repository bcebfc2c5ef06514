package gf2m

import (
	"fmt"

	"github.com/ppopth/mceliece/internal/parallel"
)

// Ring is GF(2^m)[X] modulo a fixed polynomial p, with the precomputed
// squaring matrix and its inverse, the square-root matrix. Column i of the
// squaring matrix is X^(2i) mod p; both are stored as one polynomial per
// column.
type Ring struct {
	field        *Field
	p            *Poly
	sqMatrix     []*Poly
	sqRootMatrix []*Poly
}

// NewRing precomputes the squaring and square-root matrices of
// GF(2^m)[X]/p. It fails with ErrSingular when the squaring map is not
// invertible, which cannot happen for square-free p.
func NewRing(field *Field, p *Poly) (*Ring, error) {
	if !field.Equal(p.field) {
		return nil, fmt.Errorf("%w: ring polynomial over %s, want %s", ErrNotInField, p.field, field)
	}
	if p.Degree() < 1 {
		return nil, fmt.Errorf("%w: ring polynomial of degree %d", ErrDegree, p.Degree())
	}
	r := &Ring{field: field, p: p}
	r.sqMatrix = squaringMatrix(p)
	sqrt, err := invertColumns(field, r.sqMatrix)
	if err != nil {
		return nil, err
	}
	r.sqRootMatrix = sqrt
	return r, nil
}

// squaringMatrix returns the columns X^(2i) mod p for i < deg(p). Columns
// are independent and are computed in parallel.
func squaringMatrix(p *Poly) []*Poly {
	t := p.Degree()
	cols := make([]*Poly, t)
	parallel.For(t, 0, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			x := MonomialPoly(p.field, 2*i)
			if 2*i >= t {
				x = x.mod(p)
			}
			cols[i] = x
		}
	})
	return cols
}

// invertColumns inverts the t x t matrix whose column j has entry i equal to
// coefficient i of cols[j], by Gauss-Jordan elimination on columns.
func invertColumns(f *Field, cols []*Poly) ([]*Poly, error) {
	t := len(cols)
	tmp := make([][]int, t)
	inv := make([][]int, t)
	for j := range cols {
		tmp[j] = make([]int, t)
		copy(tmp[j], cols[j].coeffs)
		inv[j] = make([]int, t)
		inv[j][j] = 1
	}

	for i := 0; i < t; i++ {
		if tmp[i][i] == 0 {
			pivot := -1
			for j := i + 1; j < t; j++ {
				if tmp[j][i] != 0 {
					pivot = j
					break
				}
			}
			if pivot < 0 {
				return nil, fmt.Errorf("%w: squaring matrix", ErrSingular)
			}
			tmp[i], tmp[pivot] = tmp[pivot], tmp[i]
			inv[i], inv[pivot] = inv[pivot], inv[i]
		}
		c := f.inv(tmp[i][i])
		tmp[i] = f.multCoeffs(tmp[i], c)
		inv[i] = f.multCoeffs(inv[i], c)

		pivotCol, pivotInv := tmp[i], inv[i]
		// every other column is updated from the pivot column only
		parallel.For(t, 0, func(lo, hi int) {
			for j := lo; j < hi; j++ {
				if j == i || tmp[j][i] == 0 {
					continue
				}
				e := tmp[j][i]
				for k, x := range pivotCol {
					tmp[j][k] ^= f.Mult(x, e)
				}
				for k, x := range pivotInv {
					inv[j][k] ^= f.Mult(x, e)
				}
			}
		})
	}

	res := make([]*Poly, t)
	for j := range inv {
		res[j] = newPoly(f, inv[j])
	}
	return res, nil
}

// Field returns the coefficient field.
func (r *Ring) Field() *Field { return r.field }

// Poly returns the ring polynomial.
func (r *Ring) Poly() *Poly { return r.p }

// SquaringMatrix returns the columns X^(2i) mod p.
func (r *Ring) SquaringMatrix() []*Poly {
	return append([]*Poly(nil), r.sqMatrix...)
}

// SquareRootMatrix returns the columns of the inverse squaring matrix.
func (r *Ring) SquareRootMatrix() []*Poly {
	return append([]*Poly(nil), r.sqRootMatrix...)
}

// Square returns a^2 mod p for a reduced a.
func (r *Ring) Square(a *Poly) (*Poly, error) {
	return a.ModSquareMatrix(r.sqMatrix)
}

// SquareRoot returns the square root of a reduced a modulo p.
func (r *Ring) SquareRoot(a *Poly) (*Poly, error) {
	return a.ModSquareRootMatrix(r.sqRootMatrix)
}
