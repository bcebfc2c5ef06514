package gf2m

import (
	"testing"

	"github.com/ppopth/mceliece/random"
	"github.com/stretchr/testify/require"
)

func randomPoly(t *testing.T, f *Field, degree int, src random.Source) *Poly {
	c := make([]int, degree+1)
	for i := range c {
		c[i] = f.RandomElement(src)
	}
	c[degree] = f.RandomNonZeroElement(src)
	p, err := NewPoly(f, c)
	require.NoError(t, err)
	return p
}

// naiveMultiply multiplies coefficient by coefficient
func naiveMultiply(a, b *Poly) *Poly {
	f := a.Field()
	if a.IsZero() || b.IsZero() {
		return ZeroPoly(f)
	}
	c := make([]int, a.Degree()+b.Degree()+1)
	for i := 0; i <= a.Degree(); i++ {
		for j := 0; j <= b.Degree(); j++ {
			c[i+j] ^= f.Mult(a.Coefficient(i), b.Coefficient(j))
		}
	}
	return newPoly(f, c)
}

// TestPolyConstruction tests trimming and validation
func TestPolyConstruction(t *testing.T) {
	f := mustField(t, 4)
	p, err := NewPoly(f, []int{1, 2, 0, 0})
	require.NoError(t, err)
	require.Equal(t, 1, p.Degree())
	require.Equal(t, 2, p.HeadCoefficient())
	require.Equal(t, 0, p.Coefficient(7))

	_, err = NewPoly(f, []int{1, 16})
	require.ErrorIs(t, err, ErrNotInField)

	require.Equal(t, -1, ZeroPoly(f).Degree())
	require.Equal(t, 5, MonomialPoly(f, 5).Degree())
	require.True(t, ConstantPoly(f, 0).IsZero())
}

// TestPolyBytesRoundTrip tests the coefficient encoding
func TestPolyBytesRoundTrip(t *testing.T) {
	src := testSource(t)
	for _, m := range []int{4, 9, 17} {
		f := mustField(t, m)
		p := randomPoly(t, f, 13, src)
		dec, err := PolyFromBytes(f, p.Bytes())
		require.NoError(t, err)
		require.True(t, dec.Equal(p))
		require.Len(t, p.Bytes(), 14*((m+7)/8))
	}

	f := mustField(t, 4)
	_, err := PolyFromBytes(f, []byte{1, 0})
	require.ErrorIs(t, err, ErrEncoding)
	_, err = PolyFromBytes(f, []byte{1, 0x10})
	require.ErrorIs(t, err, ErrEncoding)
}

// TestPolyMultiply tests Karatsuba against the naive product
func TestPolyMultiply(t *testing.T) {
	f := mustField(t, 8)
	src := testSource(t)
	for _, d := range [][2]int{{0, 0}, {3, 5}, {8, 8}, {9, 9}, {20, 7}, {40, 33}, {64, 64}} {
		a := randomPoly(t, f, d[0], src)
		b := randomPoly(t, f, d[1], src)
		got := a.Multiply(b)
		require.True(t, got.Equal(naiveMultiply(a, b)), "degrees %v", d)
		require.True(t, b.Multiply(a).Equal(got), "commutativity for %v", d)
	}
	require.True(t, ZeroPoly(f).Multiply(randomPoly(t, f, 3, src)).IsZero())
}

// TestPolyDivMod tests a = q*b + r with deg r < deg b
func TestPolyDivMod(t *testing.T) {
	f := mustField(t, 6)
	src := testSource(t)
	for _, d := range [][2]int{{10, 3}, {30, 29}, {4, 9}, {17, 0}} {
		a := randomPoly(t, f, d[0], src)
		b, err := randomPoly(t, f, d[1], src).MultElement(3)
		require.NoError(t, err)
		q, r, err := a.DivMod(b)
		require.NoError(t, err)
		require.Less(t, r.Degree(), b.Degree())
		require.True(t, q.Multiply(b).Add(r).Equal(a), "degrees %v", d)
	}
	_, _, err := MonomialPoly(f, 3).DivMod(ZeroPoly(f))
	require.ErrorIs(t, err, ErrDivisionByZero)
}

// TestPolyEvaluate tests Horner evaluation against a factored polynomial
func TestPolyEvaluate(t *testing.T) {
	f := mustField(t, 5)
	// (X + 3)(X + 7) vanishes at 3 and 7
	p := ConstantPoly(f, 3).AddMonomial(1).Multiply(ConstantPoly(f, 7).AddMonomial(1))
	require.Equal(t, 0, p.Evaluate(3))
	require.Equal(t, 0, p.Evaluate(7))
	require.NotEqual(t, 0, p.Evaluate(4))
	require.Equal(t, f.Mult(3, 7), p.Evaluate(0))
}

// TestMultElementRange tests that scalars outside the field are rejected
func TestMultElementRange(t *testing.T) {
	f := mustField(t, 4)
	p := ConstantPoly(f, 3).AddMonomial(2)
	for _, a := range []int{16, 19, -1} {
		_, err := p.MultElement(a)
		require.ErrorIs(t, err, ErrNotInField, "scalar %d", a)
	}
	q, err := p.MultElement(0)
	require.NoError(t, err)
	require.True(t, q.IsZero())
}

// TestPolyGCD tests that gcd extracts a common factor and is monic
func TestPolyGCD(t *testing.T) {
	f := mustField(t, 7)
	src := testSource(t)
	h, err := RandomIrreduciblePoly(f, 4, src)
	require.NoError(t, err)
	g1, err := RandomIrreduciblePoly(f, 5, src)
	require.NoError(t, err)
	g2, err := RandomIrreduciblePoly(f, 6, src)
	require.NoError(t, err)

	a, err := h.Multiply(g1).MultElement(9)
	require.NoError(t, err)
	b, err := h.Multiply(g2).MultElement(17)
	require.NoError(t, err)
	require.True(t, a.GCD(b).Equal(h))
	require.Equal(t, 1, a.GCD(b).HeadCoefficient())
	require.Equal(t, 0, g1.GCD(g2).Degree())
}

// TestRandomIrreduciblePoly tests monic irreducible Goppa polynomial generation
func TestRandomIrreduciblePoly(t *testing.T) {
	f := mustField(t, 6)
	src := testSource(t)
	for i := 0; i < 5; i++ {
		g, err := RandomIrreduciblePoly(f, 7, src)
		require.NoError(t, err)
		require.Equal(t, 7, g.Degree())
		require.Equal(t, 1, g.HeadCoefficient())
		require.True(t, g.IsIrreducible())
		for a := 0; a < f.Size(); a++ {
			if g.Evaluate(a) == 0 {
				t.Fatalf("irreducible polynomial %s has root %d", g, a)
			}
		}
		require.False(t, g.Multiply(g).IsIrreducible())
	}
}

// TestIsIrreducibleSmall tests irreducibility of linear and reducible polynomials
func TestIsIrreducibleSmall(t *testing.T) {
	f := mustField(t, 4)
	require.True(t, MonomialPoly(f, 1).IsIrreducible())
	require.True(t, ConstantPoly(f, 5).AddMonomial(1).IsIrreducible())
	require.False(t, MonomialPoly(f, 2).IsIrreducible())
	require.False(t, ConstantPoly(f, 5).IsIrreducible())

	// X^2 + X + a has a root iff a = r^2 + r for some r
	p := ConstantPoly(f, f.Mult(6, 6)^6).AddMonomial(1).AddMonomial(2)
	require.False(t, p.IsIrreducible())
}

// TestModInverse tests p * p^-1 = 1 mod g and quotient consistency
func TestModInverse(t *testing.T) {
	f := mustField(t, 8)
	src := testSource(t)
	g, err := RandomIrreduciblePoly(f, 9, src)
	require.NoError(t, err)
	one := ConstantPoly(f, 1)

	for i := 0; i < 10; i++ {
		a := randomPoly(t, f, 8+i%2-1, src)
		inv, err := a.ModInverse(g)
		require.NoError(t, err)
		prod, err := a.ModMultiply(inv, g)
		require.NoError(t, err)
		require.True(t, prod.Equal(one))

		b := randomPoly(t, f, 15, src)
		q, err := b.ModDiv(a, g)
		require.NoError(t, err)
		back, err := q.ModMultiply(a, g)
		require.NoError(t, err)
		require.True(t, back.Equal(b.mod(g)))
	}

	_, err = ZeroPoly(f).ModInverse(g)
	require.ErrorIs(t, err, ErrDivisionByZero)
	_, err = g.ModInverse(g)
	require.ErrorIs(t, err, ErrDivisionByZero)
}

// TestModSquareRoot tests the repeated squaring square root
func TestModSquareRoot(t *testing.T) {
	f := mustField(t, 5)
	src := testSource(t)
	g, err := RandomIrreduciblePoly(f, 6, src)
	require.NoError(t, err)
	a := randomPoly(t, f, 5, src)
	r, err := a.ModSquareRoot(g)
	require.NoError(t, err)
	sq, err := r.ModMultiply(r, g)
	require.NoError(t, err)
	require.True(t, sq.Equal(a))
}

// TestModPolynomialToFraction tests a = b*p mod g with deg a <= deg g / 2
func TestModPolynomialToFraction(t *testing.T) {
	f := mustField(t, 7)
	src := testSource(t)
	g, err := RandomIrreduciblePoly(f, 10, src)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		p := randomPoly(t, f, 9-i%3, src)
		a, b, err := p.ModPolynomialToFraction(g)
		require.NoError(t, err)
		require.LessOrEqual(t, a.Degree(), 5)
		bp, err := b.ModMultiply(p, g)
		require.NoError(t, err)
		require.True(t, bp.Equal(a.mod(g)))
	}
}
