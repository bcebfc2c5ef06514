package gf2m

import (
	"testing"

	"github.com/ppopth/mceliece/random"
	"github.com/stretchr/testify/require"
)

func testSource(t *testing.T) random.Source {
	return random.NewShake([]byte(t.Name()))
}

func mustField(t *testing.T, degree int) *Field {
	f, err := NewField(degree)
	require.NoError(t, err)
	return f
}

// TestInverseGF16 tests inversion in GF(2^4) with x^4 + x + 1
func TestInverseGF16(t *testing.T) {
	f := mustField(t, 4)
	require.Equal(t, 0x13, f.Poly())

	inv, err := f.Inverse(5)
	require.NoError(t, err)
	require.Equal(t, 1, f.Mult(5, inv))

	_, err = f.Inverse(0)
	require.ErrorIs(t, err, ErrDivisionByZero)
}

// TestFieldAxioms tests inverse, order, characteristic and square roots on every element
func TestFieldAxioms(t *testing.T) {
	for _, m := range []int{2, 3, 8, 11} {
		f := mustField(t, m)
		order := f.Size() - 1
		for a := 0; a < f.Size(); a++ {
			if f.Add(a, a) != 0 {
				t.Fatalf("m=%d: %d + %d != 0", m, a, a)
			}
			if f.SqRoot(f.Square(a)) != a {
				t.Fatalf("m=%d: sqrt(%d^2) != %d", m, a, a)
			}
			if a == 0 {
				continue
			}
			inv, err := f.Inverse(a)
			require.NoError(t, err)
			if f.Mult(a, inv) != 1 {
				t.Fatalf("m=%d: %d * %d != 1", m, a, inv)
			}
			e, err := f.Exp(a, order)
			require.NoError(t, err)
			if e != 1 {
				t.Fatalf("m=%d: %d^%d = %d", m, a, order, e)
			}
			e, err = f.Exp(a, -1)
			require.NoError(t, err)
			require.Equal(t, inv, e)
		}
	}
}

// TestExpEdgeCases tests zero exponents and zero bases
func TestExpEdgeCases(t *testing.T) {
	f := mustField(t, 5)
	e, err := f.Exp(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, e)
	e, err = f.Exp(0, 7)
	require.NoError(t, err)
	require.Equal(t, 0, e)
	_, err = f.Exp(0, -3)
	require.ErrorIs(t, err, ErrDivisionByZero)

	// a^-3 * a^3 = 1
	a := 19
	x, err := f.Exp(a, -3)
	require.NoError(t, err)
	y, err := f.Exp(a, 3)
	require.NoError(t, err)
	require.Equal(t, 1, f.Mult(x, y))
}

// TestElementRange tests that Inverse and Exp reject integers outside the field
// instead of reducing them
func TestElementRange(t *testing.T) {
	f := mustField(t, 4)
	for _, a := range []int{16, 17, 19, -3, 1 << 20} {
		_, err := f.Inverse(a)
		require.ErrorIs(t, err, ErrNotInField, "Inverse(%d)", a)
		for _, k := range []int{-1, 0, 3} {
			_, err = f.Exp(a, k)
			require.ErrorIs(t, err, ErrNotInField, "Exp(%d, %d)", a, k)
		}
	}
	inv, err := f.Inverse(15)
	require.NoError(t, err)
	require.Equal(t, 1, f.Mult(15, inv))
}

// TestIrreduciblePoly tests the least irreducible polynomial of several degrees
func TestIrreduciblePoly(t *testing.T) {
	cases := map[int]int{
		1:  0x3,
		2:  0x7,
		3:  0xb,
		4:  0x13,
		8:  0x11b,
		11: 0x805,
	}
	for deg, want := range cases {
		if got := IrreduciblePoly(deg); got != want {
			t.Errorf("degree %d: got %#x want %#x", deg, got, want)
		}
	}
	require.False(t, IsIrreduciblePoly(0x11))
	require.False(t, IsIrreduciblePoly(0x803))
	require.False(t, IsIrreduciblePoly(1))
	require.True(t, IsIrreduciblePoly(0x201b)) // x^13 + x^4 + x^3 + x + 1
}

// TestPolyHelpers tests the integer polynomial helpers
func TestPolyHelpers(t *testing.T) {
	require.Equal(t, -1, PolyDegree(0))
	require.Equal(t, 4, PolyDegree(0x13))
	require.Equal(t, 0b1, PolyRemainder(0b1000, 0b111)) // x^3 = 1 mod x^2 + x + 1
	// (x^2 + x + 1)(x^3 + x + 1) and (x^2 + x + 1)(x + 1)
	require.Equal(t, 0b111, PolyGCD(0b110001, 0b1001))
	require.Equal(t, "x^4 + x + 1", PolyString(0x13))
	require.Panics(t, func() { PolyRemainder(5, 0) })
}

// TestFieldConstruction tests validation of explicit field polynomials
func TestFieldConstruction(t *testing.T) {
	_, err := NewFieldWithPoly(4, 0x11)
	require.ErrorIs(t, err, ErrReducible)
	_, err = NewFieldWithPoly(5, 0x13)
	require.ErrorIs(t, err, ErrDegree)
	_, err = NewField(1)
	require.ErrorIs(t, err, ErrDegree)
	_, err = NewField(32)
	require.ErrorIs(t, err, ErrDegree)

	f, err := NewFieldWithPoly(4, 0x19)
	require.NoError(t, err)
	dec, err := FieldFromBytes(f.Bytes())
	require.NoError(t, err)
	require.True(t, dec.Equal(f))
	require.Equal(t, []byte{0x19, 0, 0, 0}, f.Bytes())

	_, err = FieldFromBytes([]byte{0x11, 0, 0, 0})
	require.ErrorIs(t, err, ErrReducible)
	_, err = FieldFromBytes([]byte{0x13, 0, 0})
	require.ErrorIs(t, err, ErrEncoding)
}

// TestRandomElements tests the range of random draws
func TestRandomElements(t *testing.T) {
	f := mustField(t, 3)
	src := testSource(t)
	for i := 0; i < 200; i++ {
		require.True(t, f.Contains(f.RandomElement(src)))
		require.NotZero(t, f.RandomNonZeroElement(src))
	}
	require.Equal(t, "101", f.ElementString(5))
	require.False(t, f.Contains(8))
}
