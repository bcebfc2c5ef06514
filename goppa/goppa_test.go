package goppa

import (
	"context"
	"testing"

	"github.com/ppopth/mceliece/gf2"
	"github.com/ppopth/mceliece/gf2m"
	"github.com/ppopth/mceliece/random"
	"github.com/stretchr/testify/require"
)

func testSource(t *testing.T) random.Source {
	return random.NewShake([]byte(t.Name()))
}

func generate(t *testing.T, params Params, src random.Source, opts ...Option) *Code {
	c, err := Generate(context.Background(), params, src, opts...)
	require.NoError(t, err)
	return c
}

// TestParams tests parameter validation and derived sizes
func TestParams(t *testing.T) {
	p := DefaultParams()
	require.NoError(t, p.Validate())
	require.Equal(t, 2048, p.N())
	require.Equal(t, 2048-550, p.K())

	for _, bad := range []Params{
		{M: 1, T: 1},
		{M: MaxM + 1, T: 2},
		{M: 6, T: 0},
		{M: 4, T: 1},
		{M: 11, T: 1},
		{M: 4, T: 4},
	} {
		require.Error(t, bad.Validate(), "%+v", bad)
	}
	_, err := Generate(context.Background(), Params{M: 4, T: 1}, testSource(t))
	require.Error(t, err)
	require.NoError(t, Params{M: 4, T: 2}.Validate())
}

// TestCanonicalCheckMatrixSyndrome tests that the syndrome of a single error at
// position j groups into the polynomial 1/(X - j) mod g
func TestCanonicalCheckMatrixSyndrome(t *testing.T) {
	src := testSource(t)
	field, err := gf2m.NewField(6)
	require.NoError(t, err)
	g, err := gf2m.RandomIrreduciblePoly(field, 5, src)
	require.NoError(t, err)

	h, err := CreateCanonicalCheckMatrix(field, g)
	require.NoError(t, err)
	require.Equal(t, 30, h.Rows())
	require.Equal(t, 64, h.Cols())

	for _, j := range []int{0, 1, 17, 63} {
		e := gf2.NewVector(64)
		e.SetBit(j)
		s, err := h.MultiplyVector(e)
		require.NoError(t, err)
		sv, err := gf2m.VectorFromBits(field, s)
		require.NoError(t, err)
		x, err := gf2m.NewPoly(field, []int{j, 1})
		require.NoError(t, err)
		prod, err := gf2m.PolyFromVector(sv).ModMultiply(x, g)
		require.NoError(t, err)
		require.True(t, prod.Equal(gf2m.ConstantPoly(field, 1)), "column %d: S(X)*(X-%d) = %s", j, j, prod)
	}
}

// TestCanonicalCheckMatrixErrors tests rejected Goppa polynomials
func TestCanonicalCheckMatrixErrors(t *testing.T) {
	field, err := gf2m.NewField(4)
	require.NoError(t, err)
	x := gf2m.MonomialPoly(field, 1)
	_, err = CreateCanonicalCheckMatrix(field, x)
	require.ErrorIs(t, err, gf2m.ErrDivisionByZero)

	_, err = CreateCanonicalCheckMatrix(field, gf2m.ConstantPoly(field, 1))
	require.ErrorIs(t, err, gf2m.ErrDegree)

	other, err := gf2m.NewField(5)
	require.NoError(t, err)
	_, err = CreateCanonicalCheckMatrix(field, gf2m.MonomialPoly(other, 2))
	require.ErrorIs(t, err, gf2m.ErrNotInField)
}

// TestDecodeRoundTrip tests that every error of weight up to t is recovered
// from its syndrome
func TestDecodeRoundTrip(t *testing.T) {
	src := testSource(t)
	for _, params := range []Params{{M: 4, T: 2}, {M: 6, T: 4}, {M: 8, T: 10}, {M: 11, T: 50}} {
		code := generate(t, params, src)
		for w := 0; w <= params.T; w += max(1, params.T/4) {
			for i := 0; i < 3; i++ {
				e, err := gf2.NewRandomWeightVector(params.N(), w, src)
				require.NoError(t, err)
				s, err := code.Syndrome(e)
				require.NoError(t, err)
				got, err := code.Decode(s)
				require.NoError(t, err)
				if !got.Equal(e) {
					t.Fatalf("%s: weight %d error %s decoded to %s", params, w, e, got)
				}
			}
		}
		e, err := code.RandomError(src)
		require.NoError(t, err)
		require.Equal(t, params.T, e.HammingWeight())
		s, err := code.Syndrome(e)
		require.NoError(t, err)
		got, err := code.Decode(s)
		require.NoError(t, err)
		require.True(t, got.Equal(e))
	}
}

// TestDecodeDimension tests syndromes and square-root matrices of the wrong size
func TestDecodeDimension(t *testing.T) {
	code := generate(t, Params{M: 5, T: 3}, testSource(t))
	_, err := code.Decode(gf2.NewVector(14))
	require.ErrorIs(t, err, ErrDimension)
	_, err = SyndromeDecode(gf2.NewVector(15), code.Field, code.Goppa, nil)
	require.ErrorIs(t, err, ErrDimension)
	_, err = code.Syndrome(gf2.NewVector(31))
	require.ErrorIs(t, err, ErrDimension)

	zero, err := code.Decode(gf2.NewVector(15))
	require.NoError(t, err)
	require.True(t, zero.IsZero())
	require.Equal(t, 32, zero.Len())
}

// TestSystematicForm tests S*H*P = (I | M) and determinism for a fixed seed
func TestSystematicForm(t *testing.T) {
	code := generate(t, Params{M: 8, T: 6}, testSource(t), WithWorkers(4))
	sys := code.Systematic
	require.Equal(t, 48, sys.S.Rows())
	require.Equal(t, 48, sys.S.Cols())
	require.Equal(t, 256-48, sys.M.Cols())
	ok, err := sys.Verify(code.H)
	require.NoError(t, err)
	require.True(t, ok)

	a, err := ComputeSystematicForm(context.Background(), code.H, random.NewShake([]byte("seed")), WithWorkers(3))
	require.NoError(t, err)
	b, err := ComputeSystematicForm(context.Background(), code.H, random.NewShake([]byte("seed")), WithWorkers(3))
	require.NoError(t, err)
	require.True(t, a.P.Equal(b.P))
	require.True(t, a.S.Equal(b.S))
	require.True(t, a.M.Equal(b.M))

	// a tampered M no longer verifies
	m := a.M.Clone()
	m.SetBit(0, 0)
	if a.M.Bit(0, 0) == 0 {
		a.M = m
		ok, err = a.Verify(code.H)
		require.NoError(t, err)
		require.False(t, ok)
	}
}

// TestSystematicFormBudget tests that a rank-deficient matrix exhausts the budget
func TestSystematicFormBudget(t *testing.T) {
	h := gf2.NewMatrix(4, 12)
	for j := 0; j < 12; j++ {
		h.SetBit(0, j)
	}
	_, err := ComputeSystematicForm(context.Background(), h, testSource(t), WithMaxAttempts(7), WithWorkers(2))
	require.ErrorIs(t, err, ErrBudgetExhausted)

	_, err = ComputeSystematicForm(context.Background(), gf2.NewMatrix(4, 4), testSource(t))
	require.ErrorIs(t, err, ErrDimension)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ComputeSystematicForm(ctx, h, testSource(t))
	require.ErrorIs(t, err, context.Canceled)

	_, err = ComputeSystematicForm(context.Background(), h, testSource(t), WithMaxAttempts(0))
	require.Error(t, err)
	_, err = ComputeSystematicForm(context.Background(), h, testSource(t), WithWorkers(-1))
	require.Error(t, err)
}
