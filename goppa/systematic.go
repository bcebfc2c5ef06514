package goppa

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppopth/mceliece/gf2"
	"github.com/ppopth/mceliece/internal/parallel"
	"github.com/ppopth/mceliece/random"
)

// SystematicForm is a factorization S*H*P = (I | M) of a parity-check
// matrix H with S invertible and P a column permutation.
type SystematicForm struct {
	S *gf2.Matrix
	M *gf2.Matrix
	P *gf2.Permutation
}

type attempt struct {
	p  *gf2.Permutation
	hp *gf2.Matrix
	s  *gf2.Matrix
}

// ComputeSystematicForm draws random column permutations P until the
// leftmost square block of H*P is invertible, and returns its inverse S,
// the block M to the right of the identity in S*H*P, and P. Attempts run
// in parallel and the first success in draw order wins, so a deterministic
// source gives a deterministic result for a fixed worker count.
func ComputeSystematicForm(ctx context.Context, h *gf2.Matrix, src random.Source, opts ...Option) (*SystematicForm, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	if h.Cols() <= h.Rows() {
		return nil, fmt.Errorf("%w: %dx%d check matrix has no room for a systematic form", ErrDimension, h.Rows(), h.Cols())
	}

	n := h.Cols()
	draw := func() *gf2.Permutation {
		return gf2.RandomPermutation(n, src)
	}
	try := func(p *gf2.Permutation) (attempt, bool) {
		hp, err := h.PermuteColumns(p)
		if err != nil {
			return attempt{}, false
		}
		left, err := hp.LeftSubMatrix()
		if err != nil {
			return attempt{}, false
		}
		s, err := left.Inverse()
		if err != nil {
			// singular block, not an error
			return attempt{}, false
		}
		return attempt{p: p, hp: hp, s: s}, true
	}

	a, tries, err := parallel.FirstSuccess(ctx, o.maxAttempts, o.workers, draw, try)
	if err != nil {
		if errors.Is(err, parallel.ErrBudgetExhausted) {
			log.Warnf("no systematic form of %dx%d check matrix after %d attempts", h.Rows(), h.Cols(), tries)
			return nil, fmt.Errorf("%w: %d permutations tried", ErrBudgetExhausted, tries)
		}
		return nil, err
	}
	log.Debugf("systematic form found after %d attempts", tries)

	shp, err := a.s.Multiply(a.hp)
	if err != nil {
		return nil, err
	}
	m, err := shp.RightSubMatrix()
	if err != nil {
		return nil, err
	}
	return &SystematicForm{S: a.s, M: m, P: a.p}, nil
}

// Verify reports whether S*H*P equals (I | M) bit for bit.
func (f *SystematicForm) Verify(h *gf2.Matrix) (bool, error) {
	hp, err := h.PermuteColumns(f.P)
	if err != nil {
		return false, err
	}
	shp, err := f.S.Multiply(hp)
	if err != nil {
		return false, err
	}
	return shp.Equal(f.M.ExtendLeftCompactForm()), nil
}
