// Package goppa implements binary irreducible Goppa codes over GF(2^m): the
// canonical parity-check matrix, its randomized systematic form and
// syndrome decoding with Patterson's algorithm.
package goppa

import (
	"errors"
	"fmt"

	logging "github.com/ipfs/go-log/v2"
	"github.com/ppopth/mceliece/gf2m"
)

var log = logging.Logger("goppa")

var (
	// ErrBudgetExhausted reports a systematic-form search that ran out of
	// attempts.
	ErrBudgetExhausted = errors.New("goppa: attempt budget exhausted")
	// ErrDimension reports matrices or vectors of the wrong size.
	ErrDimension = errors.New("goppa: dimension mismatch")
)

// MaxM bounds the extension degree: a code has 2^m columns.
const MaxM = 20

// DefaultMaxAttempts bounds the systematic-form search unless overridden.
const DefaultMaxAttempts = 1 << 10

// Params are the parameters of a Goppa code: the code length is n = 2^M,
// the Goppa polynomial has degree T and the code corrects T errors.
type Params struct {
	M int
	T int
}

// DefaultParams returns m = 11, t = 50.
func DefaultParams() Params {
	return Params{M: 11, T: 50}
}

// N returns the code length 2^m.
func (p Params) N() int { return 1 << uint(p.M) }

// K returns the code dimension n - m*t.
func (p Params) K() int { return p.N() - p.M*p.T }

// Validate checks that the parameters describe a code of positive
// dimension.
func (p Params) Validate() error {
	if p.M < 2 || p.M > MaxM {
		return fmt.Errorf("goppa: m = %d outside [2,%d]", p.M, MaxM)
	}
	// a degree-1 Goppa polynomial always has a root in GF(2^m)
	if p.T < 2 {
		return fmt.Errorf("goppa: t = %d must be at least 2", p.T)
	}
	if p.K() <= 0 {
		return fmt.Errorf("goppa: m*t = %d leaves no room in a code of length %d", p.M*p.T, p.N())
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("[n=%d, k=%d, t=%d] over GF(2^%d)", p.N(), p.K(), p.T, p.M)
}

type options struct {
	workers     int
	maxAttempts int
}

// Option configures code generation.
type Option func(*options) error

// WithWorkers sets how many systematic-form attempts run at once. Zero means
// one per CPU.
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return fmt.Errorf("goppa: negative worker count %d", n)
		}
		o.workers = n
		return nil
	}
}

// WithMaxAttempts bounds the number of random permutations tried by the
// systematic-form search.
func WithMaxAttempts(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("goppa: attempt budget must be positive, got %d", n)
		}
		o.maxAttempts = n
		return nil
	}
}

func applyOptions(opts []Option) (*options, error) {
	o := &options{maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// checkGoppaPoly rejects Goppa polynomials over another field or of degree
// below 1.
func checkGoppaPoly(field *gf2m.Field, g *gf2m.Poly) error {
	if !field.Equal(g.Field()) {
		return fmt.Errorf("%w: Goppa polynomial over %s, want %s", gf2m.ErrNotInField, g.Field(), field)
	}
	if g.Degree() < 1 {
		return fmt.Errorf("%w: Goppa polynomial of degree %d", gf2m.ErrDegree, g.Degree())
	}
	return nil
}
