// Package gf2n implements large binary extension fields GF(2^n) in two
// interchangeable representations: a polynomial basis over an irreducible
// trinomial, pentanomial or dense polynomial, and a Gaussian optimal normal
// basis of type 1 or 2. Elements of fields of equal degree can be converted
// into each other through a change-of-basis matrix built from a random root
// of the source field polynomial.
package gf2n

import (
	"errors"
	"fmt"
	"sync"

	logging "github.com/ipfs/go-log/v2"
	"github.com/ppopth/mceliece/gf2"
	"github.com/ppopth/mceliece/gf2x"
	"github.com/ppopth/mceliece/random"
)

var log = logging.Logger("gf2n")

var (
	// ErrFieldMismatch reports an operation on elements of different fields.
	ErrFieldMismatch = errors.New("gf2n: elements belong to different fields")
	// ErrDegreeMismatch reports a conversion between fields of different degree.
	ErrDegreeMismatch = errors.New("gf2n: field degrees differ")
	// ErrZeroInverse reports inversion of the zero element.
	ErrZeroInverse = errors.New("gf2n: zero has no inverse")
	// ErrNoSolution reports a quadratic equation without solution in the field.
	ErrNoSolution = errors.New("gf2n: equation has no solution")
	// ErrUnsupportedDegree reports a degree the requested representation cannot serve.
	ErrUnsupportedDegree = errors.New("gf2n: unsupported degree")
	// ErrReducible reports a field polynomial that is not irreducible.
	ErrReducible = errors.New("gf2n: field polynomial is reducible")
	// ErrBudgetExhausted reports a randomized search that ran out of attempts.
	ErrBudgetExhausted = errors.New("gf2n: attempt budget exhausted")
	// ErrEncoding reports a malformed element encoding.
	ErrEncoding = errors.New("gf2n: malformed encoding")
)

// DefaultMaxAttempts bounds every randomized search unless overridden.
const DefaultMaxAttempts = 1 << 12

// Field is GF(2^n) in one of the two supported representations.
type Field interface {
	// Degree returns n.
	Degree() int
	// FieldPolynomial returns the minimal polynomial over GF(2) of the
	// basis generator: the reduction polynomial of a polynomial basis or
	// the minimal polynomial of the normal element of an ONB.
	FieldPolynomial() *gf2x.Polynomial
	// Zero returns the additive identity.
	Zero() Element
	// One returns the multiplicative identity.
	One() Element
	// Random returns a uniformly random element.
	Random(src random.Source) Element
	// ElementFromBytes decodes the big-endian encoding of Element.Bytes.
	ElementFromBytes(enc []byte) (Element, error)
	String() string

	base() *fieldBase
	wrap(bits *gf2x.Polynomial) Element
}

// Element is a member of a Field. Methods that combine two elements fail
// with ErrFieldMismatch unless both belong to the same field.
type Element interface {
	Field() Field
	Add(o Element) (Element, error)
	AddInPlace(o Element) error
	Multiply(o Element) (Element, error)
	MultiplyInPlace(o Element) error
	Square() Element
	SquareInPlace()
	SquareRoot() Element
	SquareRootInPlace()
	// Invert returns the multiplicative inverse or ErrZeroInverse.
	Invert() (Element, error)
	// Trace returns Tr(a) = a + a^2 + ... + a^(2^(n-1)), which is 0 or 1.
	Trace() uint
	// SolveQuadratic returns z with z^2 + z = a, or ErrNoSolution when
	// Tr(a) = 1.
	SolveQuadratic() (Element, error)
	IsZero() bool
	IsOne() bool
	Equal(o Element) bool
	Clone() Element
	// Bytes encodes the coordinate vector big-endian in ceil(n/8) bytes.
	Bytes() []byte
	// Bit returns coordinate i.
	Bit(i int) uint
	String() string

	bits() *gf2x.Polynomial
}

type options struct {
	src         random.Source
	maxAttempts int
}

// Option configures a field.
type Option func(*options) error

// WithMaxAttempts bounds the randomized searches of a field: random
// irreducible polynomial selection, random roots and quadratic solving.
func WithMaxAttempts(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("gf2n: attempt budget must be positive, got %d", n)
		}
		o.maxAttempts = n
		return nil
	}
}

// WithSource sets the random source of a field. The field serializes its
// own draws, so the source may be shared.
func WithSource(src random.Source) Option {
	return func(o *options) error {
		o.src = src
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
	if o.src == nil {
		o.src = random.NewSystem()
	}
	o.src = random.Locked(o.src)
	return o, nil
}

// fieldBase holds what both representations share: the degree, the field
// polynomial, the options and the change-of-basis cache.
type fieldBase struct {
	degree int
	poly   *gf2x.Polynomial
	opts   *options

	mu    sync.RWMutex
	bases map[Field]*gf2.Matrix
}

func (b *fieldBase) lookupBasis(target Field) (*gf2.Matrix, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	m, ok := b.bases[target]
	return m, ok
}

func (b *fieldBase) storeBasis(target Field, m *gf2.Matrix) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bases == nil {
		b.bases = make(map[Field]*gf2.Matrix)
	}
	b.bases[target] = m
}

// sameField reports whether a and b are the same field: the same
// representation over the same field polynomial.
func sameField(a, b Field) bool {
	if a == b {
		return true
	}
	switch a.(type) {
	case *PolynomialField:
		if _, ok := b.(*PolynomialField); !ok {
			return false
		}
	case *ONBField:
		if _, ok := b.(*ONBField); !ok {
			return false
		}
	}
	return a.Degree() == b.Degree() && a.base().poly.Equal(b.base().poly)
}

func checkField(a, b Element) error {
	if !sameField(a.Field(), b.Field()) {
		return fmt.Errorf("%w: %s and %s", ErrFieldMismatch, a.Field(), b.Field())
	}
	return nil
}

func decodeBits(n int, enc []byte) (*gf2x.Polynomial, error) {
	p, err := gf2x.FromBytes(n, enc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return p, nil
}
