package gf2n

import (
	"fmt"

	"github.com/ppopth/mceliece/gf2x"
	"github.com/ppopth/mceliece/random"
)

type reduction int

const (
	reduceTrinomial reduction = iota
	reducePentanomial
	reduceDense
)

// PolynomialField is GF(2^n) in polynomial basis: elements are polynomials
// over GF(2) of degree below n, reduced modulo an irreducible field
// polynomial of degree n.
type PolynomialField struct {
	fieldBase

	kind reduction
	k    [3]int
	// sqRows[j] has bit i set when x^(2i) mod f has bit j set. Only dense
	// field polynomials use it.
	sqRows []*gf2x.Polynomial
}

// NewPolynomialField returns GF(2^degree) over the irreducible trinomial
// x^n + x^k + 1 with the least k, or if none exists the irreducible
// pentanomial with the least (k1, k2, k3), or failing both a random
// irreducible polynomial.
func NewPolynomialField(degree int, opts ...Option) (*PolynomialField, error) {
	if degree < 2 {
		return nil, fmt.Errorf("%w: polynomial basis of degree %d", ErrUnsupportedDegree, degree)
	}
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	poly, err := selectFieldPolynomial(degree, o)
	if err != nil {
		return nil, err
	}
	return newPolynomialField(degree, poly, o), nil
}

// NewPolynomialFieldWithPoly returns GF(2^n) over the given field polynomial,
// which must be irreducible of degree at least 2.
func NewPolynomialFieldWithPoly(poly *gf2x.Polynomial, opts ...Option) (*PolynomialField, error) {
	poly = poly.Clone().Trim()
	degree := poly.Degree()
	if degree < 2 {
		return nil, fmt.Errorf("%w: field polynomial of degree %d", ErrUnsupportedDegree, degree)
	}
	if !poly.IsIrreducible() {
		return nil, fmt.Errorf("%w: %s", ErrReducible, poly)
	}
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return newPolynomialField(degree, poly, o), nil
}

func selectFieldPolynomial(n int, o *options) (*gf2x.Polynomial, error) {
	if p := trinomial(n); p != nil {
		log.Debugf("GF(2^%d): selected trinomial %s", n, p)
		return p, nil
	}
	if p := pentanomial(n); p != nil {
		log.Debugf("GF(2^%d): selected pentanomial %s", n, p)
		return p, nil
	}
	for i := 0; i < o.maxAttempts; i++ {
		p := gf2x.Random(n+1, o.src)
		p.SetBit(n)
		p.SetBit(0)
		if p.IsIrreducible() {
			log.Debugf("GF(2^%d): selected random polynomial %s after %d attempts", n, p, i+1)
			return p, nil
		}
	}
	log.Warnf("GF(2^%d): no irreducible polynomial in %d attempts", n, o.maxAttempts)
	return nil, fmt.Errorf("%w: random field polynomial of degree %d", ErrBudgetExhausted, n)
}

func sparse(n int, ks ...int) *gf2x.Polynomial {
	p := gf2x.New(n + 1)
	p.SetBit(n)
	p.SetBit(0)
	for _, k := range ks {
		p.SetBit(k)
	}
	return p
}

func trinomial(n int) *gf2x.Polynomial {
	for k := 1; k < n; k++ {
		if p := sparse(n, k); p.IsIrreducible() {
			return p
		}
	}
	return nil
}

func pentanomial(n int) *gf2x.Polynomial {
	for k1 := 1; k1 < n-2; k1++ {
		for k2 := k1 + 1; k2 < n-1; k2++ {
			for k3 := k2 + 1; k3 < n; k3++ {
				if p := sparse(n, k1, k2, k3); p.IsIrreducible() {
					return p
				}
			}
		}
	}
	return nil
}

func newPolynomialField(n int, poly *gf2x.Polynomial, o *options) *PolynomialField {
	f := &PolynomialField{fieldBase: fieldBase{degree: n, poly: poly, opts: o}}
	var mid []int
	for i := 1; i < n; i++ {
		if poly.Bit(i) != 0 {
			mid = append(mid, i)
		}
	}
	switch len(mid) {
	case 1:
		f.kind = reduceTrinomial
		f.k[0] = mid[0]
	case 3:
		f.kind = reducePentanomial
		copy(f.k[:], mid)
	default:
		f.kind = reduceDense
		f.sqRows = squaringRows(poly)
	}
	return f
}

// squaringRows returns the GF(2) squaring matrix of GF(2)[x]/f row by row.
func squaringRows(f *gf2x.Polynomial) []*gf2x.Polynomial {
	n := f.Degree()
	rows := make([]*gf2x.Polynomial, n)
	for j := range rows {
		rows[j] = gf2x.New(n)
	}
	s := gf2x.One(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if s.Bit(j) != 0 {
				rows[j].SetBit(i)
			}
		}
		s = s.ShiftLeftBy(2)
		s, _ = s.Remainder(f)
	}
	return rows
}

// reduce returns p mod f as a polynomial of nominal length n.
func (f *PolynomialField) reduce(p *gf2x.Polynomial) *gf2x.Polynomial {
	n := f.degree
	switch f.kind {
	case reduceTrinomial:
		p.ReduceTrinomial(n, f.k[0])
	case reducePentanomial:
		p.ReducePentanomial(n, f.k[0], f.k[1], f.k[2])
	default:
		p, _ = p.Remainder(f.poly)
		p.Expand(n)
	}
	return p
}

func (f *PolynomialField) base() *fieldBase { return &f.fieldBase }

func (f *PolynomialField) wrap(bits *gf2x.Polynomial) Element {
	return &PolyElement{field: f, v: bits}
}

// Degree returns n.
func (f *PolynomialField) Degree() int { return f.degree }

// FieldPolynomial returns the reduction polynomial.
func (f *PolynomialField) FieldPolynomial() *gf2x.Polynomial { return f.poly.Clone() }

// Zero returns the additive identity.
func (f *PolynomialField) Zero() Element { return f.wrap(gf2x.New(f.degree)) }

// One returns the multiplicative identity.
func (f *PolynomialField) One() Element { return f.wrap(gf2x.One(f.degree)) }

// Random returns a uniformly random element.
func (f *PolynomialField) Random(src random.Source) Element {
	return f.wrap(gf2x.Random(f.degree, src))
}

// ElementFromBytes decodes an element written by Bytes.
func (f *PolynomialField) ElementFromBytes(enc []byte) (Element, error) {
	p, err := decodeBits(f.degree, enc)
	if err != nil {
		return nil, err
	}
	return f.wrap(p), nil
}

func (f *PolynomialField) String() string {
	return fmt.Sprintf("GF(2^%d) polynomial basis mod %s", f.degree, f.poly)
}

// PolyElement is an element of a PolynomialField.
type PolyElement struct {
	field *PolynomialField
	v     *gf2x.Polynomial
}

func (e *PolyElement) bits() *gf2x.Polynomial { return e.v }

// Field returns the field of e.
func (e *PolyElement) Field() Field { return e.field }

// Add returns e + o.
func (e *PolyElement) Add(o Element) (Element, error) {
	r := e.Clone()
	if err := r.AddInPlace(o); err != nil {
		return nil, err
	}
	return r, nil
}

// AddInPlace sets e to e + o.
func (e *PolyElement) AddInPlace(o Element) error {
	if err := checkField(e, o); err != nil {
		return err
	}
	e.v.AddInPlace(o.bits())
	return nil
}

// Multiply returns e * o reduced by the field polynomial.
func (e *PolyElement) Multiply(o Element) (Element, error) {
	r := e.Clone()
	if err := r.MultiplyInPlace(o); err != nil {
		return nil, err
	}
	return r, nil
}

// MultiplyInPlace sets e to e * o.
func (e *PolyElement) MultiplyInPlace(o Element) error {
	if err := checkField(e, o); err != nil {
		return err
	}
	e.v = e.field.reduce(e.v.Multiply(o.bits()))
	return nil
}

// Square returns e^2.
func (e *PolyElement) Square() Element {
	r := e.Clone()
	r.SquareInPlace()
	return r
}

// SquareInPlace sets e to e^2.
func (e *PolyElement) SquareInPlace() {
	if e.field.kind == reduceDense {
		e.v = e.v.SquareMatrix(e.field.sqRows)
		return
	}
	e.v = e.field.reduce(e.v.SquareTable())
}

// SquareRoot returns the unique square root of e.
func (e *PolyElement) SquareRoot() Element {
	r := e.Clone()
	r.SquareRootInPlace()
	return r
}

// SquareRootInPlace sets e to e^(2^(n-1)).
func (e *PolyElement) SquareRootInPlace() {
	for i := 1; i < e.field.degree; i++ {
		e.SquareInPlace()
	}
}

// Invert returns e^-1 by the modified almost inverse algorithm.
func (e *PolyElement) Invert() (Element, error) {
	return e.InvertMAIA()
}

// InvertEEA returns e^-1 by the extended Euclidean algorithm.
func (e *PolyElement) InvertEEA() (Element, error) {
	if e.IsZero() {
		return nil, ErrZeroInverse
	}
	n := e.field.degree
	b, c := gf2x.One(n+1), gf2x.New(n+1)
	u, v := e.v.Clone().Trim(), e.field.poly.Clone()
	// b*e = u and c*e = v modulo f
	for u.Degree() > 0 {
		j := u.Degree() - v.Degree()
		if j < 0 {
			u, v = v, u
			b, c = c, b
			j = -j
		}
		u.ShiftLeftAddInPlace(v, j)
		b.ShiftLeftAddInPlace(c, j)
	}
	return e.field.wrap(e.field.reduce(b)), nil
}

// InvertMAIA returns e^-1 by the modified almost inverse algorithm, which
// divides by x instead of tracking a power of x.
func (e *PolyElement) InvertMAIA() (Element, error) {
	if e.IsZero() {
		return nil, ErrZeroInverse
	}
	f := e.field.poly
	n := e.field.degree
	b, c := gf2x.One(n+1), gf2x.New(n+1)
	u, v := e.v.Clone().Trim(), f.Clone()
	for {
		for u.Bit(0) == 0 {
			u = u.ShiftRight()
			if b.Bit(0) != 0 {
				b.AddInPlace(f)
			}
			b = b.ShiftRight()
		}
		if u.IsOne() {
			break
		}
		if u.Degree() < v.Degree() {
			u, v = v, u
			b, c = c, b
		}
		u.AddInPlace(v)
		b.AddInPlace(c)
	}
	return e.field.wrap(e.field.reduce(b)), nil
}

// InvertSquare returns e^(2^n - 2) = e^-1 by repeated squaring.
func (e *PolyElement) InvertSquare() (Element, error) {
	if e.IsZero() {
		return nil, ErrZeroInverse
	}
	t := e.Square().(*PolyElement)
	res := t.Clone().(*PolyElement)
	for i := 2; i < e.field.degree; i++ {
		t.SquareInPlace()
		res.v = e.field.reduce(res.v.Multiply(t.v))
	}
	return res, nil
}

// Trace returns the absolute trace of e.
func (e *PolyElement) Trace() uint {
	t := e.Clone().(*PolyElement)
	acc := e.v.Clone()
	for i := 1; i < e.field.degree; i++ {
		t.SquareInPlace()
		acc.AddInPlace(t.v)
	}
	return acc.Bit(0)
}

// SolveQuadratic returns a root z of z^2 + z = e. For odd n it is the
// half-trace of e; for even n a random element drives the construction of
// IEEE 1363 A.4.7.
func (e *PolyElement) SolveQuadratic() (Element, error) {
	if e.Trace() != 0 {
		return nil, ErrNoSolution
	}
	if e.IsZero() {
		return e.field.Zero(), nil
	}
	n := e.field.degree
	if n%2 == 1 {
		z := e.Clone().(*PolyElement)
		t := e.Clone().(*PolyElement)
		for i := 1; i <= (n-1)/2; i++ {
			t.SquareInPlace()
			t.SquareInPlace()
			z.v.AddInPlace(t.v)
		}
		return z, nil
	}

	opts := e.field.opts
	for attempt := 0; attempt < opts.maxAttempts; attempt++ {
		tau := e.field.Random(opts.src).(*PolyElement)
		z := e.field.Zero().(*PolyElement)
		w := e.Clone().(*PolyElement)
		for i := 1; i < n; i++ {
			w.SquareInPlace()
			z.SquareInPlace()
			z.v.AddInPlace(e.field.reduce(w.v.Multiply(tau.v)))
			w.v.AddInPlace(e.v)
		}
		if !w.IsZero() {
			// w is Tr(e), which is zero here
			return nil, ErrNoSolution
		}
		check := z.Square().(*PolyElement)
		check.v.AddInPlace(z.v)
		if !check.IsZero() {
			return z, nil
		}
	}
	log.Warnf("%s: quadratic solving exhausted %d attempts", e.field, opts.maxAttempts)
	return nil, fmt.Errorf("%w: solving z^2 + z = %s", ErrBudgetExhausted, e)
}

// IsZero reports whether e is zero.
func (e *PolyElement) IsZero() bool { return e.v.IsZero() }

// IsOne reports whether e is one.
func (e *PolyElement) IsOne() bool { return e.v.IsOne() }

// Equal reports whether o is the same element of the same field.
func (e *PolyElement) Equal(o Element) bool {
	return o != nil && sameField(e.field, o.Field()) && e.v.Equal(o.bits())
}

// Clone returns a deep copy of e.
func (e *PolyElement) Clone() Element {
	return &PolyElement{field: e.field, v: e.v.Clone()}
}

// Bytes encodes e big-endian in ceil(n/8) bytes.
func (e *PolyElement) Bytes() []byte { return e.v.Bytes() }

// Bit returns the coefficient of x^i.
func (e *PolyElement) Bit(i int) uint { return e.v.Bit(i) }

// String returns the hex form of the coordinates.
func (e *PolyElement) String() string { return e.v.String() }
