package gf2n

import (
	"fmt"
	"strings"

	"github.com/ppopth/mceliece/gf2x"
)

// Polynomial is a polynomial over a Field. Coefficients are kept trimmed so
// the last one is non-zero; the zero polynomial has none.
type Polynomial struct {
	field  Field
	coeffs []Element
}

// NewPolynomial returns the polynomial with the given coefficients, lowest
// degree first. Every coefficient must belong to f.
func NewPolynomial(f Field, coeffs []Element) (*Polynomial, error) {
	cs := make([]Element, len(coeffs))
	for i, c := range coeffs {
		if !sameField(f, c.Field()) {
			return nil, fmt.Errorf("%w: coefficient %d over %s, want %s", ErrFieldMismatch, i, c.Field(), f)
		}
		cs[i] = c.Clone()
	}
	return newPolynomial(f, cs), nil
}

func newPolynomial(f Field, coeffs []Element) *Polynomial {
	n := len(coeffs)
	for n > 0 && coeffs[n-1].IsZero() {
		n--
	}
	return &Polynomial{field: f, coeffs: coeffs[:n]}
}

// LiftPolynomial returns g, a polynomial over GF(2), as a polynomial over f.
func LiftPolynomial(f Field, g *gf2x.Polynomial) *Polynomial {
	d := g.Degree()
	coeffs := make([]Element, d+1)
	for i := range coeffs {
		if g.Bit(i) != 0 {
			coeffs[i] = f.One()
		} else {
			coeffs[i] = f.Zero()
		}
	}
	return newPolynomial(f, coeffs)
}

// Field returns the coefficient field.
func (p *Polynomial) Field() Field { return p.field }

// Degree returns the degree of p, -1 for the zero polynomial.
func (p *Polynomial) Degree() int { return len(p.coeffs) - 1 }

// IsZero reports whether p is the zero polynomial.
func (p *Polynomial) IsZero() bool { return len(p.coeffs) == 0 }

// At returns a copy of the coefficient of t^i.
func (p *Polynomial) At(i int) Element {
	if i < 0 || i >= len(p.coeffs) {
		return p.field.Zero()
	}
	return p.coeffs[i].Clone()
}

// Set replaces the coefficient of t^i.
func (p *Polynomial) Set(i int, e Element) error {
	if i < 0 {
		return fmt.Errorf("gf2n: negative coefficient index %d", i)
	}
	if !sameField(p.field, e.Field()) {
		return fmt.Errorf("%w: coefficient over %s, want %s", ErrFieldMismatch, e.Field(), p.field)
	}
	for len(p.coeffs) <= i {
		p.coeffs = append(p.coeffs, p.field.Zero())
	}
	p.coeffs[i] = e.Clone()
	*p = *newPolynomial(p.field, p.coeffs)
	return nil
}

func (p *Polynomial) check(o *Polynomial) error {
	if !sameField(p.field, o.field) {
		return fmt.Errorf("%w: polynomials over %s and %s", ErrFieldMismatch, p.field, o.field)
	}
	return nil
}

// Coefficient arithmetic below runs on elements already checked to share
// one field, so mismatches are programming errors.

func mustAdd(a, b Element) {
	if err := a.AddInPlace(b); err != nil {
		panic(err)
	}
}

func mustMul(a, b Element) Element {
	r, err := a.Multiply(b)
	if err != nil {
		panic(err)
	}
	return r
}

// Clone returns a deep copy of p.
func (p *Polynomial) Clone() *Polynomial {
	cs := make([]Element, len(p.coeffs))
	for i, c := range p.coeffs {
		cs[i] = c.Clone()
	}
	return &Polynomial{field: p.field, coeffs: cs}
}

// Add returns p + o.
func (p *Polynomial) Add(o *Polynomial) (*Polynomial, error) {
	if err := p.check(o); err != nil {
		return nil, err
	}
	return p.add(o), nil
}

func (p *Polynomial) add(o *Polynomial) *Polynomial {
	a, b := p, o
	if len(a.coeffs) < len(b.coeffs) {
		a, b = b, a
	}
	res := a.Clone()
	for i, c := range b.coeffs {
		mustAdd(res.coeffs[i], c)
	}
	return newPolynomial(p.field, res.coeffs)
}

// ScalarMultiply returns e*p.
func (p *Polynomial) ScalarMultiply(e Element) (*Polynomial, error) {
	if !sameField(p.field, e.Field()) {
		return nil, fmt.Errorf("%w: scalar over %s, want %s", ErrFieldMismatch, e.Field(), p.field)
	}
	return p.scale(e), nil
}

func (p *Polynomial) scale(e Element) *Polynomial {
	cs := make([]Element, len(p.coeffs))
	for i, c := range p.coeffs {
		cs[i] = mustMul(c, e)
	}
	return newPolynomial(p.field, cs)
}

// Multiply returns p*o.
func (p *Polynomial) Multiply(o *Polynomial) (*Polynomial, error) {
	if err := p.check(o); err != nil {
		return nil, err
	}
	return p.multiply(o), nil
}

func (p *Polynomial) multiply(o *Polynomial) *Polynomial {
	if p.IsZero() || o.IsZero() {
		return newPolynomial(p.field, nil)
	}
	cs := make([]Element, len(p.coeffs)+len(o.coeffs)-1)
	for i := range cs {
		cs[i] = p.field.Zero()
	}
	for i, a := range p.coeffs {
		if a.IsZero() {
			continue
		}
		for j, b := range o.coeffs {
			mustAdd(cs[i+j], mustMul(a, b))
		}
	}
	return newPolynomial(p.field, cs)
}

// Square returns p^2, squaring every coefficient in place of a full product.
func (p *Polynomial) Square() *Polynomial {
	if p.IsZero() {
		return newPolynomial(p.field, nil)
	}
	cs := make([]Element, 2*len(p.coeffs)-1)
	for i := range cs {
		if i%2 == 0 {
			cs[i] = p.coeffs[i/2].Square()
		} else {
			cs[i] = p.field.Zero()
		}
	}
	return newPolynomial(p.field, cs)
}

// MultiplyAndReduce returns p*o mod g.
func (p *Polynomial) MultiplyAndReduce(o, g *Polynomial) (*Polynomial, error) {
	if err := p.check(o); err != nil {
		return nil, err
	}
	if err := p.check(g); err != nil {
		return nil, err
	}
	if g.IsZero() {
		return nil, fmt.Errorf("%w: reduction modulo the zero polynomial", ErrZeroInverse)
	}
	var prod *Polynomial
	if p == o {
		prod = p.Square()
	} else {
		prod = p.multiply(o)
	}
	_, r := prod.divMod(g)
	return r, nil
}

// DivMod returns the quotient and remainder of p divided by d.
func (p *Polynomial) DivMod(d *Polynomial) (q, r *Polynomial, err error) {
	if err := p.check(d); err != nil {
		return nil, nil, err
	}
	if d.IsZero() {
		return nil, nil, fmt.Errorf("%w: division by the zero polynomial", ErrZeroInverse)
	}
	q, r = p.divMod(d)
	return q, r, nil
}

func (p *Polynomial) divMod(d *Polynomial) (q, r *Polynomial) {
	dd := d.Degree()
	inv, err := d.coeffs[dd].Invert()
	if err != nil {
		panic(err)
	}
	rem := p.Clone().coeffs
	qd := len(rem) - dd
	if qd < 0 {
		qd = 0
	}
	quo := make([]Element, qd)
	for i := range quo {
		quo[i] = p.field.Zero()
	}
	for i := len(rem) - 1; i >= dd; i-- {
		if rem[i].IsZero() {
			continue
		}
		c := mustMul(rem[i], inv)
		quo[i-dd] = c
		for j, b := range d.coeffs {
			mustAdd(rem[i-dd+j], mustMul(c, b))
		}
	}
	return newPolynomial(p.field, quo), newPolynomial(p.field, rem[:min(dd, len(rem))])
}

// Quotient returns p div d.
func (p *Polynomial) Quotient(d *Polynomial) (*Polynomial, error) {
	q, _, err := p.DivMod(d)
	return q, err
}

// Remainder returns p mod d.
func (p *Polynomial) Remainder(d *Polynomial) (*Polynomial, error) {
	_, r, err := p.DivMod(d)
	return r, err
}

// Monic returns p divided by its leading coefficient. The zero polynomial
// has no monic form.
func (p *Polynomial) Monic() (*Polynomial, error) {
	if p.IsZero() {
		return nil, fmt.Errorf("%w: monic form of the zero polynomial", ErrZeroInverse)
	}
	inv, err := p.coeffs[len(p.coeffs)-1].Invert()
	if err != nil {
		return nil, err
	}
	return p.scale(inv), nil
}

// GCD returns the monic greatest common divisor of p and o, or the zero
// polynomial when both are zero.
func (p *Polynomial) GCD(o *Polynomial) (*Polynomial, error) {
	if err := p.check(o); err != nil {
		return nil, err
	}
	a, b := p, o
	for !b.IsZero() {
		_, r := a.divMod(b)
		a, b = b, r
	}
	if a.IsZero() {
		return a, nil
	}
	return a.Monic()
}

// Equal reports whether p and o have the same coefficients over the same
// field.
func (p *Polynomial) Equal(o *Polynomial) bool {
	if o == nil || !sameField(p.field, o.field) || len(p.coeffs) != len(o.coeffs) {
		return false
	}
	for i, c := range p.coeffs {
		if !c.Equal(o.coeffs[i]) {
			return false
		}
	}
	return true
}

func (p *Polynomial) String() string {
	if p.IsZero() {
		return "0"
	}
	var terms []string
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		c := p.coeffs[i]
		if c.IsZero() {
			continue
		}
		terms = append(terms, fmt.Sprintf("(%s)t^%d", c, i))
	}
	return strings.Join(terms, " + ")
}
