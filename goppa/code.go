package goppa

import (
	"context"
	"fmt"

	"github.com/ppopth/mceliece/gf2"
	"github.com/ppopth/mceliece/gf2m"
	"github.com/ppopth/mceliece/random"
)

// Code is a generated Goppa code with everything decoding needs.
type Code struct {
	Params     Params
	Field      *gf2m.Field
	Goppa      *gf2m.Poly
	Ring       *gf2m.Ring
	H          *gf2.Matrix
	Systematic *SystematicForm
}

// Generate builds a random code for params: the field GF(2^m) over its least
// irreducible polynomial, a random monic irreducible Goppa polynomial of
// degree t, the square-root matrix modulo it, the canonical check matrix and
// a systematic form of that matrix.
func Generate(ctx context.Context, params Params, src random.Source, opts ...Option) (*Code, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	field, err := gf2m.NewField(params.M)
	if err != nil {
		return nil, err
	}
	g, err := gf2m.RandomIrreduciblePoly(field, params.T, src)
	if err != nil {
		return nil, fmt.Errorf("goppa polynomial: %w", err)
	}
	ring, err := gf2m.NewRing(field, g)
	if err != nil {
		return nil, err
	}
	h, err := CreateCanonicalCheckMatrix(field, g)
	if err != nil {
		return nil, err
	}
	sys, err := ComputeSystematicForm(ctx, h, src, opts...)
	if err != nil {
		return nil, err
	}
	log.Debugf("generated Goppa code %s", params)
	return &Code{
		Params:     params,
		Field:      field,
		Goppa:      g,
		Ring:       ring,
		H:          h,
		Systematic: sys,
	}, nil
}

// Syndrome returns H*e for an error vector of length n.
func (c *Code) Syndrome(e *gf2.Vector) (*gf2.Vector, error) {
	if e.Len() != c.Params.N() {
		return nil, fmt.Errorf("%w: %d-bit error vector for n = %d", ErrDimension, e.Len(), c.Params.N())
	}
	return c.H.MultiplyVector(e)
}

// Decode returns the error vector of weight at most t with the given
// syndrome.
func (c *Code) Decode(s *gf2.Vector) (*gf2.Vector, error) {
	return SyndromeDecode(s, c.Field, c.Goppa, c.Ring.SquareRootMatrix())
}

// RandomError returns a random error vector of weight t.
func (c *Code) RandomError(src random.Source) (*gf2.Vector, error) {
	return gf2.NewRandomWeightVector(c.Params.N(), c.Params.T, src)
}
