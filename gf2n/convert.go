package gf2n

import (
	"fmt"
	"sync"

	"github.com/ppopth/mceliece/gf2"
	"github.com/ppopth/mceliece/gf2x"
)

// fillMu serializes cache fills so both directions of a field pair always
// come from the same root.
var fillMu sync.Mutex

// Convert returns e expressed in target, a field of the same degree. The
// change-of-basis matrix is computed on first use for a pair of fields and
// cached on both, together with its inverse for the opposite direction.
func Convert(e Element, target Field) (Element, error) {
	src := e.Field()
	if src.Degree() != target.Degree() {
		return nil, fmt.Errorf("%w: %s to %s", ErrDegreeMismatch, src, target)
	}
	if sameField(src, target) {
		return target.wrap(e.bits().Clone()), nil
	}
	m, err := basisMatrix(src, target)
	if err != nil {
		return nil, err
	}
	n := src.Degree()
	v, err := gf2.VectorFromWords(n, e.bits().Words())
	if err != nil {
		return nil, err
	}
	w, err := m.MultiplyVector(v)
	if err != nil {
		return nil, err
	}
	p, err := gf2x.FromWords(n, w.Words())
	if err != nil {
		return nil, err
	}
	return target.wrap(p), nil
}

// basisMatrix returns the matrix whose column i holds the target
// coordinates of basis element i of src.
func basisMatrix(src, target Field) (*gf2.Matrix, error) {
	if m, ok := src.base().lookupBasis(target); ok {
		return m, nil
	}
	fillMu.Lock()
	defer fillMu.Unlock()
	if m, ok := src.base().lookupBasis(target); ok {
		return m, nil
	}

	r, err := RandomRoot(target, src.FieldPolynomial())
	if err != nil {
		return nil, fmt.Errorf("change of basis from %s to %s: %w", src, target, err)
	}
	n := src.Degree()
	images := make([]Element, n)
	switch src.(type) {
	case *ONBField:
		// basis b^(2^i)
		images[0] = r
		for i := 1; i < n; i++ {
			images[i] = images[i-1].Square()
		}
	default:
		// basis x^i
		images[0] = target.One()
		for i := 1; i < n; i++ {
			images[i] = mustMul(images[i-1], r)
		}
	}
	m := gf2.NewMatrix(n, n)
	for i, img := range images {
		for j := 0; j < n; j++ {
			if img.Bit(j) != 0 {
				m.SetBit(j, i)
			}
		}
	}
	inv, err := m.Inverse()
	if err != nil {
		return nil, fmt.Errorf("change of basis from %s to %s: %w", src, target, err)
	}
	src.base().storeBasis(target, m)
	target.base().storeBasis(src, inv)
	log.Debugf("cached change of basis from %s to %s", src, target)
	return m, nil
}
