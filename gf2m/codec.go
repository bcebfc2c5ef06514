package gf2m

import "fmt"

// elementSize is the number of bytes holding one element of f.
func (f *Field) elementSize() int {
	return (f.degree + 7) >> 3
}

// encodeElements packs every element in elementSize little-endian bytes.
func encodeElements(f *Field, elems []int) []byte {
	size := f.elementSize()
	out := make([]byte, len(elems)*size)
	for i, e := range elems {
		for b := 0; b < size; b++ {
			out[i*size+b] = byte(e >> (8 * uint(b)))
		}
	}
	return out
}

func decodeElements(f *Field, enc []byte) ([]int, error) {
	size := f.elementSize()
	if len(enc)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrEncoding, len(enc), size)
	}
	elems := make([]int, len(enc)/size)
	for i := range elems {
		e := 0
		for b := size - 1; b >= 0; b-- {
			e = e<<8 | int(enc[i*size+b])
		}
		if !f.Contains(e) {
			return nil, fmt.Errorf("%w: element %d = %#x outside GF(2^%d)", ErrEncoding, i, e, f.degree)
		}
		elems[i] = e
	}
	return elems, nil
}
