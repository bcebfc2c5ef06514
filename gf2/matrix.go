package gf2

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"strings"

	"github.com/ppopth/mceliece/internal/parallel"
	"github.com/ppopth/mceliece/random"
)

// Matrix is a rows x cols matrix over GF(2), stored as one packed row per
// matrix row. Every row has the same number of words.
type Matrix struct {
	rows, cols int
	data       [][]uint32
}

// NewMatrix returns the rows x cols zero matrix.
func NewMatrix(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic("gf2: negative matrix dimension")
	}
	m := &Matrix{rows: rows, cols: cols, data: make([][]uint32, rows)}
	wc := wordCount(cols)
	for i := range m.data {
		m.data[i] = make([]uint32, wc)
	}
	return m
}

// Identity returns the n x n identity matrix.
func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		setBit(m.data[i], i)
	}
	return m
}

// RandomMatrix returns a rows x cols matrix with uniformly random entries.
func RandomMatrix(rows, cols int, src random.Source) *Matrix {
	m := NewMatrix(rows, cols)
	if cols == 0 {
		return m
	}
	for _, row := range m.data {
		for j := range row {
			row[j] = uint32(src.NextLong())
		}
		row[len(row)-1] &= lastMask(cols)
	}
	return m
}

// RandomLowerTriangular returns a random n x n lower triangular matrix with
// a unit diagonal.
func RandomLowerTriangular(n int, src random.Source) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		q, r := i>>5, uint(i&31)
		for j := 0; j < q; j++ {
			m.data[i][j] = uint32(src.NextLong())
		}
		m.data[i][q] = uint32(src.NextLong())>>(31-r) | 1<<r
	}
	return m
}

// RandomUpperTriangular returns a random n x n upper triangular matrix with
// a unit diagonal.
func RandomUpperTriangular(n int, src random.Source) *Matrix {
	m := NewMatrix(n, n)
	wc := wordCount(n)
	for i := 0; i < n; i++ {
		q, r := i>>5, uint(i&31)
		m.data[i][q] = uint32(src.NextLong())<<r | 1<<r
		for j := q + 1; j < wc; j++ {
			m.data[i][j] = uint32(src.NextLong())
		}
		m.data[i][wc-1] &= lastMask(n)
	}
	return m
}

// RandomRegular returns a random invertible n x n matrix built as L*U*P for
// random unit triangular L, U and a random permutation P.
func RandomRegular(n int, src random.Source) *Matrix {
	l := RandomLowerTriangular(n, src)
	u := RandomUpperTriangular(n, src)
	lu, _ := l.Multiply(u)
	res, _ := lu.PermuteColumns(RandomPermutation(n, src))
	return res
}

// MatrixFromRows builds a matrix whose rows are copies of the given vectors.
func MatrixFromRows(rows []*Vector) (*Matrix, error) {
	if len(rows) == 0 {
		return NewMatrix(0, 0), nil
	}
	m := NewMatrix(len(rows), rows[0].length)
	for i, r := range rows {
		if r.length != m.cols {
			return nil, fmt.Errorf("%w: row %d has %d bits, want %d", ErrDimension, i, r.length, m.cols)
		}
		copy(m.data[i], r.words)
	}
	return m, nil
}

func readHeader(enc []byte) (rows, cols int, err error) {
	if len(enc) < 8 {
		return 0, 0, fmt.Errorf("%w: matrix header truncated", ErrEncoding)
	}
	r := binary.LittleEndian.Uint32(enc[0:])
	c := binary.LittleEndian.Uint32(enc[4:])
	if r > 1<<30 || c > 1<<30 {
		return 0, 0, fmt.Errorf("%w: matrix dimension %dx%d", ErrEncoding, r, c)
	}
	return int(r), int(c), nil
}

// MatrixFromBytes decodes the encoding produced by Bytes:
// [rows:4 LE][cols:4 LE] followed by each row in ceil(cols/8) little-endian
// bytes.
func MatrixFromBytes(enc []byte) (*Matrix, error) {
	rows, cols, err := readHeader(enc)
	if err != nil {
		return nil, err
	}
	rowBytes := (cols + 7) >> 3
	if int64(len(enc)) != 8+int64(rows)*int64(rowBytes) {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d matrix", ErrEncoding, len(enc), rows, cols)
	}
	m := NewMatrix(rows, cols)
	off := 8
	for i := 0; i < rows; i++ {
		v, err := VectorFromBytes(cols, enc[off:off+rowBytes])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		m.data[i] = v.words
		off += rowBytes
	}
	return m, nil
}

// Bytes encodes m as [rows:4 LE][cols:4 LE] followed by each row packed in
// ceil(cols/8) little-endian bytes.
func (m *Matrix) Bytes() []byte {
	rowBytes := (m.cols + 7) >> 3
	out := make([]byte, 8, 8+m.rows*rowBytes)
	binary.LittleEndian.PutUint32(out[0:], uint32(m.rows))
	binary.LittleEndian.PutUint32(out[4:], uint32(m.cols))
	for i := range m.data {
		out = append(out, (&Vector{length: m.cols, words: m.data[i]}).Bytes()...)
	}
	return out
}

// MatrixFromWordBytes decodes the encoding produced by WordBytes.
func MatrixFromWordBytes(enc []byte) (*Matrix, error) {
	rows, cols, err := readHeader(enc)
	if err != nil {
		return nil, err
	}
	wc := wordCount(cols)
	if int64(len(enc)) != 8+4*int64(rows)*int64(wc) {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d matrix", ErrEncoding, len(enc), rows, cols)
	}
	m := NewMatrix(rows, cols)
	off := 8
	for i := 0; i < rows; i++ {
		for j := 0; j < wc; j++ {
			m.data[i][j] = binary.LittleEndian.Uint32(enc[off:])
			off += 4
		}
		if wc > 0 && m.data[i][wc-1]&^lastMask(cols) != 0 {
			return nil, fmt.Errorf("%w: unused bits set in row %d", ErrEncoding, i)
		}
	}
	return m, nil
}

// WordBytes encodes m as [rows:4 LE][cols:4 LE] followed by the packed
// 32-bit words of every row, little-endian, row-major.
func (m *Matrix) WordBytes() []byte {
	wc := wordCount(m.cols)
	out := make([]byte, 8+4*m.rows*wc)
	binary.LittleEndian.PutUint32(out[0:], uint32(m.rows))
	binary.LittleEndian.PutUint32(out[4:], uint32(m.cols))
	off := 8
	for _, row := range m.data {
		for _, w := range row {
			binary.LittleEndian.PutUint32(out[off:], w)
			off += 4
		}
	}
	return out
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Row returns a copy of row i.
func (m *Matrix) Row(i int) *Vector {
	return &Vector{length: m.cols, words: append([]uint32(nil), m.data[i]...)}
}

// Bit returns the entry at row i, column j.
func (m *Matrix) Bit(i, j int) uint {
	m.checkIndex(i, j)
	return uint(getBit(m.data[i], j))
}

// SetBit sets the entry at row i, column j to 1.
func (m *Matrix) SetBit(i, j int) {
	m.checkIndex(i, j)
	setBit(m.data[i], j)
}

func (m *Matrix) checkIndex(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("gf2: index (%d,%d) out of range for %dx%d matrix", i, j, m.rows, m.cols))
	}
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	res := &Matrix{rows: m.rows, cols: m.cols, data: make([][]uint32, m.rows)}
	for i, row := range m.data {
		res.data[i] = append([]uint32(nil), row...)
	}
	return res
}

// Equal reports whether m and o have the same shape and entries.
func (m *Matrix) Equal(o *Matrix) bool {
	if o == nil || m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i := range m.data {
		for j := range m.data[i] {
			if m.data[i][j] != o.data[i][j] {
				return false
			}
		}
	}
	return true
}

// IsIdentity reports whether m is a square identity matrix.
func (m *Matrix) IsIdentity() bool {
	return m.rows == m.cols && m.Equal(Identity(m.rows))
}

// HammingWeightRatio returns the fraction of non-zero entries.
func (m *Matrix) HammingWeightRatio() float64 {
	if m.rows == 0 || m.cols == 0 {
		return 0
	}
	ones := 0
	for _, row := range m.data {
		ones += onesCount(row)
	}
	return float64(ones) / float64(m.rows*m.cols)
}

// Multiply returns m * o. Rows of the product are computed in parallel.
func (m *Matrix) Multiply(o *Matrix) (*Matrix, error) {
	if m.cols != o.rows {
		return nil, fmt.Errorf("%w: %dx%d times %dx%d", ErrDimension, m.rows, m.cols, o.rows, o.cols)
	}
	res := NewMatrix(m.rows, o.cols)
	parallel.For(m.rows, 0, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			acc := res.data[i]
			for q, w := range m.data[i] {
				for w != 0 {
					k := q<<5 + bits.TrailingZeros32(w)
					for j, x := range o.data[k] {
						acc[j] ^= x
					}
					w &= w - 1
				}
			}
		}
	})
	return res, nil
}

// MultiplyVector returns m * v for a column vector v. Each output bit is the
// parity of a row ANDed with v.
func (m *Matrix) MultiplyVector(v *Vector) (*Vector, error) {
	if v.length != m.cols {
		return nil, fmt.Errorf("%w: %dx%d matrix times %d-bit vector", ErrDimension, m.rows, m.cols, v.length)
	}
	res := NewVector(m.rows)
	// one output word per task keeps writers disjoint
	parallel.For(len(res.words), 0, func(lo, hi int) {
		for q := lo; q < hi; q++ {
			var out uint32
			for i := q << 5; i < min(q<<5+32, m.rows); i++ {
				var acc uint32
				for j, w := range m.data[i] {
					acc ^= w & v.words[j]
				}
				out |= parity(acc) << uint(i&31)
			}
			res.words[q] = out
		}
	})
	return res, nil
}

// VectorMultiply returns v * m for a row vector v.
func (m *Matrix) VectorMultiply(v *Vector) (*Vector, error) {
	if v.length != m.rows {
		return nil, fmt.Errorf("%w: %d-bit vector times %dx%d matrix", ErrDimension, v.length, m.rows, m.cols)
	}
	res := NewVector(m.cols)
	parallel.For(len(res.words), 0, func(lo, hi int) {
		v.SetBits(func(i int) {
			row := m.data[i]
			for j := lo; j < hi; j++ {
				res.words[j] ^= row[j]
			}
		})
	})
	return res, nil
}

// PermuteRows returns P * m: row i of the result is row p[i] of m.
func (m *Matrix) PermuteRows(p *Permutation) (*Matrix, error) {
	if p.Len() != m.rows {
		return nil, fmt.Errorf("%w: permutation of %d on %d rows", ErrDimension, p.Len(), m.rows)
	}
	res := &Matrix{rows: m.rows, cols: m.cols, data: make([][]uint32, m.rows)}
	for i, src := range p.perm {
		res.data[i] = append([]uint32(nil), m.data[src]...)
	}
	return res, nil
}

// PermuteColumns returns m * P: column i of the result is column p[i] of m.
func (m *Matrix) PermuteColumns(p *Permutation) (*Matrix, error) {
	if p.Len() != m.cols {
		return nil, fmt.Errorf("%w: permutation of %d on %d columns", ErrDimension, p.Len(), m.cols)
	}
	res := NewMatrix(m.rows, m.cols)
	parallel.For(m.rows, 0, func(lo, hi int) {
		for r := lo; r < hi; r++ {
			src, dst := m.data[r], res.data[r]
			for i, c := range p.perm {
				dst[i>>5] |= getBit(src, c) << uint(i&31)
			}
		}
	})
	return res, nil
}

// Transpose returns the transpose of m. Each task owns a disjoint range of
// output rows.
func (m *Matrix) Transpose() *Matrix {
	res := NewMatrix(m.cols, m.rows)
	parallel.For(m.cols, 0, func(lo, hi int) {
		for j := lo; j < hi; j++ {
			dst := res.data[j]
			q, r := j>>5, uint(j&31)
			for i, row := range m.data {
				dst[i>>5] |= ((row[q] >> r) & 1) << uint(i&31)
			}
		}
	})
	return res
}

// LeftSubMatrix returns the leftmost rows x rows block of m.
func (m *Matrix) LeftSubMatrix() (*Matrix, error) {
	if m.cols <= m.rows {
		return nil, fmt.Errorf("%w: no left block in %dx%d matrix", ErrDimension, m.rows, m.cols)
	}
	res := &Matrix{rows: m.rows, cols: m.rows, data: make([][]uint32, m.rows)}
	for i, row := range m.data {
		res.data[i] = extractBits(row, 0, m.rows)
	}
	return res, nil
}

// RightSubMatrix returns the block of m to the right of its leftmost
// rows x rows block.
func (m *Matrix) RightSubMatrix() (*Matrix, error) {
	if m.cols <= m.rows {
		return nil, fmt.Errorf("%w: no right block in %dx%d matrix", ErrDimension, m.rows, m.cols)
	}
	n := m.cols - m.rows
	res := &Matrix{rows: m.rows, cols: n, data: make([][]uint32, m.rows)}
	for i, row := range m.data {
		res.data[i] = extractBits(row, m.rows, n)
	}
	return res, nil
}

// ExtendLeftCompactForm returns (I | m) where I is the rows x rows identity.
func (m *Matrix) ExtendLeftCompactForm() *Matrix {
	res := NewMatrix(m.rows, m.rows+m.cols)
	for i, row := range m.data {
		setBit(res.data[i], i)
		if m.cols > 0 {
			orBits(res.data[i], m.rows, row, m.cols)
		}
	}
	return res
}

// ExtendRightCompactForm returns (m | I) where I is the rows x rows identity.
func (m *Matrix) ExtendRightCompactForm() *Matrix {
	res := NewMatrix(m.rows, m.rows+m.cols)
	for i, row := range m.data {
		copy(res.data[i], row)
		setBit(res.data[i], m.cols+i)
	}
	return res
}

// Inverse returns the inverse of a square matrix by Gauss-Jordan
// elimination, or ErrSingular.
func (m *Matrix) Inverse() (*Matrix, error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("%w: %dx%d matrix is not square", ErrDimension, m.rows, m.cols)
	}
	n := m.rows
	tmp := m.Clone().data
	inv := Identity(n).data

	for i := 0; i < n; i++ {
		q, bit := i>>5, uint32(1)<<uint(i&31)
		if tmp[i][q]&bit == 0 {
			pivot := -1
			for j := i + 1; j < n; j++ {
				if tmp[j][q]&bit != 0 {
					pivot = j
					break
				}
			}
			if pivot == -1 {
				return nil, ErrSingular
			}
			tmp[i], tmp[pivot] = tmp[pivot], tmp[i]
			inv[i], inv[pivot] = inv[pivot], inv[i]
		}
		for j := 0; j < n; j++ {
			if j == i || tmp[j][q]&bit == 0 {
				continue
			}
			// columns below q are already reduced in row i
			for k := q; k < len(tmp[j]); k++ {
				tmp[j][k] ^= tmp[i][k]
			}
			for k := range inv[j] {
				inv[j][k] ^= inv[i][k]
			}
		}
	}
	return &Matrix{rows: n, cols: n, data: inv}, nil
}

// String renders m one row per line.
func (m *Matrix) String() string {
	var sb strings.Builder
	for i := range m.data {
		sb.WriteString((&Vector{length: m.cols, words: m.data[i]}).String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
