// Package random provides the random-bit sources consumed by the algebra
// packages. The algebra only needs uniform integers below a bound and raw
// blocks of random bytes; how those bits are produced is up to the Source.
package random

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/tuneinsight/lattigo/v4/utils"
	"golang.org/x/crypto/sha3"
)

// Source is a uniform random-bit generator.
//
// Implementations returned by this package are not safe for concurrent use;
// wrap them with Locked when several goroutines draw from the same Source.
type Source interface {
	// NextInt returns a uniform integer in [0, bound). It panics if bound <= 0.
	NextInt(bound int) int

	// NextLong returns 64 uniform random bits.
	NextLong() uint64

	// NextBlock fills buf with uniform random bytes.
	NextBlock(buf []byte)
}

type readerSource struct {
	r   io.Reader
	buf [8]byte
}

// FromReader turns an arbitrary byte stream into a Source. A read failure
// from r is unrecoverable for the caller and panics.
func FromReader(r io.Reader) Source {
	return &readerSource{r: r}
}

// NewSystem returns a Source backed by the operating system CSPRNG.
func NewSystem() Source {
	return FromReader(rand.Reader)
}

// NewKeyed returns a deterministic Source expanding key with a keyed XOF.
// Two sources built from the same key produce the same stream.
func NewKeyed(key []byte) (Source, error) {
	prng, err := utils.NewKeyedPRNG(key)
	if err != nil {
		return nil, fmt.Errorf("random: keyed prng: %w", err)
	}
	return FromReader(prng), nil
}

// NewShake returns a deterministic Source reading the SHAKE256 stream of seed.
func NewShake(seed []byte) Source {
	h := sha3.NewShake256()
	h.Write(seed)
	return FromReader(h)
}

func (s *readerSource) NextBlock(buf []byte) {
	if _, err := io.ReadFull(s.r, buf); err != nil {
		panic(fmt.Sprintf("random: entropy source failed: %v", err))
	}
}

func (s *readerSource) NextLong() uint64 {
	s.NextBlock(s.buf[:])
	return binary.LittleEndian.Uint64(s.buf[:])
}

func (s *readerSource) NextInt(bound int) int {
	return boundedInt(s, bound)
}

// boundedInt draws 63-bit values and rejects the tail that would bias the
// reduction modulo bound.
func boundedInt(s Source, bound int) int {
	if bound <= 0 {
		panic("random: bound must be positive")
	}
	n := uint64(bound)
	if n&(n-1) == 0 {
		return int(s.NextLong() & (n - 1))
	}
	const max = 1<<63 - 1
	for {
		bits := s.NextLong() >> 1
		v := bits % n
		if bits-v <= max-(n-1) {
			return int(v)
		}
	}
}

type lockedSource struct {
	mu  sync.Mutex
	src Source
}

// Locked serializes access to src so it can be shared between goroutines.
func Locked(src Source) Source {
	if _, ok := src.(*lockedSource); ok {
		return src
	}
	return &lockedSource{src: src}
}

func (l *lockedSource) NextInt(bound int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.NextInt(bound)
}

func (l *lockedSource) NextLong() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.NextLong()
}

func (l *lockedSource) NextBlock(buf []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.src.NextBlock(buf)
}
