package random

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// countingReader yields an increasing byte sequence
type countingReader struct {
	next byte
}

func (c *countingReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = c.next
		c.next++
	}
	return len(p), nil
}

// TestKeyedDeterministic tests that two keyed sources with the same key agree
func TestKeyedDeterministic(t *testing.T) {
	key := []byte("goppa-test-key")
	a, err := NewKeyed(key)
	require.NoError(t, err)
	b, err := NewKeyed(key)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		if x, y := a.NextLong(), b.NextLong(); x != y {
			t.Fatalf("draw %d differs: %x vs %x", i, x, y)
		}
	}

	other, err := NewKeyed([]byte("another-key"))
	require.NoError(t, err)
	bufA := make([]byte, 64)
	bufB := make([]byte, 64)
	a.NextBlock(bufA)
	other.NextBlock(bufB)
	if bytes.Equal(bufA, bufB) {
		t.Errorf("different keys produced identical blocks")
	}
}

// TestShakeDeterministic tests that SHAKE sources are reproducible from a seed
func TestShakeDeterministic(t *testing.T) {
	a := NewShake([]byte{1, 2, 3})
	b := NewShake([]byte{1, 2, 3})
	bufA := make([]byte, 100)
	bufB := make([]byte, 100)
	a.NextBlock(bufA)
	b.NextBlock(bufB)
	require.Equal(t, bufA, bufB)
}

// TestNextIntBounds tests that NextInt stays in range for awkward bounds
func TestNextIntBounds(t *testing.T) {
	src := NewShake([]byte("bounds"))
	bounds := []int{1, 2, 3, 7, 10, 64, 1000, 1<<31 - 1, 1 << 40}
	for _, bound := range bounds {
		for i := 0; i < 200; i++ {
			v := src.NextInt(bound)
			if v < 0 || v >= bound {
				t.Fatalf("NextInt(%d) returned %d", bound, v)
			}
		}
	}
}

// TestNextIntCoverage tests that every value of a small bound is eventually drawn
func TestNextIntCoverage(t *testing.T) {
	src := NewShake([]byte("coverage"))
	seen := make([]bool, 13)
	for i := 0; i < 2000; i++ {
		seen[src.NextInt(13)] = true
	}
	for v, ok := range seen {
		if !ok {
			t.Errorf("value %d never drawn", v)
		}
	}
}

// TestNextIntPanicsOnBadBound tests the bound precondition
func TestNextIntPanicsOnBadBound(t *testing.T) {
	src := NewShake(nil)
	require.Panics(t, func() { src.NextInt(0) })
	require.Panics(t, func() { src.NextInt(-5) })
}

// TestFromReaderLittleEndian tests the NextLong byte order
func TestFromReaderLittleEndian(t *testing.T) {
	src := FromReader(&countingReader{})
	require.Equal(t, uint64(0x0706050403020100), src.NextLong())
}

// TestLockedConcurrentUse tests sharing a locked source between goroutines
func TestLockedConcurrentUse(t *testing.T) {
	src := Locked(NewShake([]byte("locked")))
	require.Same(t, src, Locked(src))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if v := src.NextInt(17); v < 0 || v >= 17 {
					t.Errorf("out of range draw %d", v)
				}
			}
		}()
	}
	wg.Wait()
}
