package digest

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHexDigestVectors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{"abc", "abc", "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"two blocks", "abcdbcdecdefdefgefghfghighijhijkijkljklmklmnlmnomnopnopq", "84983e441c3bd26ebaae4aa1f95129e5e54670f1"},
		{"quick fox", "The quick brown fox jumps over the lazy dog", "2fd4e1c67a2d28fced849ee1bb76e7391b93eb12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HexDigest([]byte(tt.input)))
		})
	}
}

func TestSumMatchesStandardLibrary(t *testing.T) {
	// Lengths around the 55/56/64 byte padding boundaries.
	for n := 0; n <= 200; n++ {
		data := []byte(strings.Repeat("x", n))
		want := sha1.Sum(data)
		got := Sum(data)
		if got != want {
			t.Fatalf("length %d: expected %x, got %x", n, want, got)
		}
	}
}

func TestStreamingWrites(t *testing.T) {
	data := []byte(strings.Repeat("0123456789", 50))
	want := sha1.Sum(data)

	h := New()
	for i := 0; i < len(data); i += 7 {
		end := i + 7
		if end > len(data) {
			end = len(data)
		}
		h.Write(data[i:end])
	}

	assert.Equal(t, hex.EncodeToString(want[:]), hex.EncodeToString(h.Sum(nil)))
	assert.Equal(t, Size, h.Size())
	assert.Equal(t, BlockSize, h.BlockSize())
}

func TestSumDoesNotDisturbState(t *testing.T) {
	h := New()
	h.Write([]byte("ab"))
	_ = h.Sum(nil)
	h.Write([]byte("c"))

	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", hex.EncodeToString(h.Sum(nil)))

	h.Reset()
	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", hex.EncodeToString(h.Sum(nil)))
}
