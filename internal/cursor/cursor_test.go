package cursor

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderFixedWidth(t *testing.T) {
	data := []byte{
		0x7F,
		0x12, 0x34,
		0xDE, 0xAD, 0xBE, 0xEF,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	}
	r := NewReader(data)

	u8, err := r.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7F), u8)

	u16, err := r.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	u32, err := r.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	u64, err := r.ReadU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), u64)

	assert.Equal(t, len(data), r.Offset())
	assert.True(t, r.Done())
}

func TestReaderShortBuffer(t *testing.T) {
	r := NewReader([]byte{0x00, 0x01, 0x02})

	_, err := r.ReadU32()
	if !errors.Is(err, ErrShortBuffer) {
		t.Fatalf("Expected ErrShortBuffer, got %v", err)
	}
	assert.Equal(t, 0, r.Offset(), "failed read must not advance")

	_, err = r.ReadU16()
	require.NoError(t, err)
	_, err = r.ReadU16()
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestReaderLengthPrefixed(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		want     string
		consumed int
		wantErr  error
	}{
		{"sentinel", []byte{0xFF, 0xFF, 'x'}, "", 2, nil},
		{"zero length", []byte{0x00, 0x00, 'x'}, "", 2, nil},
		{"short string", []byte{0x00, 0x03, 'a', 'b', 'c', 'd'}, "abc", 5, nil},
		{"truncated payload", []byte{0x00, 0x05, 'a', 'b'}, "", 2, ErrShortBuffer},
		{"truncated length", []byte{0x00}, "", 0, ErrShortBuffer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.data)
			got, err := r.ReadLengthPrefixedString()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, tt.consumed, r.Offset())
		})
	}
}

func TestWriterMirrorsReader(t *testing.T) {
	w := NewWriter()
	w.WriteU8(0x7F)
	w.WriteU16(0x1234)
	w.WriteU32(0xDEADBEEF)
	w.WriteU64(0x0102030405060708)
	require.NoError(t, w.WriteLengthPrefixedString("domain"))
	require.NoError(t, w.WriteLengthPrefixedBytes(nil))

	expected := []byte{
		0x7F,
		0x12, 0x34,
		0xDE, 0xAD, 0xBE, 0xEF,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x00, 0x06, 'd', 'o', 'm', 'a', 'i', 'n',
		0xFF, 0xFF,
	}
	if !bytes.Equal(expected, w.Bytes()) {
		t.Fatalf("Expected % x, got % x", expected, w.Bytes())
	}

	r := NewReader(w.Bytes())
	_, _ = r.ReadU8()
	_, _ = r.ReadU16()
	_, _ = r.ReadU32()
	_, _ = r.ReadU64()
	s, err := r.ReadLengthPrefixedString()
	require.NoError(t, err)
	assert.Equal(t, "domain", s)
	b, err := r.ReadLengthPrefixedBytes()
	require.NoError(t, err)
	assert.Nil(t, b)
	assert.True(t, r.Done())
}

func TestWriterRejectsOversizedField(t *testing.T) {
	w := NewWriter()

	err := w.WriteLengthPrefixedString(strings.Repeat("a", MaxFieldLength))
	require.NoError(t, err)

	before := w.Len()
	err = w.WriteLengthPrefixedString(strings.Repeat("a", MaxFieldLength+1))
	assert.ErrorIs(t, err, ErrFieldTooLong)
	assert.Equal(t, before, w.Len(), "rejected field must not be partially written")
}
