// Package cursor provides bounds-checked, big-endian sequential access to a
// byte buffer. It is the framing layer under the MBDB codec: fixed-width
// unsigned integers plus 16-bit length-prefixed byte strings.
package cursor

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// EmptyLength is the reserved length prefix meaning "absent". A reader that
// sees it returns an empty value without consuming anything further.
const EmptyLength = 0xFFFF

// MaxFieldLength is the longest byte string a length prefix can describe.
// 0xFFFF is taken by EmptyLength.
const MaxFieldLength = EmptyLength - 1

var (
	// ErrShortBuffer is returned when a read runs past the end of the buffer.
	ErrShortBuffer = errors.New("read past end of buffer")

	// ErrFieldTooLong is returned when a value cannot be length-prefixed.
	ErrFieldTooLong = errors.New("field exceeds maximum encodable length")
)

var order = binary.BigEndian

// Reader consumes big-endian values from a byte slice.
type Reader struct {
	data   []byte
	offset int
}

// NewReader creates a reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.offset
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.offset
}

// Done reports whether the buffer is exhausted.
func (r *Reader) Done() bool {
	return r.Remaining() <= 0
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortBuffer, n, r.offset, r.Remaining())
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

// ReadU8 reads a uint8
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a big-endian uint16
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return order.Uint16(b), nil
}

// ReadU32 reads a big-endian uint32
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(b), nil
}

// ReadU64 reads a big-endian uint64
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return order.Uint64(b), nil
}

// ReadBytes reads exactly n raw bytes. The returned slice is a copy.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadLengthPrefixedBytes reads a 2-byte length followed by that many bytes.
// A length of EmptyLength or zero yields nil.
func (r *Reader) ReadLengthPrefixedBytes() ([]byte, error) {
	n, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	if n == EmptyLength || n == 0 {
		return nil, nil
	}
	return r.ReadBytes(int(n))
}

// ReadLengthPrefixedString reads a length-prefixed field as a string.
func (r *Reader) ReadLengthPrefixedString() (string, error) {
	b, err := r.ReadLengthPrefixedBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Writer accumulates big-endian values into a growing buffer.
type Writer struct {
	buf []byte
}

// NewWriter creates an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the encoded buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// WriteU8 writes a uint8
func (w *Writer) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteU16 writes a big-endian uint16
func (w *Writer) WriteU16(v uint16) {
	w.buf = order.AppendUint16(w.buf, v)
}

// WriteU32 writes a big-endian uint32
func (w *Writer) WriteU32(v uint32) {
	w.buf = order.AppendUint32(w.buf, v)
}

// WriteU64 writes a big-endian uint64
func (w *Writer) WriteU64(v uint64) {
	w.buf = order.AppendUint64(w.buf, v)
}

// WriteBytes writes raw bytes with no prefix.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteLengthPrefixedBytes writes a 2-byte length followed by b. An empty
// value is written as EmptyLength with no payload. Values longer than
// MaxFieldLength are rejected rather than truncated.
func (w *Writer) WriteLengthPrefixedBytes(b []byte) error {
	if len(b) == 0 {
		w.WriteU16(EmptyLength)
		return nil
	}
	if len(b) > MaxFieldLength {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFieldTooLong, len(b), MaxFieldLength)
	}
	w.WriteU16(uint16(len(b)))
	w.WriteBytes(b)
	return nil
}

// WriteLengthPrefixedString writes s as a length-prefixed field.
func (w *Writer) WriteLengthPrefixedString(s string) error {
	return w.WriteLengthPrefixedBytes([]byte(s))
}
