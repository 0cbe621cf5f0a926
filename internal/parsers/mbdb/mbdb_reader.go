package mbdb

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/deploymenttheory/go-sparserestore/internal/cursor"
	"github.com/deploymenttheory/go-sparserestore/internal/types"
)

var (
	// ErrBadMagic is returned when the stream does not open with "mbdb".
	ErrBadMagic = errors.New("bad mbdb magic")

	// ErrBadVersion is returned when the version bytes are not 0x05 0x00.
	ErrBadVersion = errors.New("unsupported mbdb version")

	// ErrTruncatedRecord is returned when a record ends before all of its
	// mandatory fields have been read.
	ErrTruncatedRecord = errors.New("truncated mbdb record")
)

// DecodeError describes a record that could not be decoded.
type DecodeError struct {
	// Record is the zero-based index of the failing record.
	Record int
	// Offset is the byte offset where the record started.
	Offset int
	// Field names the field being read when decoding failed.
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("record %d at offset %d: field %s: %v", e.Record, e.Offset, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Options controls decoding behaviour.
type Options struct {
	// Lenient treats a bad header as an empty manifest and stops at the
	// first malformed record, returning the records decoded before it.
	// No error is returned in lenient mode.
	Lenient bool
}

// Decode parses a complete Manifest.mbdb in strict mode.
func Decode(data []byte) (types.Mbdb, error) {
	return DecodeWithOptions(data, Options{})
}

// DecodeWithOptions parses a Manifest.mbdb with the given options.
func DecodeWithOptions(data []byte, opts Options) (types.Mbdb, error) {
	var m types.Mbdb

	r := cursor.NewReader(data)
	if err := checkHeader(r); err != nil {
		if opts.Lenient {
			return types.Mbdb{}, nil
		}
		return types.Mbdb{}, err
	}

	for !r.Done() {
		record, err := decodeRecord(r, len(m.Records))
		if err != nil {
			if opts.Lenient {
				return m, nil
			}
			return m, err
		}
		m.Records = append(m.Records, record)
	}

	return m, nil
}

func checkHeader(r *cursor.Reader) error {
	magic, err := r.ReadBytes(len(types.MbdbMagic))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if !bytes.Equal(magic, []byte(types.MbdbMagic)) {
		return fmt.Errorf("%w: got %q", ErrBadMagic, magic)
	}

	version, err := r.ReadBytes(len(types.MbdbVersion))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadVersion, err)
	}
	if !bytes.Equal(version, types.MbdbVersion[:]) {
		return fmt.Errorf("%w: got % x", ErrBadVersion, version)
	}

	return nil
}

// recordReader tracks the field being read so failures can name it.
type recordReader struct {
	r     *cursor.Reader
	field string
	err   error
}

func (rr *recordReader) str(field string) string {
	if rr.err != nil {
		return ""
	}
	rr.field = field
	s, err := rr.r.ReadLengthPrefixedString()
	rr.err = err
	return s
}

func (rr *recordReader) bytes(field string) []byte {
	if rr.err != nil {
		return nil
	}
	rr.field = field
	b, err := rr.r.ReadLengthPrefixedBytes()
	rr.err = err
	return b
}

func (rr *recordReader) u8(field string) uint8 {
	if rr.err != nil {
		return 0
	}
	rr.field = field
	v, err := rr.r.ReadU8()
	rr.err = err
	return v
}

func (rr *recordReader) u16(field string) uint16 {
	if rr.err != nil {
		return 0
	}
	rr.field = field
	v, err := rr.r.ReadU16()
	rr.err = err
	return v
}

func (rr *recordReader) u32(field string) uint32 {
	if rr.err != nil {
		return 0
	}
	rr.field = field
	v, err := rr.r.ReadU32()
	rr.err = err
	return v
}

func (rr *recordReader) u64(field string) uint64 {
	if rr.err != nil {
		return 0
	}
	rr.field = field
	v, err := rr.r.ReadU64()
	rr.err = err
	return v
}

func decodeRecord(r *cursor.Reader, index int) (types.MbdbRecord, error) {
	start := r.Offset()
	rr := &recordReader{r: r}

	record := types.MbdbRecord{
		Domain:     rr.str("domain"),
		Path:       rr.str("filename"),
		LinkTarget: rr.str("link"),
		Hash:       rr.bytes("hash"),
		Key:        rr.bytes("key"),
		Mode:       types.FileMode(rr.u16("mode")),
		Inode:      rr.u64("inode"),
		UID:        rr.u32("uid"),
		GID:        rr.u32("gid"),
		Mtime:      rr.u32("mtime"),
		Atime:      rr.u32("atime"),
		Ctime:      rr.u32("ctime"),
		Size:       rr.u64("size"),
		Flags:      rr.u8("flags"),
	}

	count := int(rr.u8("property count"))
	for i := 0; i < count && rr.err == nil; i++ {
		name := rr.str("property name")
		value := rr.str("property value")
		record.Properties = append(record.Properties, types.Property{Name: name, Value: value})
	}

	if rr.err != nil {
		return types.MbdbRecord{}, &DecodeError{
			Record: index,
			Offset: start,
			Field:  rr.field,
			Err:    fmt.Errorf("%w: %v", ErrTruncatedRecord, rr.err),
		}
	}

	return record, nil
}
