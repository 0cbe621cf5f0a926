package mbdb

import (
	"errors"
	"fmt"

	"github.com/deploymenttheory/go-sparserestore/internal/cursor"
	"github.com/deploymenttheory/go-sparserestore/internal/types"
)

// ErrTooManyProperties is returned when a record has more properties than
// the single-byte count can describe.
var ErrTooManyProperties = errors.New("too many record properties")

// Encode serializes the header followed by every record in order.
func Encode(m types.Mbdb) ([]byte, error) {
	w := cursor.NewWriter()
	w.WriteBytes([]byte(types.MbdbMagic))
	w.WriteBytes(types.MbdbVersion[:])

	for i, record := range m.Records {
		if err := encodeRecord(w, record); err != nil {
			return nil, fmt.Errorf("failed to encode record %d (%s-%s): %w", i, record.Domain, record.Path, err)
		}
	}

	return w.Bytes(), nil
}

// EncodeRecord serializes a single record without the header.
func EncodeRecord(record types.MbdbRecord) ([]byte, error) {
	w := cursor.NewWriter()
	if err := encodeRecord(w, record); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func encodeRecord(w *cursor.Writer, record types.MbdbRecord) error {
	if len(record.Properties) > types.MbdbMaxProperties {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyProperties, len(record.Properties), types.MbdbMaxProperties)
	}

	fields := []struct {
		name  string
		value []byte
	}{
		{"domain", []byte(record.Domain)},
		{"filename", []byte(record.Path)},
		{"link", []byte(record.LinkTarget)},
		{"hash", record.Hash},
		{"key", record.Key},
	}
	for _, f := range fields {
		if err := w.WriteLengthPrefixedBytes(f.value); err != nil {
			return fmt.Errorf("field %s: %w", f.name, err)
		}
	}

	w.WriteU16(uint16(record.Mode))
	w.WriteU64(record.Inode)
	w.WriteU32(record.UID)
	w.WriteU32(record.GID)
	w.WriteU32(record.Mtime)
	w.WriteU32(record.Atime)
	w.WriteU32(record.Ctime)
	w.WriteU64(record.Size)
	w.WriteU8(record.Flags)
	w.WriteU8(uint8(len(record.Properties)))

	for _, p := range record.Properties {
		if err := w.WriteLengthPrefixedString(p.Name); err != nil {
			return fmt.Errorf("property name %q: %w", p.Name, err)
		}
		if err := w.WriteLengthPrefixedString(p.Value); err != nil {
			return fmt.Errorf("property %q value: %w", p.Name, err)
		}
	}

	return nil
}
