package types

import (
	"errors"
	"fmt"
)

// File Modes
// The values used by the mode field of an MBDB record. These follow POSIX
// file type conventions: the high bits carry exactly one file type and the
// low twelve bits carry permissions.

// FileMode represents file mode bits for a manifest record.
type FileMode uint16

// ErrInvalidFileType is returned when a mode carries no file type bits or
// a value the type mask does not recognise.
var ErrInvalidFileType = errors.New("invalid file type in mode")

const (
	// ModeTypeMask is the bit mask for the file type field.
	// AND this with a mode value to extract just the file type bits.
	ModeTypeMask FileMode = 0o170000

	// ModeFIFO marks a FIFO (named pipe) file.
	ModeFIFO FileMode = 0o010000

	// ModeCharDevice marks a character device file.
	ModeCharDevice FileMode = 0o020000

	// ModeDir marks a directory.
	ModeDir FileMode = 0o040000

	// ModeBlockDevice marks a block device file.
	ModeBlockDevice FileMode = 0o060000

	// ModeRegular marks a regular file.
	ModeRegular FileMode = 0o100000

	// ModeSymlink marks a symbolic link.
	ModeSymlink FileMode = 0o120000

	// ModeSocket marks a socket file.
	ModeSocket FileMode = 0o140000
)

const (
	// ModePermMask covers the permission and special bits.
	ModePermMask FileMode = 0o007777

	ModeSetUID FileMode = 0o004000
	ModeSetGID FileMode = 0o002000
	ModeSticky FileMode = 0o001000

	ModeOwnerRead  FileMode = 0o000400
	ModeOwnerWrite FileMode = 0o000200
	ModeOwnerExec  FileMode = 0o000100
	ModeGroupRead  FileMode = 0o000040
	ModeGroupWrite FileMode = 0o000020
	ModeGroupExec  FileMode = 0o000010
	ModeOtherRead  FileMode = 0o000004
	ModeOtherWrite FileMode = 0o000002
	ModeOtherExec  FileMode = 0o000001
)

// Common permission combinations.
const (
	// ModeDefaultFile is rw-r--r--.
	ModeDefaultFile = ModeOwnerRead | ModeOwnerWrite | ModeGroupRead | ModeOtherRead

	// ModeDefaultDir is rwxr-xr-x.
	ModeDefaultDir = ModeDefaultFile | ModeOwnerExec | ModeGroupExec | ModeOtherExec
)

// Type returns only the file type bits of the mode.
func (m FileMode) Type() FileMode {
	return m & ModeTypeMask
}

// Perm returns only the permission and special bits of the mode.
func (m FileMode) Perm() FileMode {
	return m & ModePermMask
}

// WithType replaces the type bits of m with t.
func (m FileMode) WithType(t FileMode) FileMode {
	return m.Perm() | t.Type()
}

// IsRegular reports whether the mode describes a regular file.
func (m FileMode) IsRegular() bool {
	return m.Type() == ModeRegular
}

// IsDir reports whether the mode describes a directory.
func (m FileMode) IsDir() bool {
	return m.Type() == ModeDir
}

// IsSymlink reports whether the mode describes a symbolic link.
func (m FileMode) IsSymlink() bool {
	return m.Type() == ModeSymlink
}

// Validate checks that exactly one recognised file type is set.
func (m FileMode) Validate() error {
	switch m.Type() {
	case ModeFIFO, ModeCharDevice, ModeDir, ModeBlockDevice, ModeRegular, ModeSymlink, ModeSocket:
		return nil
	case 0:
		return fmt.Errorf("%w: no type bits set in %#o", ErrInvalidFileType, uint16(m))
	default:
		return fmt.Errorf("%w: %#o", ErrInvalidFileType, uint16(m.Type()))
	}
}

// String renders the mode the way ls does, for example "-rw-r--r--".
func (m FileMode) String() string {
	var buf [10]byte

	switch m.Type() {
	case ModeDir:
		buf[0] = 'd'
	case ModeSymlink:
		buf[0] = 'l'
	case ModeFIFO:
		buf[0] = 'p'
	case ModeCharDevice:
		buf[0] = 'c'
	case ModeBlockDevice:
		buf[0] = 'b'
	case ModeSocket:
		buf[0] = 's'
	case ModeRegular:
		buf[0] = '-'
	default:
		buf[0] = '?'
	}

	const rwx = "rwxrwxrwx"
	for i := 0; i < 9; i++ {
		if m&(1<<uint(8-i)) != 0 {
			buf[i+1] = rwx[i]
		} else {
			buf[i+1] = '-'
		}
	}

	if m&ModeSetUID != 0 {
		buf[3] = specialBit(buf[3], 's')
	}
	if m&ModeSetGID != 0 {
		buf[6] = specialBit(buf[6], 's')
	}
	if m&ModeSticky != 0 {
		buf[9] = specialBit(buf[9], 't')
	}

	return string(buf[:])
}

func specialBit(current byte, mark byte) byte {
	if current == '-' {
		return mark - ('a' - 'A')
	}
	return mark
}
