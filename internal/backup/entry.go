// Package backup models the entries of a synthetic device backup and
// assembles them into an archive directory: content-addressed blobs, the
// Manifest.mbdb record catalogue and the three property-list sidecars.
package backup

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/deploymenttheory/go-sparserestore/internal/digest"
	"github.com/deploymenttheory/go-sparserestore/internal/types"
)

// Default ownership for every entry; 501 is the mobile user on device.
const (
	DefaultOwner uint32 = 501
	DefaultGroup uint32 = 501
)

// Entry is one file, directory or symbolic link in a backup. The set of
// implementations is closed: ConcreteFile, Directory and SymbolicLink.
type Entry interface {
	Domain() string
	Path() string
	// ToRecord builds the manifest record for the entry.
	ToRecord() (types.MbdbRecord, error)

	entry()
}

// Clock and inode sources, replaceable in tests.
var (
	now          = time.Now
	randomUint64 = rand.Uint64
)

// metadata is shared by every entry kind.
type metadata struct {
	domain string
	path   string
	owner  uint32
	group  uint32
	mode   types.FileMode
	inode  *uint64
}

func (m *metadata) Domain() string { return m.domain }

func (m *metadata) Path() string { return m.path }

// Owner returns the entry's uid.
func (m *metadata) Owner() uint32 { return m.owner }

// Group returns the entry's gid.
func (m *metadata) Group() uint32 { return m.group }

// Mode returns the configured mode bits.
func (m *metadata) Mode() types.FileMode { return m.mode }

func (m *metadata) record(fileType types.FileMode) (types.MbdbRecord, error) {
	mode := m.mode.WithType(fileType)
	if err := mode.Validate(); err != nil {
		return types.MbdbRecord{}, fmt.Errorf("entry %s-%s: %w", m.domain, m.path, err)
	}

	inode := randomUint64()
	if m.inode != nil {
		inode = *m.inode
	}

	ts := uint32(now().Unix())
	return types.MbdbRecord{
		Domain: m.domain,
		Path:   m.path,
		Mode:   mode,
		Inode:  inode,
		UID:    m.owner,
		GID:    m.group,
		Mtime:  ts,
		Atime:  ts,
		Ctime:  ts,
		Flags:  types.MbdbFlagTransferred,
	}, nil
}

// Option configures an entry.
type Option func(*metadata)

// WithOwner sets the uid.
func WithOwner(uid uint32) Option {
	return func(m *metadata) { m.owner = uid }
}

// WithGroup sets the gid.
func WithGroup(gid uint32) Option {
	return func(m *metadata) { m.group = gid }
}

// WithMode sets the permission bits. Any type bits are replaced by the
// entry's own type when the record is built.
func WithMode(mode types.FileMode) Option {
	return func(m *metadata) { m.mode = mode }
}

// WithInode pins the inode number instead of drawing a random one.
func WithInode(inode uint64) Option {
	return func(m *metadata) { m.inode = &inode }
}

func newMetadata(domain, path string, mode types.FileMode, opts []Option) metadata {
	m := metadata{
		domain: domain,
		path:   path,
		owner:  DefaultOwner,
		group:  DefaultGroup,
		mode:   mode,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// ContentSource produces the bytes of a file. It is called at most once.
type ContentSource func() ([]byte, error)

type contentState int

const (
	contentPending contentState = iota
	contentResolved
)

// ConcreteFile is a regular file with content.
type ConcreteFile struct {
	metadata

	source ContentSource

	state    contentState
	contents []byte
	hash     [digest.Size]byte
}

// NewConcreteFile creates a regular file with inline contents.
func NewConcreteFile(domain, path string, contents []byte, opts ...Option) *ConcreteFile {
	f := &ConcreteFile{metadata: newMetadata(domain, path, types.ModeDefaultFile, opts)}
	f.resolve(contents)
	return f
}

// NewLazyFile creates a regular file whose contents are read from source
// the first time they are needed.
func NewLazyFile(domain, path string, source ContentSource, opts ...Option) *ConcreteFile {
	return &ConcreteFile{
		metadata: newMetadata(domain, path, types.ModeDefaultFile, opts),
		source:   source,
	}
}

func (f *ConcreteFile) resolve(contents []byte) {
	f.contents = contents
	f.hash = digest.Sum(contents)
	f.state = contentResolved
	f.source = nil
}

// Contents returns the file's content snapshot, reading it on first use.
// Size, hash and blob bytes all come from the same snapshot.
func (f *ConcreteFile) Contents() ([]byte, error) {
	if f.state == contentPending {
		if f.source == nil {
			f.resolve(nil)
		} else {
			contents, err := f.source()
			if err != nil {
				return nil, fmt.Errorf("failed to read contents of %s-%s: %w", f.domain, f.path, err)
			}
			f.resolve(contents)
		}
	}
	return f.contents, nil
}

// ToRecord builds a regular-file record with content hash and size.
func (f *ConcreteFile) ToRecord() (types.MbdbRecord, error) {
	contents, err := f.Contents()
	if err != nil {
		return types.MbdbRecord{}, err
	}

	record, err := f.record(types.ModeRegular)
	if err != nil {
		return types.MbdbRecord{}, err
	}

	hash := f.hash
	record.Hash = hash[:]
	record.Size = uint64(len(contents))
	return record, nil
}

func (*ConcreteFile) entry() {}

// Directory is a directory entry. It has no content.
type Directory struct {
	metadata
}

// NewDirectory creates a directory entry with rwxr-xr-x permissions unless
// overridden.
func NewDirectory(domain, path string, opts ...Option) *Directory {
	return &Directory{metadata: newMetadata(domain, path, types.ModeDefaultDir, opts)}
}

// ToRecord builds a directory record.
func (d *Directory) ToRecord() (types.MbdbRecord, error) {
	return d.record(types.ModeDir)
}

func (*Directory) entry() {}

// SymbolicLink is a symlink entry pointing at Target.
type SymbolicLink struct {
	metadata
	target string
}

// NewSymbolicLink creates a symlink entry with rwxr-xr-x permissions unless
// overridden.
func NewSymbolicLink(domain, path, target string, opts ...Option) *SymbolicLink {
	return &SymbolicLink{
		metadata: newMetadata(domain, path, types.ModeDefaultDir, opts),
		target:   target,
	}
}

// Target returns the link target.
func (l *SymbolicLink) Target() string { return l.target }

// ToRecord builds a symlink record.
func (l *SymbolicLink) ToRecord() (types.MbdbRecord, error) {
	record, err := l.record(types.ModeSymlink)
	if err != nil {
		return types.MbdbRecord{}, err
	}
	record.LinkTarget = l.target
	return record, nil
}

func (*SymbolicLink) entry() {}
