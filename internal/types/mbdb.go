package types

// MBDB Manifest
// The Manifest.mbdb file catalogues every filesystem entry in a backup.
// All integers are big-endian; every string or byte field is prefixed by a
// 16-bit length.

// MbdbMagic is the 4-byte ASCII magic that opens every manifest.
const MbdbMagic = "mbdb"

// MbdbVersion is the 2-byte version that follows the magic, 0x05 0x00.
var MbdbVersion = [2]byte{0x05, 0x00}

// MbdbHeaderSize is the size of the magic plus version.
const MbdbHeaderSize = 6

// MbdbMaxProperties is the largest property count a record can encode.
const MbdbMaxProperties = 255

// MbdbFlagTransferred is the flags value emitted for every record this
// module produces.
const MbdbFlagTransferred uint8 = 4

// Property is a single name/value pair attached to a record.
type Property struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// MbdbRecord is one archived filesystem entry.
type MbdbRecord struct {
	Domain     string     `json:"domain" yaml:"domain"`
	Path       string     `json:"path" yaml:"path"`
	LinkTarget string     `json:"link_target,omitempty" yaml:"link_target,omitempty"`
	Hash       []byte     `json:"hash,omitempty" yaml:"hash,omitempty"`
	Key        []byte     `json:"key,omitempty" yaml:"key,omitempty"`
	Mode       FileMode   `json:"mode" yaml:"mode"`
	Inode      uint64     `json:"inode" yaml:"inode"`
	UID        uint32     `json:"uid" yaml:"uid"`
	GID        uint32     `json:"gid" yaml:"gid"`
	Mtime      uint32     `json:"mtime" yaml:"mtime"`
	Atime      uint32     `json:"atime" yaml:"atime"`
	Ctime      uint32     `json:"ctime" yaml:"ctime"`
	Size       uint64     `json:"size" yaml:"size"`
	Flags      uint8      `json:"flags" yaml:"flags"`
	Properties []Property `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Mbdb is the ordered record sequence of a manifest. Order is the order
// the records were supplied; nothing sorts or deduplicates them.
type Mbdb struct {
	Records []MbdbRecord `json:"records" yaml:"records"`
}
