package inspect

import (
	"encoding/hex"
	"time"

	"github.com/deploymenttheory/go-sparserestore/internal/backup"
	"github.com/deploymenttheory/go-sparserestore/internal/types"
)

// Request represents a manifest inspection request
type Request struct {
	ManifestPath string

	// Filters
	Domain     string
	PathPrefix string

	// Lenient decodes a damaged manifest as far as it goes instead of
	// failing on the first bad record.
	Lenient bool
}

// Response represents inspection results
type Response struct {
	ManifestPath string         `json:"manifest_path" yaml:"manifest_path"`
	Records      []RecordResult `json:"records" yaml:"records"`
	TotalRecords int            `json:"total_records" yaml:"total_records"`
	Matched      int            `json:"matched" yaml:"matched"`
	TotalSize    uint64         `json:"total_size" yaml:"total_size"`
	DecodeTime   time.Duration  `json:"decode_time" yaml:"decode_time"`
}

// RecordResult is one manifest record in display form
type RecordResult struct {
	Domain      string            `json:"domain" yaml:"domain"`
	Path        string            `json:"path" yaml:"path"`
	Type        string            `json:"type" yaml:"type"`
	Permissions string            `json:"permissions" yaml:"permissions"`
	Mode        uint16            `json:"mode" yaml:"mode"`
	Size        uint64            `json:"size" yaml:"size"`
	Inode       uint64            `json:"inode" yaml:"inode"`
	UID         uint32            `json:"uid" yaml:"uid"`
	GID         uint32            `json:"gid" yaml:"gid"`
	Modified    time.Time         `json:"modified" yaml:"modified"`
	Hash        string            `json:"hash,omitempty" yaml:"hash,omitempty"`
	LinkTarget  string            `json:"link_target,omitempty" yaml:"link_target,omitempty"`
	BlobName    string            `json:"blob_name,omitempty" yaml:"blob_name,omitempty"`
	Flags       uint8             `json:"flags" yaml:"flags"`
	Properties  map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// newRecordResult converts a decoded record for display
func newRecordResult(r types.MbdbRecord) RecordResult {
	result := RecordResult{
		Domain:      r.Domain,
		Path:        r.Path,
		Type:        typeName(r.Mode),
		Permissions: r.Mode.String(),
		Mode:        uint16(r.Mode),
		Size:        r.Size,
		Inode:       r.Inode,
		UID:         r.UID,
		GID:         r.GID,
		Modified:    time.Unix(int64(r.Mtime), 0).UTC(),
		LinkTarget:  r.LinkTarget,
		Flags:       r.Flags,
	}
	if len(r.Hash) > 0 {
		result.Hash = hex.EncodeToString(r.Hash)
	}
	if r.Mode.IsRegular() {
		result.BlobName = backup.BlobName(r.Domain, r.Path)
	}
	if len(r.Properties) > 0 {
		result.Properties = make(map[string]string, len(r.Properties))
		for _, p := range r.Properties {
			result.Properties[p.Name] = p.Value
		}
	}
	return result
}

func typeName(mode types.FileMode) string {
	switch mode.Type() {
	case types.ModeRegular:
		return "file"
	case types.ModeDir:
		return "directory"
	case types.ModeSymlink:
		return "symlink"
	case types.ModeFIFO:
		return "fifo"
	case types.ModeCharDevice:
		return "char-device"
	case types.ModeBlockDevice:
		return "block-device"
	case types.ModeSocket:
		return "socket"
	default:
		return "unknown"
	}
}
