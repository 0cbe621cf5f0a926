// Package restore turns logical restore requests into the concrete backup
// entries an archive needs: the parent directory, the file itself and a
// crash-report artifact that wakes the on-device crash reporter once the
// restore lands.
package restore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-sparserestore/internal/backup"
	"github.com/deploymenttheory/go-sparserestore/internal/types"
)

var (
	// ErrEmptyPath is returned when a request resolves to an empty file path.
	ErrEmptyPath = errors.New("restore path is empty")

	// ErrTrailingSlash is returned when a restore path ends in "/" and so
	// names no file.
	ErrTrailingSlash = errors.New("restore path ends in a slash")
)

// Request is one desired change on the device.
type Request struct {
	// Path is the restore path. When UsesDomains is set its first segment
	// names the backup domain.
	Path string
	// Domain, when set and UsesDomains is false, is used as-is instead of
	// classifying Path.
	Domain   string
	Contents []byte
	// LinkTarget turns the request into a symbolic link.
	LinkTarget string
	Owner      uint32
	Group      uint32
	Mode       types.FileMode
	// UsesDomains selects domain-addressed paths.
	UsesDomains bool
}

// NewRequest creates a request with the default owner, group and mode.
func NewRequest(restorePath string, contents []byte) Request {
	return Request{
		Path:     restorePath,
		Contents: contents,
		Owner:    backup.DefaultOwner,
		Group:    backup.DefaultGroup,
		Mode:     types.ModeDefaultFile,
	}
}

// Resolution is where a request lands in the archive.
type Resolution struct {
	// Domain owns the directory and file entries.
	Domain string
	// Path is the domain-relative path of the file entry.
	Path string
	// ArtifactDomain owns the crash-report entry.
	ArtifactDomain string
	// Bucket is the protected domain Path classified into. It is only
	// meaningful when the request is not domain-addressed.
	Bucket types.ProtectedDomain
}

// Resolve works out the domain and domain-relative path of a request.
func Resolve(req Request) (Resolution, error) {
	p := strings.TrimPrefix(req.Path, "/")

	var res Resolution
	if req.UsesDomains {
		domain, rest, _ := strings.Cut(p, "/")
		res = Resolution{
			Domain:         domain,
			Path:           rest,
			ArtifactDomain: domain,
			Bucket:         types.ClassifyPath(rest),
		}
	} else {
		res = Resolution{
			Path:           p,
			Bucket:         types.ClassifyPath(p),
			ArtifactDomain: types.DomainLibrary.FolderName(),
		}
		res.Domain = res.Bucket.FolderName()
		if req.Domain != "" {
			res.Domain = req.Domain
		}
	}

	if res.Path == "" {
		return Resolution{}, fmt.Errorf("%w: %q", ErrEmptyPath, req.Path)
	}
	if strings.HasSuffix(res.Path, "/") {
		return Resolution{}, fmt.Errorf("%w: %q", ErrTrailingSlash, req.Path)
	}
	return res, nil
}

// parentDir returns everything before the last "/" of p, or "" when p is
// at the domain root. The split is lexical: ".." and repeated slashes are
// kept so the directory record names the same path the device tool
// resolves for the file.
func parentDir(p string) string {
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return ""
	}
	return p[:i]
}
