package types

import "strings"

// ProtectedDomain is the bucket a restore path is classified into when the
// caller does not address the backup domain directly.
type ProtectedDomain int

const (
	// DomainGeneric is anything outside the other three prefixes.
	DomainGeneric ProtectedDomain = iota
	// DomainLibrary covers paths under Library/.
	DomainLibrary
	// DomainMedia covers paths under Media/.
	DomainMedia
	// DomainSystem covers paths under System/.
	DomainSystem
)

// Backup domain folder names.
const (
	FolderLibrary = "Library"
	FolderMedia   = "MediaDomain"
	FolderSystem  = "SystemDomain"
	FolderRoot    = "RootDomain"
)

var domainPrefixes = []struct {
	prefix string
	domain ProtectedDomain
}{
	{"Library/", DomainLibrary},
	{"Media/", DomainMedia},
	{"System/", DomainSystem},
}

// ClassifyPath maps a restore path to its protected domain by prefix.
func ClassifyPath(path string) ProtectedDomain {
	for _, p := range domainPrefixes {
		if strings.HasPrefix(path, p.prefix) {
			return p.domain
		}
	}
	return DomainGeneric
}

// FolderName returns the backup domain folder for the bucket.
func (d ProtectedDomain) FolderName() string {
	switch d {
	case DomainLibrary:
		return FolderLibrary
	case DomainMedia:
		return FolderMedia
	case DomainSystem:
		return FolderSystem
	default:
		return FolderRoot
	}
}

// String returns the bucket name.
func (d ProtectedDomain) String() string {
	switch d {
	case DomainLibrary:
		return "Library"
	case DomainMedia:
		return "Media"
	case DomainSystem:
		return "System"
	default:
		return "Generic"
	}
}
