package backup

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-sparserestore/internal/digest"
	"github.com/deploymenttheory/go-sparserestore/internal/parsers/mbdb"
	"github.com/deploymenttheory/go-sparserestore/internal/types"
)

// ErrDuplicateEntry is returned when two entries share a domain and path.
// Blob names are derived from that pair, so the second entry would
// overwrite the first blob while the manifest kept both records.
var ErrDuplicateEntry = errors.New("duplicate backup entry")

const blobPerm = 0o644

// Backup is an ordered set of entries plus the optional application
// metadata copied into Manifest.plist. Entries must not be modified while
// WriteToDirectory runs.
type Backup struct {
	Entries []Entry

	// Applications is written as the Manifest.plist Applications dict,
	// keyed by bundle identifier, when non-empty.
	Applications map[string]interface{}

	// DomainsVersion overrides SystemDomainsVersion in Manifest.plist.
	DomainsVersion string
}

// BlobName returns the file name of an entry's content blob: the SHA-1 of
// domain + "-" + path.
func BlobName(domain, path string) string {
	return digest.HexDigest([]byte(domain + "-" + path))
}

// Validate reports the first pair of entries with the same domain and path.
func (b *Backup) Validate() error {
	seen := make(map[string]int, len(b.Entries))
	for i, e := range b.Entries {
		key := e.Domain() + "-" + e.Path()
		if first, ok := seen[key]; ok {
			return fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateEntry, key, first, i)
		}
		seen[key] = i
	}
	return nil
}

// Records builds the manifest records of every entry in order.
func (b *Backup) Records() (types.Mbdb, error) {
	m := types.Mbdb{Records: make([]types.MbdbRecord, 0, len(b.Entries))}
	for _, e := range b.Entries {
		record, err := e.ToRecord()
		if err != nil {
			return types.Mbdb{}, fmt.Errorf("failed to build record for %s-%s: %w", e.Domain(), e.Path(), err)
		}
		m.Records = append(m.Records, record)
	}
	return m, nil
}

// WriteToDirectory writes the blobs, Manifest.mbdb and the three sidecar
// plists directly under dir, which must already exist.
func (b *Backup) WriteToDirectory(fs afero.Fs, dir string) error {
	if err := b.Validate(); err != nil {
		return err
	}

	for _, e := range b.Entries {
		file, ok := e.(*ConcreteFile)
		if !ok {
			continue
		}
		contents, err := file.Contents()
		if err != nil {
			return err
		}
		blob := filepath.Join(dir, BlobName(file.Domain(), file.Path()))
		if err := afero.WriteFile(fs, blob, contents, blobPerm); err != nil {
			return fmt.Errorf("failed to write blob for %s-%s: %w", file.Domain(), file.Path(), err)
		}
	}

	manifest, err := b.Records()
	if err != nil {
		return err
	}
	encoded, err := mbdb.Encode(manifest)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := afero.WriteFile(fs, filepath.Join(dir, ManifestMbdb), encoded, blobPerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", ManifestMbdb, err)
	}

	sidecars := []struct {
		name  string
		value interface{}
	}{
		{StatusPlist, newStatus()},
		{ManifestPlist, newManifest(b.DomainsVersion, b.Applications)},
		{InfoPlist, map[string]interface{}{}},
	}
	for _, s := range sidecars {
		data, err := marshalBinary(s.value)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", s.name, err)
		}
		if err := afero.WriteFile(fs, filepath.Join(dir, s.name), data, blobPerm); err != nil {
			return fmt.Errorf("failed to write %s: %w", s.name, err)
		}
	}

	return nil
}
