package restore

import (
	"fmt"

	"github.com/deploymenttheory/go-sparserestore/internal/backup"
)

// Expand turns one request into its entries, in order: the parent
// directory (when the file is not at the domain root), the file or link,
// and a crash-report artifact.
func Expand(req Request) ([]backup.Entry, error) {
	res, err := Resolve(req)
	if err != nil {
		return nil, err
	}

	var entries []backup.Entry
	if parent := parentDir(res.Path); parent != "" {
		entries = append(entries, backup.NewDirectory(res.Domain, parent,
			backup.WithOwner(req.Owner), backup.WithGroup(req.Group)))
	}

	opts := []backup.Option{
		backup.WithOwner(req.Owner),
		backup.WithGroup(req.Group),
		backup.WithMode(req.Mode),
	}
	if req.LinkTarget != "" {
		entries = append(entries, backup.NewSymbolicLink(res.Domain, res.Path, req.LinkTarget, opts...))
	} else {
		entries = append(entries, backup.NewConcreteFile(res.Domain, res.Path, req.Contents, opts...))
	}

	entries = append(entries, NewCrashReport(res.ArtifactDomain))
	return entries, nil
}

// ExpandAll expands every request in order. Directory entries that repeat
// an earlier directory's domain and path are dropped; any other repeat is
// left in place for the assembler to reject.
func ExpandAll(reqs []Request) ([]backup.Entry, error) {
	var entries []backup.Entry
	seenDirs := make(map[string]bool)

	for i, req := range reqs {
		expanded, err := Expand(req)
		if err != nil {
			return nil, fmt.Errorf("request %d (%s): %w", i, req.Path, err)
		}
		for _, e := range expanded {
			if _, ok := e.(*backup.Directory); ok {
				key := e.Domain() + "-" + e.Path()
				if seenDirs[key] {
					continue
				}
				seenDirs[key] = true
			}
			entries = append(entries, e)
		}
	}

	return entries, nil
}
