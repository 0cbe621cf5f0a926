package restore

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-sparserestore/internal/config"
	"github.com/deploymenttheory/go-sparserestore/internal/restore"
	"github.com/deploymenttheory/go-sparserestore/internal/types"
	"github.com/deploymenttheory/go-sparserestore/pkg/app"
)

// LoadRequests reads a YAML or JSON request file and converts its items,
// filling unset owner, group and mode from cfg. A relative contents_file
// is resolved against the request file's directory.
func LoadRequests(fs afero.Fs, path string, cfg *config.Config) ([]restore.Request, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, app.NewError(app.ErrCodeIO, "failed to read request file", err)
	}

	// JSON documents are valid YAML.
	var file RequestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("failed to parse request file %s", path), err)
	}
	if len(file.Requests) == 0 {
		return nil, app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("request file %s has no requests", path), nil)
	}

	baseDir := filepath.Dir(path)
	reqs := make([]restore.Request, 0, len(file.Requests))
	for i, item := range file.Requests {
		req, err := item.toRequest(fs, baseDir, cfg)
		if err != nil {
			return nil, app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("request %d (%s)", i, item.Path), err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func (it Item) toRequest(fs afero.Fs, baseDir string, cfg *config.Config) (restore.Request, error) {
	if err := it.Validate(); err != nil {
		return restore.Request{}, err
	}

	req := restore.Request{
		Path:        it.Path,
		Domain:      it.Domain,
		LinkTarget:  it.LinkTarget,
		Owner:       cfg.DefaultOwner,
		Group:       cfg.DefaultGroup,
		Mode:        types.FileMode(cfg.DefaultMode),
		UsesDomains: it.UsesDomains,
	}
	if it.Owner != nil {
		req.Owner = *it.Owner
	}
	if it.Group != nil {
		req.Group = *it.Group
	}
	if it.Mode != "" {
		mode, err := parseMode(it.Mode)
		if err != nil {
			return restore.Request{}, err
		}
		req.Mode = mode
	}

	switch {
	case it.Contents != nil:
		req.Contents = []byte(*it.Contents)
	case it.ContentsFile != "":
		name := it.ContentsFile
		if !filepath.IsAbs(name) {
			name = filepath.Join(baseDir, name)
		}
		data, err := afero.ReadFile(fs, name)
		if err != nil {
			return restore.Request{}, fmt.Errorf("failed to read contents file: %w", err)
		}
		req.Contents = data
	}

	return req, nil
}

func parseMode(s string) (types.FileMode, error) {
	v, err := strconv.ParseUint(s, 8, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid mode %q: %w", s, err)
	}
	mode := types.FileMode(v)
	if mode.Type() != 0 {
		return 0, fmt.Errorf("mode %q must carry permission bits only", s)
	}
	return mode, nil
}
