package restore

import (
	"errors"
	"path/filepath"

	"github.com/deploymenttheory/go-sparserestore/pkg/app"
)

// Validate validates a request file item
func (it Item) Validate() error {
	if it.Path == "" {
		return errors.New("path is required")
	}
	if it.Contents != nil && it.ContentsFile != "" {
		return errors.New("contents and contents_file are mutually exclusive")
	}
	if it.LinkTarget != "" && (it.Contents != nil || it.ContentsFile != "") {
		return errors.New("a symbolic link cannot carry contents")
	}
	return nil
}

// Validate validates a restore request
func (r *Request) Validate() error {
	if len(r.Requests) == 0 {
		return app.NewError(app.ErrCodeInvalidInput, "at least one restore request is required", nil)
	}
	if r.Timeout < 0 {
		return app.NewError(app.ErrCodeInvalidInput, "timeout must not be negative", nil)
	}
	return nil
}

// Validate validates a build request
func (r *BuildRequest) Validate() error {
	if len(r.Requests) == 0 {
		return app.NewError(app.ErrCodeInvalidInput, "at least one restore request is required", nil)
	}
	if r.OutputDir == "" {
		return app.NewError(app.ErrCodeInvalidInput, "output directory is required", nil)
	}
	if r.BundlePath != "" && filepath.Clean(filepath.Dir(r.BundlePath)) == filepath.Clean(r.OutputDir) {
		return app.NewError(app.ErrCodeInvalidInput, "bundle must be written outside the output directory", nil)
	}
	return nil
}
