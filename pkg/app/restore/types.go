package restore

import (
	"context"
	"time"

	"github.com/deploymenttheory/go-sparserestore/internal/restore"
	"github.com/deploymenttheory/go-sparserestore/internal/services"
)

// Item is one entry of a request file.
type Item struct {
	Path         string  `json:"path" yaml:"path"`
	Domain       string  `json:"domain,omitempty" yaml:"domain,omitempty"`
	Contents     *string `json:"contents,omitempty" yaml:"contents,omitempty"`
	ContentsFile string  `json:"contents_file,omitempty" yaml:"contents_file,omitempty"`
	LinkTarget   string  `json:"link_target,omitempty" yaml:"link_target,omitempty"`
	Owner        *uint32 `json:"owner,omitempty" yaml:"owner,omitempty"`
	Group        *uint32 `json:"group,omitempty" yaml:"group,omitempty"`
	// Mode is an octal permission string such as "0644".
	Mode        string `json:"mode,omitempty" yaml:"mode,omitempty"`
	UsesDomains bool   `json:"uses_domains,omitempty" yaml:"uses_domains,omitempty"`
}

// RequestFile is the document shape of a request file.
type RequestFile struct {
	Requests []Item `json:"requests" yaml:"requests"`
}

// Request represents a restore onto a device
type Request struct {
	Requests []restore.Request

	SkipReferenceBackup bool
	Reboot              bool

	// Timeout bounds the whole pipeline. Zero means no limit.
	Timeout time.Duration
}

// BuildRequest represents assembling an archive to a persistent directory
type BuildRequest struct {
	Requests []restore.Request

	OutputDir string
	// BundlePath, when set, also writes the archive as a zstd tarball.
	BundlePath string
}

// Response is the outcome of a restore or build
type Response struct {
	Success    bool   `json:"success" yaml:"success"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
	Code       string `json:"code,omitempty" yaml:"code,omitempty"`
	Entries    int    `json:"entries" yaml:"entries"`
	Rebooted   bool   `json:"rebooted,omitempty" yaml:"rebooted,omitempty"`
	OutputDir  string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	BundlePath string `json:"bundle_path,omitempty" yaml:"bundle_path,omitempty"`
	Stdout     string `json:"stdout,omitempty" yaml:"stdout,omitempty"`
}

// Restorer applies restore requests to a device.
type Restorer interface {
	Restore(ctx context.Context, reqs []restore.Request, opts services.RestoreOptions) (*services.RestoreResult, error)
}

// Assembler writes an archive for restore requests into a directory.
type Assembler interface {
	Assemble(reqs []restore.Request, dir string, applications map[string]interface{}) (int, error)
}
