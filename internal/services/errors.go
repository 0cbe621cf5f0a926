package services

import (
	"fmt"
	"strings"
)

// ProcessError reports a transfer-tool invocation that exited nonzero.
type ProcessError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s %s exited with status %d", e.Tool, strings.Join(e.Args, " "), e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// ManifestError reports a reference backup whose Manifest.plist is missing
// or cannot be parsed.
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("reference manifest: %v", e.Err)
	}
	return fmt.Sprintf("reference manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}
