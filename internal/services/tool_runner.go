package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ExecRunner runs tools as local subprocesses.
type ExecRunner struct{}

// NewExecRunner creates a subprocess-backed ToolRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts tool with args and waits for it, capturing stdout and stderr.
func (ExecRunner) Run(ctx context.Context, tool string, args ...string) (ToolResult, error) {
	cmd := exec.CommandContext(ctx, tool, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := ToolResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.Success = true
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return result, fmt.Errorf("failed to run %s: %w", tool, err)
	}

	return result, nil
}
