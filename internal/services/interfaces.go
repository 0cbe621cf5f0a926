package services

import "context"

// ToolResult is the outcome of one transfer-tool invocation.
type ToolResult struct {
	Success  bool
	ExitCode int
	Stdout   string
	Stderr   string
}

// ToolRunner runs an external command-line tool to completion. An error
// means the tool could not be run at all; a tool that ran and exited
// nonzero is reported through ToolResult.Success.
type ToolRunner interface {
	Run(ctx context.Context, tool string, args ...string) (ToolResult, error)
}
