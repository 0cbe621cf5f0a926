package restore

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-sparserestore/internal/services"
	"github.com/deploymenttheory/go-sparserestore/pkg/app"
)

// Handle applies a restore request through svc. A failed restore still
// yields a Response carrying the message, alongside the error.
func Handle(ctx *app.Context, svc Restorer, req *Request) (*Response, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return failure(err), err
	}

	ctx.Progress("restoring", 0)

	// 2. Run the pipeline
	runCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = ctx.WithTimeout(req.Timeout)
		defer cancel()
	}

	result, err := svc.Restore(runCtx, req.Requests, services.RestoreOptions{
		SkipReferenceBackup: req.SkipReferenceBackup,
		Reboot:              req.Reboot,
	})
	if err != nil {
		err = app.Classify("restore failed", err)
		ctx.Error("restore failed", "error", err)
		return failure(err), err
	}

	ctx.Progress("restored", 100)
	ctx.Log("restore completed", "entries", result.Entries, "rebooted", result.Rebooted)

	return &Response{
		Success:  true,
		Message:  fmt.Sprintf("restored %d entries", result.Entries),
		Entries:  result.Entries,
		Rebooted: result.Rebooted,
		Stdout:   result.Stdout,
	}, nil
}

// HandleBuild assembles an archive into req.OutputDir without any device
// interaction, optionally bundling it as a zstd tarball. The output
// directory must be absent or empty so no stale blob outlives its record.
func HandleBuild(ctx *app.Context, fs afero.Fs, svc Assembler, req *BuildRequest) (*Response, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return failure(err), err
	}

	// 2. Assemble
	if err := fs.MkdirAll(req.OutputDir, 0o755); err != nil {
		err = app.NewError(app.ErrCodeIO, "failed to create output directory", err)
		return failure(err), err
	}
	empty, err := afero.IsEmpty(fs, req.OutputDir)
	if err != nil {
		err = app.NewError(app.ErrCodeIO, "failed to inspect output directory", err)
		return failure(err), err
	}
	if !empty {
		err := app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("output directory %s is not empty", req.OutputDir), nil)
		return failure(err), err
	}

	ctx.Progress("assembling", 0)
	count, err := svc.Assemble(req.Requests, req.OutputDir, nil)
	if err != nil {
		err = app.Classify("build failed", err)
		return failure(err), err
	}
	ctx.Log("archive built", "dir", req.OutputDir, "entries", count)
	ctx.Progress("assembled", 50)

	response := &Response{
		Success:   true,
		Message:   fmt.Sprintf("built archive with %d entries", count),
		Entries:   count,
		OutputDir: req.OutputDir,
	}

	// 3. Bundle
	if req.BundlePath != "" {
		if err := writeBundle(fs, req.OutputDir, req.BundlePath); err != nil {
			err = app.NewError(app.ErrCodeIO, "failed to bundle archive", err)
			return failure(err), err
		}
		response.BundlePath = req.BundlePath
		ctx.Log("archive bundled", "path", req.BundlePath)
	}

	ctx.Progress("built", 100)
	return response, nil
}

func writeBundle(fs afero.Fs, dir, path string) (err error) {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return services.BundleDirectory(fs, dir, f)
}

func failure(err error) *Response {
	return &Response{
		Success: false,
		Message: err.Error(),
		Code:    app.CodeOf(err),
	}
}
