package app

import (
	"errors"
	"fmt"

	"github.com/deploymenttheory/go-sparserestore/internal/backup"
	"github.com/deploymenttheory/go-sparserestore/internal/parsers/mbdb"
	"github.com/deploymenttheory/go-sparserestore/internal/restore"
	"github.com/deploymenttheory/go-sparserestore/internal/services"
)

// CommonError represents application-level errors
type CommonError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CommonError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CommonError) Unwrap() error {
	return e.Cause
}

// Common error codes
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeDecode       = "DECODE"
	ErrCodeIO           = "IO"
	ErrCodeManifest     = "MANIFEST"
	ErrCodeProcess      = "PROCESS"
)

// NewError creates a new CommonError
func NewError(code, message string, cause error) *CommonError {
	return &CommonError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Classify wraps err in a CommonError whose code reflects the failure kind.
// Errors that are already CommonErrors are returned unchanged.
func Classify(message string, err error) error {
	if err == nil {
		return nil
	}

	var common *CommonError
	if errors.As(err, &common) {
		return err
	}

	var (
		procErr     *services.ProcessError
		manifestErr *services.ManifestError
		decodeErr   *mbdb.DecodeError
	)
	switch {
	case errors.As(err, &procErr):
		return NewError(ErrCodeProcess, message, err)
	case errors.As(err, &manifestErr):
		return NewError(ErrCodeManifest, message, err)
	case errors.As(err, &decodeErr),
		errors.Is(err, mbdb.ErrBadMagic),
		errors.Is(err, mbdb.ErrBadVersion):
		return NewError(ErrCodeDecode, message, err)
	case errors.Is(err, restore.ErrEmptyPath),
		errors.Is(err, restore.ErrTrailingSlash),
		errors.Is(err, backup.ErrDuplicateEntry):
		return NewError(ErrCodeInvalidInput, message, err)
	default:
		return NewError(ErrCodeIO, message, err)
	}
}

// CodeOf returns the CommonError code of err, or "" when it has none.
func CodeOf(err error) string {
	var common *CommonError
	if errors.As(err, &common) {
		return common.Code
	}
	return ""
}
