package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deploymenttheory/go-sparserestore/internal/backup"
	"github.com/deploymenttheory/go-sparserestore/internal/parsers/mbdb"
	"github.com/deploymenttheory/go-sparserestore/internal/restore"
	"github.com/deploymenttheory/go-sparserestore/internal/services"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"process", fmt.Errorf("wrapped: %w", &services.ProcessError{Tool: "idevicebackup2"}), ErrCodeProcess},
		{"manifest", &services.ManifestError{Err: errors.New("missing")}, ErrCodeManifest},
		{"bad magic", fmt.Errorf("x: %w", mbdb.ErrBadMagic), ErrCodeDecode},
		{"bad record", &mbdb.DecodeError{Err: mbdb.ErrTruncatedRecord}, ErrCodeDecode},
		{"empty path", fmt.Errorf("request 0: %w", restore.ErrEmptyPath), ErrCodeInvalidInput},
		{"trailing slash", fmt.Errorf("request 0: %w", restore.ErrTrailingSlash), ErrCodeInvalidInput},
		{"duplicate", backup.ErrDuplicateEntry, ErrCodeInvalidInput},
		{"io", errors.New("disk full"), ErrCodeIO},
		{"already classified", NewError(ErrCodeInvalidInput, "bad", nil), ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify("restore failed", tt.err)
			assert.Equal(t, tt.code, CodeOf(err))
			if tt.name != "already classified" {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}

	assert.Nil(t, Classify("x", nil))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
}

func TestCommonErrorMessage(t *testing.T) {
	err := NewError(ErrCodeIO, "failed to write archive", errors.New("disk full"))
	assert.Equal(t, "failed to write archive: disk full", err.Error())
	assert.Equal(t, "no cause", NewError(ErrCodeIO, "no cause", nil).Error())
}
