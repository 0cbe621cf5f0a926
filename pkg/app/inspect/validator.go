package inspect

import (
	"github.com/deploymenttheory/go-sparserestore/pkg/app"
)

// Validate validates an inspection request
func (r *Request) Validate() error {
	if r.ManifestPath == "" {
		return app.NewError(app.ErrCodeInvalidInput, "manifest path is required", nil)
	}
	return nil
}
