package inspect

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-sparserestore/internal/backup"
	"github.com/deploymenttheory/go-sparserestore/internal/parsers/mbdb"
	"github.com/deploymenttheory/go-sparserestore/pkg/app"
)

// Handle processes an inspection request
func Handle(ctx *app.Context, fs afero.Fs, req *Request) (*Response, error) {
	startTime := time.Now()

	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. Accept an archive directory as well as the manifest itself
	path := req.ManifestPath
	if info, err := fs.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, backup.ManifestMbdb)
	}

	ctx.Log("reading manifest", "path", path)
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("manifest not found: %s", path), err)
		}
		return nil, app.NewError(app.ErrCodeIO, "failed to read manifest", err)
	}

	// 3. Decode
	manifest, err := mbdb.DecodeWithOptions(data, mbdb.Options{Lenient: req.Lenient})
	if err != nil {
		return nil, app.Classify("failed to decode manifest", err)
	}

	// 4. Filter
	response := &Response{
		ManifestPath: path,
		TotalRecords: len(manifest.Records),
	}
	for _, record := range manifest.Records {
		if req.Domain != "" && record.Domain != req.Domain {
			continue
		}
		if req.PathPrefix != "" && !strings.HasPrefix(record.Path, req.PathPrefix) {
			continue
		}
		response.Records = append(response.Records, newRecordResult(record))
		response.TotalSize += record.Size
	}
	response.Matched = len(response.Records)
	response.DecodeTime = time.Since(startTime)

	ctx.Log("inspection completed", "records", response.TotalRecords, "matched", response.Matched)
	return response, nil
}
