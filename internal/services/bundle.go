package services

import (
	"archive/tar"
	"fmt"
	"io"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
)

// BundleDirectory writes the regular files directly under dir to w as a
// zstd-compressed tar stream. Archive directories are flat, so
// subdirectories are not descended into.
func BundleDirectory(fs afero.Fs, dir string, w io.Writer) error {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	tw := tar.NewWriter(enc)

	for _, info := range infos {
		if !info.Mode().IsRegular() {
			continue
		}
		data, err := afero.ReadFile(fs, filepath.Join(dir, info.Name()))
		if err != nil {
			enc.Close()
			return fmt.Errorf("failed to read %s: %w", info.Name(), err)
		}
		hdr := &tar.Header{
			Name:    info.Name(),
			Mode:    int64(info.Mode().Perm()),
			Size:    int64(len(data)),
			ModTime: info.ModTime(),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			enc.Close()
			return fmt.Errorf("failed to write tar header for %s: %w", info.Name(), err)
		}
		if _, err := tw.Write(data); err != nil {
			enc.Close()
			return fmt.Errorf("failed to write %s to bundle: %w", info.Name(), err)
		}
	}

	if err := tw.Close(); err != nil {
		enc.Close()
		return fmt.Errorf("failed to finish tar stream: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish zstd stream: %w", err)
	}
	return nil
}
