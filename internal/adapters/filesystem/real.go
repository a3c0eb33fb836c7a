// Package filesystem provides the real filesystem adapter.
package filesystem

import (
	"os"

	"github.com/groundwork-sh/groundwork/internal/ports"
)

// Real implements ports.FileSystem against the host filesystem.
type Real struct{}

// NewReal creates a new Real filesystem.
func NewReal() *Real {
	return &Real{}
}

// ReadFile reads the file at path.
func (f *Real) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to path with the given permissions.
func (f *Real) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

// Exists checks whether path exists.
func (f *Real) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsDir checks whether path is a directory.
func (f *Real) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// MkdirAll creates the directory and any missing parents.
func (f *Real) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Chmod changes the mode of path.
func (f *Real) Chmod(path string, mode os.FileMode) error {
	return os.Chmod(path, mode)
}

// Remove removes path.
func (f *Real) Remove(path string) error {
	return os.Remove(path)
}

// GetFileInfo returns file metadata.
func (f *Real) GetFileInfo(path string) (ports.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ports.FileInfo{}, err
	}
	return ports.FileInfo{
		Size:    info.Size(),
		Mode:    info.Mode(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}, nil
}

// ListDir returns the entry names in a directory.
func (f *Real) ListDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

// Ensure Real implements ports.FileSystem.
var _ ports.FileSystem = (*Real)(nil)
