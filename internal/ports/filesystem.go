package ports

import (
	"os"
	"time"
)

// FileInfo contains file metadata.
type FileInfo struct {
	Size    int64
	Mode    os.FileMode
	ModTime time.Time
	IsDir   bool
}

// FileSystem provides the filesystem operations the provisioning steps
// need: marker-delimited text files, profile fragments, skeleton files,
// and directory creation with explicit permission bits.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Exists(path string) bool
	IsDir(path string) bool
	MkdirAll(path string, perm os.FileMode) error
	Chmod(path string, mode os.FileMode) error
	Remove(path string) error
	GetFileInfo(path string) (FileInfo, error)
	ListDir(path string) ([]string, error)
}
