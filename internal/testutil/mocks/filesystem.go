package mocks

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/groundwork-sh/groundwork/internal/ports"
)

// FileSystem is a thread-safe in-memory test double for
// ports.FileSystem.
type FileSystem struct {
	mu         sync.RWMutex
	files      map[string][]byte
	modes      map[string]os.FileMode
	dirs       map[string]bool
	writes     []string
	failWrites map[string]error
}

// NewFileSystem creates a new FileSystem mock.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files:      make(map[string][]byte),
		modes:      make(map[string]os.FileMode),
		dirs:       make(map[string]bool),
		failWrites: make(map[string]error),
	}
}

// FailWriteOn makes WriteFile to the given path return the error.
func (fs *FileSystem) FailWriteOn(path string, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.failWrites[path] = err
}

// AddFile adds a file to the mock filesystem.
func (fs *FileSystem) AddFile(path string, content string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = []byte(content)
	fs.modes[path] = 0o644
}

// AddDir adds a directory to the mock filesystem.
func (fs *FileSystem) AddDir(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path] = true
}

// Writes returns the paths written since creation, in order.
func (fs *FileSystem) Writes() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	writes := make([]string, len(fs.writes))
	copy(writes, fs.writes)
	return writes
}

// ReadFile reads a file from the mock filesystem.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if content, ok := fs.files[path]; ok {
		out := make([]byte, len(content))
		copy(out, content)
		return out, nil
	}
	return nil, fmt.Errorf("file not found: %s", path)
}

// WriteFile writes a file to the mock filesystem.
func (fs *FileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err, ok := fs.failWrites[path]; ok {
		return err
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	fs.files[path] = stored
	fs.modes[path] = perm
	fs.writes = append(fs.writes, path)
	return nil
}

// Exists checks if a path exists in the mock filesystem.
func (fs *FileSystem) Exists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	_, fileExists := fs.files[path]
	return fileExists || fs.dirs[path]
}

// IsDir checks if a path is a directory.
func (fs *FileSystem) IsDir(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.dirs[path]
}

// MkdirAll creates a directory in the mock filesystem.
func (fs *FileSystem) MkdirAll(path string, _ os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path] = true
	return nil
}

// Chmod records a mode change.
func (fs *FileSystem) Chmod(path string, mode os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.files[path]; !ok && !fs.dirs[path] {
		return fmt.Errorf("file not found: %s", path)
	}
	fs.modes[path] = mode
	return nil
}

// Mode returns the recorded mode for a path.
func (fs *FileSystem) Mode(path string) (os.FileMode, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	mode, ok := fs.modes[path]
	return mode, ok
}

// Remove removes a path from the mock filesystem.
func (fs *FileSystem) Remove(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.files, path)
	delete(fs.modes, path)
	delete(fs.dirs, path)
	return nil
}

// GetFileInfo returns metadata for a path.
func (fs *FileSystem) GetFileInfo(path string) (ports.FileInfo, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if content, ok := fs.files[path]; ok {
		mode := fs.modes[path]
		return ports.FileInfo{
			Size:    int64(len(content)),
			Mode:    mode,
			ModTime: time.Now(),
		}, nil
	}
	if fs.dirs[path] {
		mode := os.FileMode(0o755)
		if m, ok := fs.modes[path]; ok {
			mode = m
		}
		return ports.FileInfo{IsDir: true, Mode: mode | os.ModeDir}, nil
	}
	return ports.FileInfo{}, fmt.Errorf("file not found: %s", path)
}

// ListDir returns the immediate children of a directory.
func (fs *FileSystem) ListDir(path string) ([]string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if !fs.dirs[path] {
		return nil, fmt.Errorf("not a directory: %s", path)
	}

	seen := make(map[string]struct{})
	prefix := strings.TrimSuffix(path, "/") + "/"
	for candidate := range fs.files {
		if strings.HasPrefix(candidate, prefix) {
			rest := strings.TrimPrefix(candidate, prefix)
			seen[strings.SplitN(rest, "/", 2)[0]] = struct{}{}
		}
	}
	for candidate := range fs.dirs {
		if strings.HasPrefix(candidate, prefix) {
			rest := strings.TrimPrefix(candidate, prefix)
			seen[strings.SplitN(rest, "/", 2)[0]] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Ensure FileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*FileSystem)(nil)
