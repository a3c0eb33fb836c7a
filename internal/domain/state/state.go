// Package state persists structured sentinel records for completed
// provisioning runs. The records are advisory history for the operator
// and for doctor reporting; per-file idempotency stays with the profile
// markers themselves.
package state

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/groundwork-sh/groundwork/internal/ports"
)

// DefaultPath is where run records live on the host.
const DefaultPath = "/var/lib/groundwork/state.toml"

// StepRecord captures one step's outcome within a run record.
type StepRecord struct {
	ID     string `toml:"id"`
	Status string `toml:"status"`
}

// Record is the sentinel for one provisioning run.
type Record struct {
	ID         string       `toml:"id"`
	Host       string       `toml:"host"`
	StartedAt  time.Time    `toml:"started_at"`
	FinishedAt time.Time    `toml:"finished_at"`
	Aborted    bool         `toml:"aborted"`
	Steps      []StepRecord `toml:"steps,omitempty"`
}

// NewRecord starts a run record with a fresh run ID.
func NewRecord(host string) Record {
	return Record{
		ID:        uuid.New().String(),
		Host:      host,
		StartedAt: time.Now().UTC(),
	}
}

// Document is the full on-disk state file.
type Document struct {
	Runs []Record `toml:"runs"`
}

// LastRun returns the most recently appended run record.
func (d *Document) LastRun() (Record, bool) {
	if len(d.Runs) == 0 {
		return Record{}, false
	}
	return d.Runs[len(d.Runs)-1], true
}

// Store reads and appends run records.
type Store struct {
	fs   ports.FileSystem
	path string
}

// NewStore creates a store at the default path.
func NewStore(fs ports.FileSystem) *Store {
	return &Store{fs: fs, path: DefaultPath}
}

// WithPath overrides the state file location.
func (s *Store) WithPath(path string) *Store {
	s.path = path
	return s
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the state file. A missing file is an empty document.
func (s *Store) Load() (*Document, error) {
	if !s.fs.Exists(s.path) {
		return &Document{}, nil
	}

	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", s.path, err)
	}
	return &doc, nil
}

// Append records a finished run. The state directory is created on first
// use.
func (s *Store) Append(rec Record) error {
	doc, err := s.Load()
	if err != nil {
		return err
	}

	doc.Runs = append(doc.Runs, rec)

	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode state file: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	return s.fs.WriteFile(s.path, data, 0o644)
}
