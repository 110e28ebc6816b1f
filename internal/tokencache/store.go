package tokencache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Status classifies the outcome of a cache read.
type Status int

const (
	// Valid means the cache file existed and parsed into the target value.
	Valid Status = iota

	// NoCache means the cache file does not exist or cannot be read. This is
	// the normal state before the first authorization.
	NoCache

	// Corrupt means the cache file exists but does not contain valid JSON.
	Corrupt
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case Valid:
		return "valid"
	case NoCache:
		return "no cache"
	case Corrupt:
		return "corrupt"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Store reads and writes a single JSON document at a fixed path.
//
// The file is not locked: concurrent writers from multiple processes can
// race. Single-writer use is assumed.
type Store struct {
	path string
}

// New creates a store for the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the cache file path.
func (s *Store) Path() string {
	return s.path
}

// Read unmarshals the cache file into v and reports how the read went.
// v is left untouched unless the returned status is Valid.
func (s *Store) Read(v any) Status {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return NoCache
	}
	if err := json.Unmarshal(data, v); err != nil {
		return Corrupt
	}
	return Valid
}

// Write marshals v and replaces the cache file, creating the parent
// directory if needed. The file is written with owner-only permissions
// since it holds credentials.
func (s *Store) Write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal token cache: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	return nil
}
