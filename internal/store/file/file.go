// Package file implements the JSON-file persistence backend. Each entity
// collection is one pretty-printed JSON array on disk; every mutation
// reads the whole array, rewrites it in full, and is serialised by a
// per-collection lock. The backend assumes single-process access.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	colUsers        = "users"
	colCourses      = "courses"
	colEnrollments  = "enrollments"
	colHistory      = "enrollment_history"
	colBooks        = "books"
	colLoans        = "borrowed_books"
	colReservations = "reserved_books"
	colDepartments  = "departments"
	colEmployees    = "employees"
	colAttendance   = "attendance"
	colLeaves       = "leaves"
)

var collections = []string{
	colUsers, colCourses, colEnrollments, colHistory, colBooks,
	colLoans, colReservations, colDepartments, colEmployees,
	colAttendance, colLeaves,
}

// Store is the file-backed implementation of the persistence contract.
type Store struct {
	dataDir string
	locks   map[string]*sync.RWMutex
}

// New prepares the data directory, creates the collection lock table and
// optionally writes the default dataset for collections that do not exist
// yet. Seeding is an explicit one-shot initialisation, not a hidden
// module-level default.
func New(dataDir string, seed bool) (*Store, error) {
	if dataDir == "" {
		dataDir = "./data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	locks := make(map[string]*sync.RWMutex, len(collections))
	for _, name := range collections {
		locks[name] = &sync.RWMutex{}
	}

	s := &Store{dataDir: dataDir, locks: locks}
	if seed {
		if err := s.seed(); err != nil {
			return nil, fmt.Errorf("seed file store: %w", err)
		}
	}
	return s, nil
}

// Kind names the backend.
func (s *Store) Kind() string { return "file" }

// Ping verifies the data directory is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	_, err := os.Stat(s.dataDir)
	return err
}

// Close is a no-op for the file backend.
func (s *Store) Close() error { return nil }

func (s *Store) path(collection string) string {
	return filepath.Join(s.dataDir, collection+".json")
}

// read unmarshals a whole collection into out (a pointer to a slice).
// A missing file reads as an empty collection.
func (s *Store) read(collection string, out interface{}) error {
	data, err := os.ReadFile(s.path(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", collection, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}

// write rewrites a whole collection. Two-space indentation keeps the
// on-disk layout inspectable.
func (s *Store) write(collection string, in interface{}) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	if err := os.WriteFile(s.path(collection), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", collection, err)
	}
	return nil
}

func (s *Store) exists(collection string) bool {
	_, err := os.Stat(s.path(collection))
	return err == nil
}
