// Package kv provides the string-keyed slot storage goalpost persists into.
package kv

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

// Store is a flat string key-value store. Each key is a single slot holding
// one string value.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Disk is a Store backed by one file per key under a base directory.
type Disk struct {
	d   *diskv.Diskv
	dir string
}

// NewDisk creates a Disk store rooted at dir, creating it if needed.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("kv: ensure base path: %w", err)
	}
	return &Disk{
		d: diskv.New(diskv.Options{
			BasePath: dir,
			TempDir:  filepath.Join(dir, ".tmp"),
		}),
		dir: dir,
	}, nil
}

// Dir returns the directory the store writes into.
func (s *Disk) Dir() string {
	return s.dir
}

// Get returns the value for key. The bool is false if the key is absent.
// Reads always go to disk so writes from another process are seen.
func (s *Disk) Get(key string) (string, bool, error) {
	rc, err := s.d.ReadStream(key, true)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("kv: read %s: %w", key, err)
	}
	defer rc.Close()
	val, err := io.ReadAll(rc)
	if err != nil {
		return "", false, fmt.Errorf("kv: read %s: %w", key, err)
	}
	return string(val), true, nil
}

// Set writes value under key, replacing any existing value.
func (s *Disk) Set(key, value string) error {
	if err := s.d.Write(key, []byte(value)); err != nil {
		return fmt.Errorf("kv: write %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Disk) Delete(key string) error {
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("kv: erase %s: %w", key, err)
	}
	return nil
}

// Memory is an in-process Store, used by tests and dry runs.
type Memory struct {
	mu sync.Mutex
	m  map[string]string

	// WriteErr, when set, is returned by Set and Delete without changing
	// anything. It simulates a full quota.
	WriteErr error
	// Writes counts Set calls, including failed ones.
	Writes int
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

func (s *Memory) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *Memory) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Writes++
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.m[key] = value
	return nil
}

func (s *Memory) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WriteErr != nil {
		return s.WriteErr
	}
	delete(s.m, key)
	return nil
}
