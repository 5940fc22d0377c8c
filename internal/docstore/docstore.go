// Package docstore keeps fragment text and metadata at integer positions
// aligned with the vector index, so a numeric match resolves back to
// human-readable content.
package docstore

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/gzip"

	"github.com/father-fjv/ChanceRAG/internal/domain"
)

// Persisted artifact names inside the store directory. Texts and metadata
// are kept as separate position-aligned sequences.
const (
	DocumentsFile = "documents.gob.gz"
	MetadataFile  = "metadata.gob.gz"
)

// fragmentMeta is the persisted per-fragment metadata record.
type fragmentMeta struct {
	SourcePath string
	Filename   string
	PageNumber int
	ChunkIndex int
}

// Store is an append-only, position-aligned fragment store.
type Store struct {
	mu        sync.RWMutex
	fragments []domain.Fragment
}

// New creates an empty store.
func New() *Store { return &Store{} }

// Append adds fragments in the given order, preserving position alignment
// with the corresponding vector index insert.
func (s *Store) Append(fragments []domain.Fragment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fragments = append(s.fragments, fragments...)
}

// Get returns the fragment at position. A missing position signals
// misaligned containers.
func (s *Store) Get(position int) (domain.Fragment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if position < 0 || position >= len(s.fragments) {
		return domain.Fragment{}, &domain.OutOfRangeError{Position: position, Size: len(s.fragments)}
	}
	return s.fragments[position], nil
}

// Len returns the number of stored fragments.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fragments)
}

// Save writes the document and metadata sequences into dir.
func (s *Store) Save(dir string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	texts := make([]string, len(s.fragments))
	metas := make([]fragmentMeta, len(s.fragments))
	for i, f := range s.fragments {
		texts[i] = f.Text
		metas[i] = fragmentMeta{
			SourcePath: f.SourcePath,
			Filename:   f.Filename,
			PageNumber: f.PageNumber,
			ChunkIndex: f.ChunkIndex,
		}
	}
	if err := writeSnapshot(filepath.Join(dir, DocumentsFile), texts); err != nil {
		return err
	}
	return writeSnapshot(filepath.Join(dir, MetadataFile), metas)
}

// Load fully replaces the in-memory state with the sequences persisted in
// dir. It fails closed: on any decode error or count mismatch between the
// two artifacts the store keeps its prior state.
func (s *Store) Load(dir string) error {
	var texts []string
	if err := readSnapshot(filepath.Join(dir, DocumentsFile), &texts); err != nil {
		return err
	}
	var metas []fragmentMeta
	if err := readSnapshot(filepath.Join(dir, MetadataFile), &metas); err != nil {
		return err
	}
	if len(texts) != len(metas) {
		return &domain.PersistenceError{
			Op:   "load",
			Path: dir,
			Err:  fmt.Errorf("document count %d does not match metadata count %d", len(texts), len(metas)),
		}
	}
	fragments := make([]domain.Fragment, len(texts))
	for i := range texts {
		fragments[i] = domain.Fragment{
			Text:       texts[i],
			SourcePath: metas[i].SourcePath,
			Filename:   metas[i].Filename,
			PageNumber: metas[i].PageNumber,
			ChunkIndex: metas[i].ChunkIndex,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fragments = fragments
	return nil
}

// writeSnapshot gob-encodes v through gzip to a temp file and renames it
// into place.
func writeSnapshot(path string, v any) error {
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return &domain.PersistenceError{Op: "save", Path: path, Err: err}
	}
	zw := gzip.NewWriter(file)
	if err := gob.NewEncoder(zw).Encode(v); err != nil {
		file.Close()
		os.Remove(tmp)
		return &domain.PersistenceError{Op: "save", Path: path, Err: err}
	}
	if err := zw.Close(); err != nil {
		file.Close()
		os.Remove(tmp)
		return &domain.PersistenceError{Op: "save", Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return &domain.PersistenceError{Op: "save", Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		return &domain.PersistenceError{Op: "save", Path: path, Err: err}
	}
	return nil
}

func readSnapshot(path string, v any) error {
	file, err := os.Open(path)
	if err != nil {
		return &domain.PersistenceError{Op: "load", Path: path, Err: err}
	}
	defer file.Close()
	zr, err := gzip.NewReader(file)
	if err != nil {
		return &domain.PersistenceError{Op: "load", Path: path, Err: err}
	}
	defer zr.Close()
	if err := gob.NewDecoder(zr).Decode(v); err != nil {
		return &domain.PersistenceError{Op: "load", Path: path, Err: err}
	}
	return nil
}
