package repository

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/taskmaster/desk/internal/domain/entities"
	"github.com/taskmaster/desk/internal/infrastructure/jsonfile"
)

// Record is implemented by the pointer type of every stored record.
type Record[T any] interface {
	*T
	GetID() string
	SetID(string)
}

// FileStore keeps an ordered list of records in memory and mirrors it to a
// JSON array on disk. Every mutation goes through Mutate, which persists the
// whole list and restores the previous list if the write fails.
type FileStore[T any, P Record[T]] struct {
	mu     sync.RWMutex
	path   string
	backup bool
	items  []T
	lock   *flock.Flock
}

// FileStoreOptions configures OpenFileStore
type FileStoreOptions struct {
	// Backup keeps a copy of the previous file at <path>.bak on every save.
	Backup bool
	// ResetCorrupt moves an unreadable file aside and starts empty instead of
	// failing with ErrCorruptStore.
	ResetCorrupt bool
}

// OpenFileStore takes the advisory lock for path and loads it.
func OpenFileStore[T any, P Record[T]](path string, opts FileStoreOptions) (*FileStore[T, P], error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	lk := flock.New(path + ".lock")
	locked, err := lk.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", path, entities.ErrStoreLocked)
	}

	s := &FileStore[T, P]{path: path, backup: opts.Backup, lock: lk}

	items, assigned, err := s.load()
	if errors.Is(err, entities.ErrCorruptStore) && opts.ResetCorrupt {
		if err = s.quarantine(); err == nil {
			items, assigned = nil, false
		}
	}
	if err != nil {
		_ = lk.Unlock()
		return nil, err
	}
	s.items = items

	// Legacy files carry no ids; write them back so ids stay stable.
	if assigned {
		if err := s.save(s.items); err != nil {
			_ = lk.Unlock()
			return nil, err
		}
	}

	return s, nil
}

// Path returns the data file path
func (s *FileStore[T, P]) Path() string {
	return s.path
}

// Close releases the lock file
func (s *FileStore[T, P]) Close() error {
	return s.lock.Unlock()
}

// Snapshot returns a copy of the current list
func (s *FileStore[T, P]) Snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of records
func (s *FileStore[T, P]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Find returns the index of the record with the given id, or -1.
func (s *FileStore[T, P]) Find(id string) (T, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.items {
		if P(&s.items[i]).GetID() == id {
			return s.items[i], i
		}
	}
	var zero T
	return zero, -1
}

// Mutate applies fn to a working copy of the list and saves the result.
// Returning an error from fn, or a failed save, leaves the store unchanged.
// A nil slice from fn with a nil error means "nothing changed".
func (s *FileStore[T, P]) Mutate(fn func(items []T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := make([]T, len(s.items))
	copy(working, s.items)

	next, err := fn(working)
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}

	if err := s.save(next); err != nil {
		return err
	}
	s.items = next
	return nil
}

// Append adds records to the end of the list
func (s *FileStore[T, P]) Append(recs ...T) error {
	return s.Mutate(func(items []T) ([]T, error) {
		for i := range recs {
			if P(&recs[i]).GetID() == "" {
				P(&recs[i]).SetID(uuid.NewString())
			}
		}
		return append(items, recs...), nil
	})
}

// UpdateAt replaces the record at index
func (s *FileStore[T, P]) UpdateAt(index int, rec T) error {
	return s.Mutate(func(items []T) ([]T, error) {
		if index < 0 || index >= len(items) {
			return nil, fmt.Errorf("index %d out of range", index)
		}
		items[index] = rec
		return items, nil
	})
}

// Replace swaps the record carrying rec's id for rec. It reports false when
// no record has that id.
func (s *FileStore[T, P]) Replace(rec T) (bool, error) {
	id := P(&rec).GetID()
	found := false
	err := s.Mutate(func(items []T) ([]T, error) {
		for i := range items {
			if P(&items[i]).GetID() == id {
				items[i] = rec
				found = true
				return items, nil
			}
		}
		return nil, nil
	})
	return found, err
}

// RemoveMatching drops every record for which match returns true and
// reports how many were removed.
func (s *FileStore[T, P]) RemoveMatching(match func(T) bool) (int, error) {
	removed := 0
	err := s.Mutate(func(items []T) ([]T, error) {
		kept := items[:0]
		for _, it := range items {
			if match(it) {
				removed++
				continue
			}
			kept = append(kept, it)
		}
		if removed == 0 {
			return nil, nil
		}
		return kept, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// Reload rereads the file, discarding in-memory state. On a read error the
// current list is kept.
func (s *FileStore[T, P]) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, assigned, err := s.load()
	if err != nil {
		return err
	}
	if assigned {
		if err := s.save(items); err != nil {
			return err
		}
	}
	s.items = items
	return nil
}

// load reads the file. A missing or empty file is an empty list. The second
// return value reports whether any record was given a fresh id.
func (s *FileStore[T, P]) load() ([]T, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []T{}, false, nil
		}
		return nil, false, fmt.Errorf("failed to read data file %s: %w", s.path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, false, nil
	}

	items, err := jsonfile.DecodeList[T](data)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", entities.ErrCorruptStore, s.path, err)
	}

	assigned := false
	seen := make(map[string]bool, len(items))
	for i := range items {
		p := P(&items[i])
		if p.GetID() == "" || seen[p.GetID()] {
			p.SetID(uuid.NewString())
			assigned = true
		}
		seen[p.GetID()] = true
	}

	return items, assigned, nil
}

// save writes items to a temporary file next to the target and renames it
// into place.
func (s *FileStore[T, P]) save(items []T) error {
	data, err := jsonfile.EncodeList(items)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	if s.backup {
		if prev, err := os.ReadFile(s.path); err == nil {
			if err := os.WriteFile(s.path+".bak", prev, 0o644); err != nil {
				return fmt.Errorf("failed to write backup of %s: %w", s.path, err)
			}
		}
	}

	return jsonfile.WriteAtomic(s.path, data)
}

// quarantine moves an unreadable data file out of the way.
func (s *FileStore[T, P]) quarantine() error {
	dest := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().Unix())
	if err := os.Rename(s.path, dest); err != nil {
		return fmt.Errorf("failed to move corrupt file %s aside: %w", s.path, err)
	}
	return nil
}
