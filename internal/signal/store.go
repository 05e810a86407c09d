package signal

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// storeFileMode keeps the signal file owner-only; codes are effectively
// remote-control credentials.
const storeFileMode = 0o600

// storedDescriptor is the on-disk form of a Descriptor. The code travels
// hex-encoded so the file stays hand-inspectable.
type storedDescriptor struct {
	Kind         Kind     `json:"kind"`
	FrequencyKHz *float64 `json:"frequency_khz,omitempty"`
	Code         string   `json:"code"`
}

// Store is the persisted mapping from logical button name to learned signal
// descriptor. It is the sole owner of its backing file.
//
// All methods are safe for concurrent use.
type Store struct {
	path string

	mu      sync.RWMutex
	signals map[string]Descriptor
}

// Open loads the store from its backing file. A missing file yields an empty
// store; it is created on the first Put.
func Open(path string) (*Store, error) {
	s := &Store{
		path:    path,
		signals: make(map[string]Descriptor),
	}

	raw, err := os.ReadFile(path) //nolint:gosec // Path comes from config, not user input
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("reading signal store: %w", err)
	}

	var stored map[string]storedDescriptor
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("parsing signal store %s: %w", path, err)
	}

	for name, sd := range stored {
		code, err := hex.DecodeString(sd.Code)
		if err != nil {
			return nil, fmt.Errorf("parsing signal store %s: code for %q: %w", path, name, err)
		}
		s.signals[name] = Descriptor{
			Name:         name,
			Kind:         sd.Kind,
			FrequencyKHz: sd.FrequencyKHz,
			Code:         code,
		}
	}

	return s, nil
}

// Get returns the descriptor for a button name.
// Returns ErrNotFound if the name has never been learned.
func (s *Store) Get(name string) (Descriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.signals[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	d.Code = append([]byte(nil), d.Code...)
	return d, nil
}

// List returns every learned button name, sorted.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.signals))
	for name := range s.signals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of learned signals.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.signals)
}

// Put validates and stores a descriptor, replacing any previous descriptor
// for the same name, and rewrites the backing file.
func (s *Store) Put(d Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.signals[d.Name]
	d.Code = append([]byte(nil), d.Code...)
	s.signals[d.Name] = d

	if err := s.persistLocked(); err != nil {
		// Roll back the in-memory map so memory and disk agree.
		if existed {
			s.signals[d.Name] = prev
		} else {
			delete(s.signals, d.Name)
		}
		return err
	}
	return nil
}

// Delete removes a learned signal and rewrites the backing file.
// Returns ErrNotFound if the name does not exist.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.signals[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(s.signals, name)

	if err := s.persistLocked(); err != nil {
		s.signals[name] = prev
		return err
	}
	return nil
}

// persistLocked rewrites the whole backing file. Callers must hold the write
// lock. The write goes to a temp file in the same directory followed by a
// rename, so a crash never leaves a torn file behind.
func (s *Store) persistLocked() error {
	stored := make(map[string]storedDescriptor, len(s.signals))
	for name, d := range s.signals {
		stored[name] = storedDescriptor{
			Kind:         d.Kind,
			FrequencyKHz: d.FrequencyKHz,
			Code:         hex.EncodeToString(d.Code),
		}
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding signal store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating signal store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".signals-*.json")
	if err != nil {
		return fmt.Errorf("writing signal store: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		os.Remove(tmpPath) //nolint:errcheck // Best-effort cleanup
		return fmt.Errorf("writing signal store: %w", errors.Join(writeErr, closeErr))
	}
	if err := os.Chmod(tmpPath, storeFileMode); err != nil {
		os.Remove(tmpPath) //nolint:errcheck // Best-effort cleanup
		return fmt.Errorf("writing signal store: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath) //nolint:errcheck // Best-effort cleanup
		return fmt.Errorf("writing signal store: %w", err)
	}
	return nil
}
