// Package store holds the authoritative record list and persists it as JSON
// after every command.
package store

import (
	"fmt"
	"sync"

	"namegen/internal/models"

	"go.uber.org/zap"
)

// Store is an ordered, in-memory record list with write-through
// persistence. Insertion order is kept in memory; the file is sorted.
type Store struct {
	path   string
	logger *zap.Logger

	mu      sync.RWMutex
	records []models.Record

	// writeMu serializes backup rotation and file replacement.
	writeMu sync.Mutex

	async     bool
	onError   func(error)
	pending   chan struct{}
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for save diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAsyncSave moves persistence onto a single background writer.
// Commands return as soon as memory is updated; bursts of commands are
// coalesced into one write of the latest state. Write failures are passed to
// onError.
func WithAsyncSave(onError func(error)) Option {
	return func(s *Store) {
		s.async = true
		s.onError = onError
	}
}

// New creates a store over records without touching the disk.
func New(path string, records []models.Record, opts ...Option) *Store {
	s := &Store{
		path:    path,
		logger:  zap.NewNop(),
		records: cloneAll(records),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.async {
		s.pending = make(chan struct{}, 1)
		s.stop = make(chan struct{})
		s.done = make(chan struct{})
		go s.run()
	}
	return s
}

// Open creates a store and loads path into it.
func Open(path string, opts ...Option) (*Store, error) {
	s := New(path, nil, opts...)
	if err := s.Load(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the data file path.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory list with the file contents. It does not
// persist.
func (s *Store) Load() error {
	records, err := ReadFile(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	s.logger.Debug("store loaded", zap.String("path", s.path), zap.Int("records", len(records)))
	return nil
}

// Save writes the whole list to disk, rotating the previous file into the
// backup slot.
func (s *Store) Save() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snapshot := s.Records()
	if err := WriteFile(s.path, snapshot); err != nil {
		return fmt.Errorf("failed to save %s: %w", s.path, err)
	}
	s.logger.Debug("store saved", zap.String("path", s.path), zap.Int("records", len(snapshot)))
	return nil
}

// Close stops the background writer after flushing a pending save.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.async {
			close(s.stop)
			<-s.done
		}
	})
	return nil
}

// Records returns a deep copy of the list in memory order.
func (s *Store) Records() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.records)
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Record returns a copy of the record at i.
func (s *Store) Record(i int) (models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.records) {
		return models.Record{}, fmt.Errorf("%w: record %d", ErrIndexOutOfRange, i)
	}
	return s.records[i].Clone(), nil
}

// Types returns the distinct record types in first-seen order.
func (s *Store) Types() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var types []string
	for _, r := range s.records {
		if _, ok := seen[r.Type]; ok {
			continue
		}
		seen[r.Type] = struct{}{}
		types = append(types, r.Type)
	}
	return types
}

// Add appends a record and returns its index.
func (s *Store) Add(r models.Record) (int, error) {
	var idx int
	err := s.mutate(func() error {
		s.records = append(s.records, r.Clone())
		idx = len(s.records) - 1
		return nil
	})
	return idx, err
}

// Append adds several records in one write.
func (s *Store) Append(records ...models.Record) error {
	return s.mutate(func() error {
		s.records = append(s.records, cloneAll(records)...)
		return nil
	})
}

// Replace swaps the whole list.
func (s *Store) Replace(records []models.Record) error {
	return s.mutate(func() error {
		s.records = cloneAll(records)
		return nil
	})
}

// Remove deletes the record at i.
func (s *Store) Remove(i int) error {
	return s.mutate(func() error {
		if err := s.checkRecord(i); err != nil {
			return err
		}
		s.records = append(s.records[:i], s.records[i+1:]...)
		return nil
	})
}

// Update overwrites the record at i.
func (s *Store) Update(i int, r models.Record) error {
	return s.mutate(func() error {
		if err := s.checkRecord(i); err != nil {
			return err
		}
		s.records[i] = r.Clone()
		return nil
	})
}

// SetType changes the type of the record at i.
func (s *Store) SetType(i int, value string) error {
	return s.mutate(func() error {
		if err := s.checkRecord(i); err != nil {
			return err
		}
		s.records[i].Type = value
		return nil
	})
}

// SetStateID changes the state id of the record at i.
func (s *Store) SetStateID(i int, value int64) error {
	return s.mutate(func() error {
		if err := s.checkRecord(i); err != nil {
			return err
		}
		s.records[i].StateID = value
		return nil
	})
}

// SetStateName changes the display name of the record at i.
func (s *Store) SetStateName(i int, value string) error {
	return s.mutate(func() error {
		if err := s.checkRecord(i); err != nil {
			return err
		}
		s.records[i].StateName = value
		return nil
	})
}

// AddProvince appends a province override to record i and returns its index.
func (s *Store) AddProvince(i int, p models.Province) (int, error) {
	var idx int
	err := s.mutate(func() error {
		if err := s.checkRecord(i); err != nil {
			return err
		}
		s.records[i].Provinces = append(s.records[i].Provinces, p)
		idx = len(s.records[i].Provinces) - 1
		return nil
	})
	return idx, err
}

// UpdateProvince overwrites province j of record i.
func (s *Store) UpdateProvince(i, j int, p models.Province) error {
	return s.mutate(func() error {
		if err := s.checkProvince(i, j); err != nil {
			return err
		}
		s.records[i].Provinces[j] = p
		return nil
	})
}

// RemoveProvince deletes province j of record i.
func (s *Store) RemoveProvince(i, j int) error {
	return s.mutate(func() error {
		if err := s.checkProvince(i, j); err != nil {
			return err
		}
		provinces := s.records[i].Provinces
		s.records[i].Provinces = append(provinces[:j], provinces[j+1:]...)
		return nil
	})
}

// mutate applies fn under the write lock and persists when it succeeds.
func (s *Store) mutate(fn func() error) error {
	s.mu.Lock()
	err := fn()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.persist()
}

func (s *Store) persist() error {
	if !s.async {
		return s.Save()
	}
	select {
	case s.pending <- struct{}{}:
	default:
		// a save is already queued and will pick up this change
	}
	return nil
}

func (s *Store) run() {
	defer close(s.done)
	for {
		select {
		case <-s.pending:
			s.flush()
		case <-s.stop:
			select {
			case <-s.pending:
				s.flush()
			default:
			}
			return
		}
	}
}

func (s *Store) flush() {
	if err := s.Save(); err != nil {
		s.logger.Error("background save failed", zap.Error(err))
		if s.onError != nil {
			s.onError(err)
		}
	}
}

// checkRecord must be called with mu held.
func (s *Store) checkRecord(i int) error {
	if i < 0 || i >= len(s.records) {
		return fmt.Errorf("%w: record %d", ErrIndexOutOfRange, i)
	}
	return nil
}

// checkProvince must be called with mu held.
func (s *Store) checkProvince(i, j int) error {
	if err := s.checkRecord(i); err != nil {
		return err
	}
	if j < 0 || j >= len(s.records[i].Provinces) {
		return fmt.Errorf("%w: province %d of record %d", ErrIndexOutOfRange, j, i)
	}
	return nil
}

func cloneAll(records []models.Record) []models.Record {
	out := make([]models.Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
