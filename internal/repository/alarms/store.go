package alarms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oshokin/pingo/internal/domain/alarm"
)

// Repository defines persistence operations for alarms.
type Repository interface {
	// List returns every stored alarm in insertion order.
	List(ctx context.Context) ([]*alarm.Alarm, error)
	// Get returns the alarm with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (*alarm.Alarm, error)
	// Upsert replaces the alarm with the same id or appends it.
	Upsert(ctx context.Context, a *alarm.Alarm) error
	// Delete removes the alarm with the given id; unknown ids are ignored.
	Delete(ctx context.Context, id string) error
	// SetEnabled flips the enabled flag of one alarm.
	SetEnabled(ctx context.Context, id string, enabled bool) error
	// MarkNotified stores the fire timestamps of one alarm; unknown ids are ignored.
	MarkNotified(ctx context.Context, id string, lastNotifiedAt, lastRepeatedNotifiedAt *time.Time) error
}

// Records is a durable key/value record backend.
type Records interface {
	// Load returns the record value, or errNoRecord when the key is absent.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save stores the record value, replacing any previous one.
	Save(ctx context.Context, key string, value []byte) error
	// Close releases backend resources.
	Close() error
}

var (
	// ErrPersistence wraps every backend and decoding failure.
	ErrPersistence = errors.New("alarm store failure")
	// ErrNotFound is returned when an alarm id is unknown.
	ErrNotFound = errors.New("alarm not found")
	// errNoRecord is returned by backends when the key has never been written.
	errNoRecord = errors.New("record does not exist")
	// errNilAlarm is returned when Upsert receives nil or an alarm without id.
	errNilAlarm = errors.New("alarm must have an id")
)

// Store keeps the alarm collection as one JSON record.
type Store struct {
	// records is the underlying backend.
	records Records
	// key is the record key of the collection.
	key string
	// mu serializes read-modify-write cycles inside this process.
	mu sync.Mutex
}

var _ Repository = (*Store)(nil)

// NewStore creates a store over records under the given key.
func NewStore(records Records, key string) *Store {
	return &Store{
		records: records,
		key:     key,
	}
}

// List returns every stored alarm. An absent record yields an empty slice.
func (s *Store) List(ctx context.Context) ([]*alarm.Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

// Get returns one alarm by id.
func (s *Store) Get(ctx context.Context, id string) (*alarm.Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if i := indexOf(list, id); i >= 0 {
		return list[i], nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Upsert replaces the alarm with the same id in place or appends it.
func (s *Store) Upsert(ctx context.Context, a *alarm.Alarm) error {
	if a == nil || a.ID == "" {
		return errNilAlarm
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}

	if i := indexOf(list, a.ID); i >= 0 {
		list[i] = a.Clone()
	} else {
		list = append(list, a.Clone())
	}

	return s.save(ctx, list)
}

// Delete removes the alarm with the given id. Unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}

	i := indexOf(list, id)
	if i < 0 {
		return nil
	}

	list = append(list[:i], list[i+1:]...)

	return s.save(ctx, list)
}

// SetEnabled sets the enabled flag of one alarm.
func (s *Store) SetEnabled(ctx context.Context, id string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}

	i := indexOf(list, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if list[i].Enabled == enabled {
		return nil
	}

	list[i].Enabled = enabled

	return s.save(ctx, list)
}

// MarkNotified overwrites only the two fire timestamps of the stored alarm,
// leaving every field an editor may have changed meanwhile untouched.
// An alarm deleted in the meantime stays deleted.
func (s *Store) MarkNotified(ctx context.Context, id string, lastNotifiedAt, lastRepeatedNotifiedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}

	i := indexOf(list, id)
	if i < 0 {
		return nil
	}

	list[i].LastNotifiedAt = cloneTime(lastNotifiedAt)
	list[i].LastRepeatedNotifiedAt = cloneTime(lastRepeatedNotifiedAt)

	return s.save(ctx, list)
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.records.Close()
}

func (s *Store) load(ctx context.Context) ([]*alarm.Alarm, error) {
	data, err := s.records.Load(ctx, s.key)
	if errors.Is(err, errNoRecord) {
		return []*alarm.Alarm{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrPersistence, s.key, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []*alarm.Alarm{}, nil
	}

	var list []*alarm.Alarm
	if err = json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrPersistence, s.key, err)
	}

	for i, a := range list {
		if a == nil {
			return nil, fmt.Errorf("%w: decode %s: null alarm at index %d", ErrPersistence, s.key, i)
		}
	}

	if list == nil {
		list = []*alarm.Alarm{}
	}

	return list, nil
}

func (s *Store) save(ctx context.Context, list []*alarm.Alarm) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrPersistence, s.key, err)
	}

	if err = s.records.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrPersistence, s.key, err)
	}

	return nil
}

func indexOf(list []*alarm.Alarm, id string) int {
	for i, a := range list {
		if a.ID == id {
			return i
		}
	}

	return -1
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	c := *t

	return &c
}
