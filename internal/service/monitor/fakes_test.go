package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oshokin/pingo/internal/domain/alarm"
	"github.com/oshokin/pingo/internal/domain/geo"
	"github.com/oshokin/pingo/internal/repository/alarms"
	"github.com/oshokin/pingo/internal/service/dispatch"
)

// fakeStore is an in-memory alarms.Repository with failure injection.
type fakeStore struct {
	mu        sync.Mutex
	alarms    []*alarm.Alarm
	listErr error
	markErr error
	lists   int
	marks   int
}

func newFakeStore(list ...*alarm.Alarm) *fakeStore {
	return &fakeStore{alarms: list}
}

func (f *fakeStore) List(context.Context) ([]*alarm.Alarm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lists++

	if f.listErr != nil {
		return nil, f.listErr
	}

	out := make([]*alarm.Alarm, 0, len(f.alarms))
	for _, a := range f.alarms {
		out = append(out, a.Clone())
	}

	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id string) (*alarm.Alarm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.alarms {
		if a.ID == id {
			return a.Clone(), nil
		}
	}

	return nil, alarms.ErrNotFound
}

func (f *fakeStore) Upsert(_ context.Context, a *alarm.Alarm) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, existing := range f.alarms {
		if existing.ID == a.ID {
			f.alarms[i] = a.Clone()

			return nil
		}
	}

	f.alarms = append(f.alarms, a.Clone())

	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, a := range f.alarms {
		if a.ID == id {
			f.alarms = append(f.alarms[:i], f.alarms[i+1:]...)

			return nil
		}
	}

	return nil
}

func (f *fakeStore) SetEnabled(_ context.Context, id string, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.alarms {
		if a.ID == id {
			a.Enabled = enabled

			return nil
		}
	}

	return alarms.ErrNotFound
}

func (f *fakeStore) MarkNotified(_ context.Context, id string, lastNotifiedAt, lastRepeatedNotifiedAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.markErr != nil {
		return f.markErr
	}

	f.marks++

	for _, a := range f.alarms {
		if a.ID == id {
			a.LastNotifiedAt = lastNotifiedAt
			a.LastRepeatedNotifiedAt = lastRepeatedNotifiedAt

			return nil
		}
	}

	return nil
}

func (f *fakeStore) get(id string) *alarm.Alarm {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.alarms {
		if a.ID == id {
			return a.Clone()
		}
	}

	return nil
}

// fakeProvider returns a fixed position, optionally waiting for release first.
type fakeProvider struct {
	position geo.Coordinate
	err      error
	release  chan struct{}
	calls    atomic.Int32
}

func (f *fakeProvider) CurrentPosition(context.Context) (geo.Coordinate, error) {
	f.calls.Add(1)

	if f.release != nil {
		<-f.release
	}

	return f.position, f.err
}

// fakeDispatcher records dispatched alarms.
type fakeDispatcher struct {
	mu         sync.Mutex
	dispatched []*alarm.Alarm
	report     dispatch.Report
	// during runs inside Dispatch, outside the lock.
	during func(ctx context.Context, a *alarm.Alarm)
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, a *alarm.Alarm) dispatch.Report {
	if f.during != nil {
		f.during(ctx, a)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.dispatched = append(f.dispatched, a.Clone())

	return f.report
}

func (f *fakeDispatcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.dispatched)
}

func (f *fakeStore) markCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.marks
}
