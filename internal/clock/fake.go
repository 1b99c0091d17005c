package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a manually advanced Clock. Callbacks run synchronously inside Advance
// on the caller's goroutine, in deadline order.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	nextID  int
	pending map[int]*fakeTimer
}

type fakeTimer struct {
	id    int
	at    time.Time
	fn    func()
	clock *Fake
}

func NewFake(now time.Time) *Fake {
	return &Fake{now: now, pending: make(map[int]*fakeTimer)}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t := &fakeTimer{id: f.nextID, at: f.now.Add(d), fn: fn, clock: f}
	f.pending[t.id] = t
	return t
}

// Pending reports the number of armed callbacks.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// Advance moves the clock forward and fires every callback that became due,
// including callbacks armed by callbacks within the window.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		due := make([]*fakeTimer, 0, len(f.pending))
		for _, t := range f.pending {
			if !t.at.After(target) {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			f.now = target
			f.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].at.Equal(due[j].at) {
				return due[i].id < due[j].id
			}
			return due[i].at.Before(due[j].at)
		})
		next := due[0]
		delete(f.pending, next.id)
		if next.at.After(f.now) {
			f.now = next.at
		}
		f.mu.Unlock()
		next.fn()
	}
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if _, ok := t.clock.pending[t.id]; !ok {
		return false
	}
	delete(t.clock.pending, t.id)
	return true
}
