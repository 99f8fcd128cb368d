package bot

import (
	"context"
	"sync"
	"time"
)

type slot struct {
	mu    sync.Mutex
	draft *Draft
	refs  int // guarded by DraftStore.mu
}

// DraftStore keeps one draft per user. The map lock is only held to find a
// user's slot; the slot's own mutex serializes that user's events.
type DraftStore struct {
	mu    sync.Mutex
	slots map[int64]*slot
	ttl   time.Duration
	now   func() time.Time
}

func NewDraftStore(ttl time.Duration) *DraftStore {
	return &DraftStore{slots: make(map[int64]*slot), ttl: ttl, now: time.Now}
}

// acquire locks and returns the user's slot. Expired drafts are dropped.
func (s *DraftStore) acquire(user int64) *slot {
	s.mu.Lock()
	sl, ok := s.slots[user]
	if !ok {
		sl = &slot{}
		s.slots[user] = sl
	}
	sl.refs++
	s.mu.Unlock()

	sl.mu.Lock()
	if sl.draft != nil && s.expired(sl.draft, s.now()) {
		sl.draft = nil
	}
	return sl
}

func (s *DraftStore) release(user int64, sl *slot) {
	if sl.draft != nil {
		sl.draft.touched = s.now()
	}
	sl.mu.Unlock()

	s.mu.Lock()
	sl.refs--
	if sl.refs == 0 && sl.draft == nil {
		delete(s.slots, user)
	}
	s.mu.Unlock()
}

func (s *DraftStore) expired(d *Draft, now time.Time) bool {
	return s.ttl > 0 && now.Sub(d.touched) > s.ttl
}

// Step returns the user's current step, AwaitLanguage when there is no draft.
func (s *DraftStore) Step(user int64) (Step, bool) {
	sl := s.acquire(user)
	defer s.release(user, sl)
	if sl.draft == nil {
		return AwaitLanguage, false
	}
	return sl.draft.step, true
}

// Len counts users with a live draft.
func (s *DraftStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sl := range s.slots {
		if sl.refs > 0 || sl.draft != nil {
			n++
		}
	}
	return n
}

// Sweep drops drafts idle longer than the TTL and returns how many went.
// Slots someone holds or waits on are left alone.
func (s *DraftStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for user, sl := range s.slots {
		if sl.refs > 0 {
			continue
		}
		if sl.draft == nil || s.expired(sl.draft, now) {
			if sl.draft != nil {
				n++
			}
			delete(s.slots, user)
		}
	}
	return n
}

// Run sweeps on every tick until ctx is done.
func (s *DraftStore) Run(ctx context.Context, every time.Duration, onSweep func(n int)) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
