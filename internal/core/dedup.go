package core

import (
	"sync"
	"time"
)

// DedupWindow is a set whose keys expire after a TTL. Adding a key again
// replaces its timer.
type DedupWindow struct {
	mu      sync.Mutex
	sched   Scheduler
	entries map[string]*dedupEntry
}

type dedupEntry struct {
	timer Timer
}

func NewDedupWindow(sched Scheduler) *DedupWindow {
	return &DedupWindow{
		sched:   sched,
		entries: make(map[string]*dedupEntry),
	}
}

func (w *DedupWindow) Has(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.entries[key]
	return ok
}

func (w *DedupWindow) Add(key string, ttl time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if old, ok := w.entries[key]; ok {
		old.timer.Stop()
	}
	e := &dedupEntry{}
	e.timer = w.sched.AfterFunc(ttl, func() { w.expire(key, e) })
	w.entries[key] = e
}

func (w *DedupWindow) Remove(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if e, ok := w.entries[key]; ok {
		e.timer.Stop()
		delete(w.entries, key)
	}
}

func (w *DedupWindow) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

// expire only drops the entry that scheduled it; a superseding Add owns the key.
func (w *DedupWindow) expire(key string, e *dedupEntry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.entries[key] == e {
		delete(w.entries, key)
	}
}
