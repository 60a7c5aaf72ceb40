package core

import (
	"sync"
	"time"
)

// NoticeThrottle suppresses re-sending the same system text within an
// interval, whichever code path produced it.
type NoticeThrottle struct {
	mu       sync.Mutex
	sched    Scheduler
	interval time.Duration
	lastSent map[string]time.Time
}

func NewNoticeThrottle(sched Scheduler, interval time.Duration) *NoticeThrottle {
	return &NoticeThrottle{
		sched:    sched,
		interval: interval,
		lastSent: make(map[string]time.Time),
	}
}

func noticeKey(text string) string { return "system:" + text }

// Allow reports whether text may be emitted now and records it if so.
func (t *NoticeThrottle) Allow(text string) bool {
	now := t.sched.Now()
	key := noticeKey(text)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.prune(now)
	if last, ok := t.lastSent[key]; ok && now.Sub(last) <= t.interval {
		return false
	}
	t.lastSent[key] = now
	return true
}

// Mark records text as sent now without checking.
func (t *NoticeThrottle) Mark(text string) {
	now := t.sched.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSent[noticeKey(text)] = now
}

func (t *NoticeThrottle) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.lastSent)
}

func (t *NoticeThrottle) prune(now time.Time) {
	for k, last := range t.lastSent {
		if now.Sub(last) > t.interval {
			delete(t.lastSent, k)
		}
	}
}
