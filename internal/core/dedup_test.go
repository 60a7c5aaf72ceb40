package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/core/coretest"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestDedupWindow_Expiry(t *testing.T) {
	sched := coretest.NewManualScheduler(epoch)
	w := core.NewDedupWindow(sched)

	w.Add("u:bob", 5*time.Second)
	assert.True(t, w.Has("u:bob"))
	assert.False(t, w.Has("u:alice"))

	sched.Advance(4 * time.Second)
	assert.True(t, w.Has("u:bob"))

	sched.Advance(time.Second)
	assert.False(t, w.Has("u:bob"))
	assert.Equal(t, 0, w.Len())
}

func TestDedupWindow_ReAddSupersedes(t *testing.T) {
	sched := coretest.NewManualScheduler(epoch)
	w := core.NewDedupWindow(sched)

	w.Add("k", 5*time.Second)
	sched.Advance(3 * time.Second)
	w.Add("k", 5*time.Second)
	assert.Equal(t, 1, sched.Pending(), "old timer must be stopped")

	sched.Advance(3 * time.Second)
	assert.True(t, w.Has("k"), "first deadline must not drop the re-added key")

	sched.Advance(2 * time.Second)
	assert.False(t, w.Has("k"))
}

func TestDedupWindow_Remove(t *testing.T) {
	sched := coretest.NewManualScheduler(epoch)
	w := core.NewDedupWindow(sched)

	w.Add("k", time.Second)
	w.Remove("k")
	assert.False(t, w.Has("k"))
	assert.Equal(t, 0, sched.Pending())

	w.Remove("missing")
}

func TestNoticeThrottle(t *testing.T) {
	sched := coretest.NewManualScheduler(epoch)
	th := core.NewNoticeThrottle(sched, 2*time.Second)

	assert.True(t, th.Allow("Bob님이 입장하셨습니다."))
	assert.False(t, th.Allow("Bob님이 입장하셨습니다."))
	assert.True(t, th.Allow("Carol님이 입장하셨습니다."), "different text is independent")

	sched.Advance(2 * time.Second)
	assert.False(t, th.Allow("Bob님이 입장하셨습니다."), "interval is inclusive")

	sched.Advance(time.Millisecond)
	assert.True(t, th.Allow("Bob님이 입장하셨습니다."))
}

func TestNoticeThrottle_MarkAndPrune(t *testing.T) {
	sched := coretest.NewManualScheduler(epoch)
	th := core.NewNoticeThrottle(sched, 2*time.Second)

	th.Mark("kick")
	assert.False(t, th.Allow("kick"))

	sched.Advance(10 * time.Second)
	assert.True(t, th.Allow("other"))
	assert.Equal(t, 1, th.Len(), "stale keys are pruned")
}
