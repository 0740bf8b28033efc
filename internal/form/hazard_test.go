package form

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects visibility notifications from the clock goroutine
type recorder struct {
	mu     sync.Mutex
	events []bool
}

func (r *recorder) observe(visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, visible)
}

func (r *recorder) snapshot() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.events...)
}

func newTestHazard() (*Hazard, *clockwork.FakeClock, *recorder) {
	clock := clockwork.NewFakeClock()
	h := NewHazard(clock)
	rec := &recorder{}
	h.OnChange(rec.observe)
	return h, clock, rec
}

func TestHazardFocusBlurExpires(t *testing.T) {
	h, clock, rec := newTestHazard()

	assert.False(t, h.Visible())
	h.Focus()
	assert.Equal(t, Armed, h.State())
	assert.True(t, h.Visible())

	h.Blur()
	assert.Equal(t, CoolingDown, h.State())
	assert.True(t, h.Visible(), "warning stays visible during cooldown")
	assert.True(t, h.Pending())

	clock.Advance(Cooldown)
	require.Eventually(t, func() bool { return !h.Visible() }, time.Second, time.Millisecond)
	assert.Equal(t, Idle, h.State())
	assert.False(t, h.Pending(), "no timer left after expiry")
	assert.Equal(t, []bool{true, false}, rec.snapshot())
}

func TestHazardRefocusDuringCooldownNeverFlickers(t *testing.T) {
	h, clock, rec := newTestHazard()

	h.Focus()
	h.Blur()
	clock.Advance(Cooldown - time.Millisecond)
	h.Focus()

	assert.Equal(t, Armed, h.State())
	assert.False(t, h.Pending(), "refocus cancels the hide timer")

	// The cancelled timer must not fire later
	clock.Advance(time.Hour)
	time.Sleep(10 * time.Millisecond)
	assert.True(t, h.Visible())
	assert.Equal(t, []bool{true}, rec.snapshot(), "warning was never hidden")
}

func TestHazardBlurWithoutFocusIsIgnored(t *testing.T) {
	h, _, rec := newTestHazard()

	h.Blur()
	assert.Equal(t, Idle, h.State())
	assert.False(t, h.Pending())
	assert.Empty(t, rec.snapshot())
}

func TestHazardResetCancelsTimer(t *testing.T) {
	h, clock, rec := newTestHazard()

	h.Focus()
	h.Blur()
	h.Reset()
	assert.False(t, h.Visible())
	assert.False(t, h.Pending())

	clock.Advance(Cooldown)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, []bool{true, false}, rec.snapshot())
}

func TestHazardCloseDisables(t *testing.T) {
	h, clock, rec := newTestHazard()

	h.Focus()
	h.Blur()
	h.Close()
	assert.False(t, h.Pending())

	clock.Advance(Cooldown)
	h.Focus()
	time.Sleep(10 * time.Millisecond)
	assert.False(t, h.Visible(), "closed hazard ignores focus")
	assert.Equal(t, []bool{true}, rec.snapshot())
}

func TestHazardStaleCallbackIsNoop(t *testing.T) {
	h, clock, _ := newTestHazard()

	h.Focus()
	h.Blur()
	first := h.gen
	h.Focus()
	h.Blur()

	// A callback from the first blur arriving late must not hide the warning
	h.expire(first)
	assert.Equal(t, CoolingDown, h.State())

	clock.Advance(Cooldown)
	require.Eventually(t, func() bool { return h.State() == Idle }, time.Second, time.Millisecond)
}

func TestHazardStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "armed", Armed.String())
	assert.Equal(t, "cooling_down", CoolingDown.String())
}
