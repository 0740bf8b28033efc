package form

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Cooldown is how long the api name warning stays visible after the input
// loses focus.
const Cooldown = 500 * time.Millisecond

// HazardState is the state of the api name warning
type HazardState int

const (
	// Idle: warning hidden, no timer pending
	Idle HazardState = iota
	// Armed: api name input focused, warning visible
	Armed
	// CoolingDown: input blurred, warning visible until the timer fires
	CoolingDown
)

func (s HazardState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case CoolingDown:
		return "cooling_down"
	}
	return "unknown"
}

// Hazard tracks the warning shown while a user edits an api name. The hide
// timer fires on a clock goroutine, so all state is guarded by mu and every
// scheduled callback carries the generation it was started in. A callback
// whose generation is stale does nothing.
type Hazard struct {
	mu     sync.Mutex
	clock  clockwork.Clock
	timer  clockwork.Timer
	gen    uint64
	state  HazardState
	closed bool
	notify func(visible bool)
}

// NewHazard returns an idle hazard timer driven by clock
func NewHazard(clock clockwork.Clock) *Hazard {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Hazard{clock: clock}
}

// OnChange registers fn to be called whenever visibility flips. fn runs
// without the lock held and may run on the clock goroutine.
func (h *Hazard) OnChange(fn func(visible bool)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notify = fn
}

// Focus cancels a pending hide and shows the warning
func (h *Hazard) Focus() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	was := h.visibleLocked()
	h.cancelLocked()
	h.state = Armed
	h.flush(was)
}

// Blur starts the cooldown. The warning stays visible until it elapses.
func (h *Hazard) Blur() {
	h.mu.Lock()
	if h.closed || h.state != Armed {
		h.mu.Unlock()
		return
	}
	h.gen++
	gen := h.gen
	h.state = CoolingDown
	h.timer = h.clock.AfterFunc(Cooldown, func() { h.expire(gen) })
	h.mu.Unlock()
}

func (h *Hazard) expire(gen uint64) {
	h.mu.Lock()
	if h.closed || gen != h.gen || h.state != CoolingDown {
		h.mu.Unlock()
		return
	}
	h.timer = nil
	h.state = Idle
	h.flush(true)
}

// Reset cancels any pending timer and hides the warning
func (h *Hazard) Reset() {
	h.mu.Lock()
	was := h.visibleLocked()
	h.cancelLocked()
	h.state = Idle
	h.flush(was)
}

// Close cancels any pending timer and disables the hazard for good
func (h *Hazard) Close() {
	h.mu.Lock()
	h.cancelLocked()
	h.state = Idle
	h.closed = true
	h.notify = nil
	h.mu.Unlock()
}

// Visible reports whether the warning is shown
func (h *Hazard) Visible() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.visibleLocked()
}

// State returns the current state
func (h *Hazard) State() HazardState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Pending reports whether a hide timer is scheduled
func (h *Hazard) Pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.timer != nil
}

func (h *Hazard) visibleLocked() bool {
	return h.state != Idle
}

// cancelLocked stops the pending timer and invalidates its callback
func (h *Hazard) cancelLocked() {
	h.gen++
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}

// flush releases the lock and notifies the observer if visibility changed
func (h *Hazard) flush(was bool) {
	now := h.visibleLocked()
	fn := h.notify
	h.mu.Unlock()
	if fn != nil && now != was {
		fn(now)
	}
}
