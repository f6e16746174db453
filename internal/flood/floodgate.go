// Package flood throttles callers of an HTTP route with a one-minute sliding window.
package flood

import (
	"context"
	"sync"
	"time"
)

const (
	windowDuration  = time.Minute
	cleanupInterval = 10 * time.Minute
	// idleTimeout is how long a caller may stay quiet before its window is dropped.
	idleTimeout = 10 * time.Minute
)

// Floodgate limits requests per caller per route. A limit of zero or less
// disables throttling.
type Floodgate struct {
	limitPerMinute int
	windows        map[string]*window // keyed by route + ":" + caller
	mutex          sync.RWMutex
	now            func() time.Time
}

// window holds the admission times of one caller on one route, oldest first.
type window struct {
	admitted []time.Time
	lastSeen time.Time
}

func (w *window) prune(now time.Time) {
	start := now.Add(-windowDuration)
	keep := w.admitted[:0]
	for _, ts := range w.admitted {
		if ts.After(start) {
			keep = append(keep, ts)
		}
	}
	w.admitted = keep
}

// New creates a Floodgate allowing limitPerMinute requests per caller. Idle
// callers are only dropped while Run is active.
func New(limitPerMinute int) *Floodgate {
	return &Floodgate{
		limitPerMinute: limitPerMinute,
		windows:        make(map[string]*window),
		now:            time.Now,
	}
}

// Enabled reports whether requests are being throttled at all.
func (fg *Floodgate) Enabled() bool {
	return fg.limitPerMinute > 0
}

// Allow is Reserve without the wait hint.
func (fg *Floodgate) Allow(route, callerID string) bool {
	ok, _ := fg.Reserve(route, callerID)
	return ok
}

// Reserve admits a request from callerID on route if its window has room.
// When it does not, Reserve returns how long until the oldest admission
// leaves the window. Rejected requests are not recorded.
func (fg *Floodgate) Reserve(route, callerID string) (bool, time.Duration) {
	if !fg.Enabled() {
		return true, 0
	}

	key := route + ":" + callerID

	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	now := fg.now()
	w, ok := fg.windows[key]
	if !ok {
		w = &window{admitted: make([]time.Time, 0, fg.limitPerMinute)}
		fg.windows[key] = w
	}
	w.lastSeen = now
	w.prune(now)

	if len(w.admitted) >= fg.limitPerMinute {
		return false, w.admitted[0].Add(windowDuration).Sub(now)
	}

	w.admitted = append(w.admitted, now)
	return true, 0
}

// Run drops idle callers every cleanupInterval until ctx is done. It returns
// at once when throttling is disabled.
func (fg *Floodgate) Run(ctx context.Context) {
	if !fg.Enabled() {
		return
	}

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fg.performCleanup()
		case <-ctx.Done():
			return
		}
	}
}

// performCleanup drops windows of callers idle longer than idleTimeout.
func (fg *Floodgate) performCleanup() {
	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	cutoff := fg.now().Add(-idleTimeout)
	for key, w := range fg.windows {
		if w.lastSeen.Before(cutoff) {
			delete(fg.windows, key)
		}
	}
}

// GetStats reports the throttle settings and how many callers are tracked.
func (fg *Floodgate) GetStats() Stats {
	fg.mutex.RLock()
	defer fg.mutex.RUnlock()

	return Stats{
		ActiveCallers:  len(fg.windows),
		LimitPerMinute: fg.limitPerMinute,
		WindowSeconds:  int(windowDuration.Seconds()),
	}
}

// Stats contains floodgate statistics
type Stats struct {
	ActiveCallers  int `json:"active_callers"`
	LimitPerMinute int `json:"limit_per_minute"`
	WindowSeconds  int `json:"window_seconds"`
}
