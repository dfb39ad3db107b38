package drafts

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"devlog/internal/models"
)

const (
	// DefaultAutosaveDelay is how long the form must stay unchanged before an
	// autosave fires.
	DefaultAutosaveDelay = 60 * time.Second

	// autosaveTimeout bounds a single autosave store round trip.
	autosaveTimeout = 10 * time.Second

	// lastSavedRetention is how long a session's last autosave time is kept
	// after it was stored.
	lastSavedRetention = 24 * time.Hour
)

// Autosaver debounces draft saves per editor session. Each Schedule call
// replaces the pending save for its key, so a save only fires once the form
// has been stable for the configured delay. Failures are logged and dropped.
//
// A manual Save may race an in-flight autosave; both produce separate drafts.
type Autosaver struct {
	svc   *Service
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*pendingSave
	last    map[string]time.Time
	retain  time.Duration
	stopped bool
	wg      sync.WaitGroup
}

// pendingSave is one armed autosave. A timer that fires after its entry was
// replaced or cancelled finds a different entry in the map and does nothing.
type pendingSave struct {
	timer *time.Timer
}

// NewAutosaver creates an Autosaver that saves through svc after delay.
// A non-positive delay uses DefaultAutosaveDelay.
func NewAutosaver(svc *Service, delay time.Duration) *Autosaver {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &Autosaver{
		svc:     svc,
		delay:   delay,
		pending: make(map[string]*pendingSave),
		last:    make(map[string]time.Time),
		retain:  lastSavedRetention,
	}
}

// Schedule arms an autosave of form for key, cancelling any pending one.
// Forms without content are not saved; scheduling one only cancels. It
// reports whether a save was armed.
func (a *Autosaver) Schedule(key string, form models.PostForm) bool {
	snapshot := form.Clone()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return false
	}
	a.cancelLocked(key)
	if strings.TrimSpace(snapshot.Content) == "" {
		return false
	}

	p := &pendingSave{}
	p.timer = time.AfterFunc(a.delay, func() { a.fire(key, p, snapshot) })
	a.pending[key] = p
	return true
}

// Cancel drops the pending autosave for key, if any.
func (a *Autosaver) Cancel(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cancelLocked(key)
}

func (a *Autosaver) cancelLocked(key string) {
	if p, ok := a.pending[key]; ok {
		p.timer.Stop()
		delete(a.pending, key)
	}
}

// Pending reports whether an autosave is armed for key.
func (a *Autosaver) Pending(key string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.pending[key]
	return ok
}

// LastSaved returns when the last successful autosave for key was stored.
func (a *Autosaver) LastSaved(key string) (time.Time, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.last[key]
	return t, ok
}

// Stop cancels every pending autosave and waits for in-flight saves.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	a.stopped = true
	for key, p := range a.pending {
		p.timer.Stop()
		delete(a.pending, key)
	}
	a.mu.Unlock()

	a.wg.Wait()
}

func (a *Autosaver) fire(key string, p *pendingSave, form models.PostForm) {
	a.mu.Lock()
	if a.stopped || a.pending[key] != p {
		a.mu.Unlock()
		return
	}
	delete(a.pending, key)
	a.wg.Add(1)
	a.mu.Unlock()
	defer a.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), autosaveTimeout)
	defer cancel()

	d, err := a.svc.Save(ctx, form)
	if err != nil {
		slog.Warn("autosave failed", "session", key, "error", err)
		return
	}

	a.mu.Lock()
	a.pruneLocked(time.Now())
	a.last[key] = d.CreatedAt
	a.mu.Unlock()
	slog.Debug("autosave stored", "session", key, "draft_id", d.ID)
}

// pruneLocked forgets last-saved times older than the retention window.
func (a *Autosaver) pruneLocked(now time.Time) {
	for key, t := range a.last {
		if now.Sub(t) > a.retain {
			delete(a.last, key)
		}
	}
}
