package editor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"inkwell/internal/domain/models"
)

// SaveFunc issues one partial remote update carrying the given patch.
type SaveFunc func(ctx context.Context, patch *models.NotePatch) error

// Autosave converts bursts of edits into a single trailing-edge debounced
// remote write. Each Schedule call merges into the buffer and resets the
// delay window; at most one timer is live at a time. Flush cancels the
// timer and sends any buffered patch immediately.
//
// While a save is in flight no new timer is started; edits scheduled
// during the save accumulate in the buffer and the timer restarts when
// the save completes, so no edit is ever dropped.
type Autosave struct {
	buf    *Buffer
	clock  Clock
	delay  time.Duration
	save   SaveFunc
	notify Notifier
	logger *slog.Logger

	mu     sync.Mutex
	timer  Timer
	saving bool
}

// NewAutosave creates a scheduler around the given buffer. delay is the
// debounce window (config.AutosaveDelay in production).
func NewAutosave(buf *Buffer, clock Clock, delay time.Duration, save SaveFunc, notify Notifier, logger *slog.Logger) *Autosave {
	return &Autosave{
		buf:    buf,
		clock:  clock,
		delay:  delay,
		save:   save,
		notify: notify,
		logger: logger,
	}
}

// Schedule merges patch into the buffer and (re)starts the debounce
// timer. Calling it again before expiry resets the window rather than
// compounding timers.
func (a *Autosave) Schedule(patch *models.NotePatch) {
	a.buf.Merge(patch)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.saving {
		// The in-flight save's completion restarts the timer.
		return
	}
	a.restartTimerLocked()
}

// Flush cancels any live timer and, if a patch is buffered, issues the
// remote update before returning. Safe to call concurrently with a timer
// expiry: TakeAndClear guarantees each accumulated patch is sent once.
func (a *Autosave) Flush(ctx context.Context) {
	a.mu.Lock()
	a.stopTimerLocked()
	a.mu.Unlock()

	patch := a.buf.TakeAndClear()
	if patch == nil {
		return
	}
	a.send(ctx, patch)
}

// Saving reports whether a remote write is in flight.
func (a *Autosave) Saving() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saving
}

// Stop cancels any pending timer without sending. Used only when the
// buffer has already been drained.
func (a *Autosave) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopTimerLocked()
}

func (a *Autosave) restartTimerLocked() {
	a.stopTimerLocked()
	a.timer = a.clock.AfterFunc(a.delay, a.expire)
}

func (a *Autosave) stopTimerLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// expire runs on timer expiry: take the buffered patch and send it.
func (a *Autosave) expire() {
	a.mu.Lock()
	a.timer = nil
	if a.saving {
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	patch := a.buf.TakeAndClear()
	if patch == nil {
		return
	}
	a.send(context.Background(), patch)
}

// send issues the remote update, tracking saving state. On failure the
// patch is not re-queued: the next edit carries full current values, so
// retrying stale fields would only race with it.
func (a *Autosave) send(ctx context.Context, patch *models.NotePatch) {
	a.mu.Lock()
	a.saving = true
	a.mu.Unlock()

	err := a.save(ctx, patch)

	a.mu.Lock()
	a.saving = false
	refilled := a.buf.HasPending()
	if refilled {
		a.restartTimerLocked()
	}
	a.mu.Unlock()

	if err != nil {
		a.logger.Warn("autosave failed", "error", err)
		a.notify.Error("Failed to save")
	}
}
