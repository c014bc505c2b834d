package viewer

import (
	"sync"
	"time"

	"stockview/utils"
)

// Timing sets the tick cadence of the two timers
type Timing struct {
	MomentumTick   time.Duration
	AutoRotateTick time.Duration
}

// DefaultTiming returns the stock cadence
func DefaultTiming() Timing {
	return Timing{
		MomentumTick:   60 * time.Millisecond,
		AutoRotateTick: 120 * time.Millisecond,
	}
}

// ticker is a running timer goroutine. Only one exists at a time.
type ticker struct {
	kind EventKind
	stop chan struct{}
}

// Viewer owns a Machine, the spin frames, and the momentum and auto-rotate
// timers. The timers are mutually exclusive and are torn down by Close;
// after Close returns no frame change is reported.
type Viewer struct {
	mu       sync.Mutex
	machine  Machine
	frames   []string
	timing   Timing
	onChange func(index int, frame string)
	active   *ticker
	wg       sync.WaitGroup
	logger   *utils.Logger
}

// NewViewer creates an idle viewer over frames. onChange, if set, is called
// with the viewer lock held whenever the index changes; it must not call
// back into the viewer.
func NewViewer(frames []string, params Params, timing Timing, onChange func(index int, frame string), logger *utils.Logger) *Viewer {
	if timing.MomentumTick <= 0 {
		timing.MomentumTick = DefaultTiming().MomentumTick
	}
	if timing.AutoRotateTick <= 0 {
		timing.AutoRotateTick = DefaultTiming().AutoRotateTick
	}
	return &Viewer{
		machine:  New(len(frames), params),
		frames:   append([]string(nil), frames...),
		timing:   timing,
		onChange: onChange,
		logger:   logger,
	}
}

// Dispatch feeds one event to the machine and returns the resulting index
func (v *Viewer) Dispatch(ev Event) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dispatchLocked(ev)
	return v.machine.Index
}

// Snapshot returns a copy of the current machine
func (v *Viewer) Snapshot() Machine {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.machine
}

// Frame returns the URL of the current frame, "" when there are none
func (v *Viewer) Frame() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.frameLocked()
}

func (v *Viewer) frameLocked() string {
	if len(v.frames) == 0 {
		return ""
	}
	return v.frames[v.machine.Index]
}

// Close moves the machine to Closed, stops any timer and waits for it to exit
func (v *Viewer) Close() {
	v.mu.Lock()
	v.dispatchLocked(Event{Kind: Close})
	v.mu.Unlock()
	// Timer goroutines take the lock, so wait without holding it.
	v.wg.Wait()
}

func (v *Viewer) dispatchLocked(ev Event) {
	prev := v.machine
	v.machine = v.machine.Apply(ev)
	if prev.State != v.machine.State {
		v.logger.Debug("Spin viewer %s -> %s", prev.State, v.machine.State)
	}
	v.syncTimersLocked()
	if v.machine.Index != prev.Index && v.onChange != nil {
		v.onChange(v.machine.Index, v.frameLocked())
	}
}

// syncTimersLocked keeps exactly the timer the current state needs running
func (v *Viewer) syncTimersLocked() {
	var (
		want     EventKind
		interval time.Duration
		needed   bool
	)
	switch v.machine.State {
	case Coasting:
		want, interval, needed = MomentumTick, v.timing.MomentumTick, true
	case AutoRotating:
		want, interval, needed = AutoRotateTick, v.timing.AutoRotateTick, true
	}

	if v.active != nil && needed && v.active.kind == want {
		return
	}
	if v.active != nil {
		close(v.active.stop)
		v.active = nil
	}
	if !needed {
		return
	}

	t := &ticker{kind: want, stop: make(chan struct{})}
	v.active = t
	v.wg.Add(1)
	go v.run(t, interval)
}

func (v *Viewer) run(t *ticker, interval time.Duration) {
	defer v.wg.Done()
	tk := time.NewTicker(interval)
	defer tk.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-tk.C:
			v.mu.Lock()
			// A tick can race with stop; only the active timer may commit.
			if v.active != t {
				v.mu.Unlock()
				return
			}
			v.dispatchLocked(Event{Kind: t.kind})
			v.mu.Unlock()
		}
	}
}
