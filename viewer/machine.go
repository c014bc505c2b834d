// Package viewer implements the 360 spin viewer as a pure state machine
// (Machine.Apply) driven by input events and two timers owned by Viewer.
package viewer

import "math"

// State is the viewer's interaction mode
type State int

const (
	Idle State = iota
	Dragging
	Coasting
	AutoRotating
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Coasting:
		return "coasting"
	case AutoRotating:
		return "auto-rotating"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// EventKind names an input to the machine
type EventKind int

const (
	// Press and Move carry the pointer or touch X coordinate.
	Press EventKind = iota
	Move
	Release
	KeyLeft
	KeyRight
	ToggleAutoRotate
	MomentumTick
	AutoRotateTick
	Close
)

// Event is one input. X is only meaningful for Press and Move.
type Event struct {
	Kind EventKind
	X    float64
}

// Params tunes drag and momentum behavior
type Params struct {
	ThresholdPx     float64 // drag distance per step at sensitivity 1
	Sensitivity     float64 // higher means fewer pixels per step
	InitialVelocity float64 // velocity magnitude when coasting starts
	Damping         float64 // velocity multiplier per momentum tick, in (0, 1)
	VelocityFloor   float64 // coasting stops at or below this magnitude
}

// DefaultParams returns the stock tuning
func DefaultParams() Params {
	return Params{
		ThresholdPx:     50,
		Sensitivity:     1,
		InitialVelocity: 1,
		Damping:         0.85,
		VelocityFloor:   0.2,
	}
}

func (p Params) threshold() float64 {
	if p.Sensitivity <= 0 {
		return p.ThresholdPx
	}
	return p.ThresholdPx / p.Sensitivity
}

// Machine is the complete viewer state. It is a value; Apply returns the
// successor and never mutates the receiver.
type Machine struct {
	State  State
	Index  int // current frame in [0, Frames)
	Frames int

	// Drag origin (the last commit point) and the sign of the last
	// committing displacement: +1 right, -1 left, 0 none yet.
	OriginX       float64
	DragDirection int

	Velocity float64

	Params Params
}

// New returns an idle machine over n frames
func New(frames int, params Params) Machine {
	if frames < 0 {
		frames = 0
	}
	return Machine{State: Idle, Frames: frames, Params: params}
}

// step moves the index by delta frames, wrapping in both directions
func (m Machine) step(delta int) Machine {
	if m.Frames <= 0 {
		return m
	}
	m.Index = ((m.Index+delta)%m.Frames + m.Frames) % m.Frames
	return m
}

// Apply returns the state after ev. Closed is terminal.
func (m Machine) Apply(ev Event) Machine {
	if m.State == Closed {
		return m
	}

	switch ev.Kind {
	case Close:
		m.State = Closed
		m.Velocity = 0
		m.DragDirection = 0
		return m

	case KeyLeft, KeyRight:
		delta := 1
		if ev.Kind == KeyLeft {
			delta = -1
		}
		m = m.step(delta)
		if m.State == AutoRotating {
			m.State = Idle
		}
		return m

	case Press:
		// A new drag also stops coasting and auto-rotation.
		m.State = Dragging
		m.OriginX = ev.X
		m.DragDirection = 0
		m.Velocity = 0
		return m

	case Move:
		if m.State != Dragging {
			return m
		}
		dx := ev.X - m.OriginX
		if math.Abs(dx) <= m.Params.threshold() {
			return m
		}
		// Dragging right rewinds, dragging left advances.
		if dx > 0 {
			m = m.step(-1)
			m.DragDirection = 1
		} else {
			m = m.step(1)
			m.DragDirection = -1
		}
		m.OriginX = ev.X
		return m

	case Release:
		if m.State != Dragging {
			return m
		}
		if m.DragDirection == 0 || m.Params.InitialVelocity <= m.Params.VelocityFloor {
			m.State = Idle
			return m
		}
		m.State = Coasting
		m.Velocity = float64(m.DragDirection) * m.Params.InitialVelocity
		return m

	case MomentumTick:
		if m.State != Coasting {
			return m
		}
		if math.Abs(m.Velocity) <= m.Params.VelocityFloor {
			m.State = Idle
			m.Velocity = 0
			return m
		}
		if m.Velocity > 0 {
			m = m.step(-1)
		} else {
			m = m.step(1)
		}
		m.Velocity *= m.Params.Damping
		if math.Abs(m.Velocity) <= m.Params.VelocityFloor {
			m.State = Idle
			m.Velocity = 0
		}
		return m

	case ToggleAutoRotate:
		switch m.State {
		case AutoRotating:
			m.State = Idle
		case Idle, Coasting:
			m.State = AutoRotating
			m.Velocity = 0
		}
		return m

	case AutoRotateTick:
		if m.State != AutoRotating {
			return m
		}
		return m.step(1)
	}

	return m
}
