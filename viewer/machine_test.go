package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apply(m Machine, events ...Event) Machine {
	for _, ev := range events {
		m = m.Apply(ev)
	}
	return m
}

func TestDragRightRewinds(t *testing.T) {
	m := New(36, DefaultParams())

	m = apply(m, Event{Kind: Press, X: 0}, Event{Kind: Move, X: 30})
	assert.Equal(t, Dragging, m.State)
	assert.Equal(t, 0, m.Index, "below threshold")

	m = m.Apply(Event{Kind: Move, X: 60})
	assert.Equal(t, 35, m.Index)
	assert.Equal(t, 1, m.DragDirection)
	assert.Equal(t, 60.0, m.OriginX)

	m = m.Apply(Event{Kind: Move, X: 111})
	assert.Equal(t, 34, m.Index)
}

func TestDragLeftAdvances(t *testing.T) {
	m := apply(New(36, DefaultParams()), Event{Kind: Press, X: 100}, Event{Kind: Move, X: 40})
	assert.Equal(t, 1, m.Index)
	assert.Equal(t, -1, m.DragDirection)
}

func TestSensitivityScalesThreshold(t *testing.T) {
	p := DefaultParams()
	p.Sensitivity = 2
	m := apply(New(36, p), Event{Kind: Press, X: 0}, Event{Kind: Move, X: -30})
	assert.Equal(t, 1, m.Index)
}

func TestReleaseWithoutStepGoesIdle(t *testing.T) {
	m := apply(New(36, DefaultParams()), Event{Kind: Press, X: 0}, Event{Kind: Move, X: 10}, Event{Kind: Release})
	assert.Equal(t, Idle, m.State)
	assert.Zero(t, m.Velocity)
}

func TestMomentumDecaysToIdle(t *testing.T) {
	m := apply(New(36, DefaultParams()),
		Event{Kind: Press, X: 0},
		Event{Kind: Move, X: 60},
		Event{Kind: Release},
	)
	require.Equal(t, Coasting, m.State)
	assert.Equal(t, 1.0, m.Velocity)
	assert.Equal(t, 35, m.Index)

	ticks := 0
	for m.State == Coasting {
		prev := m.Velocity
		m = m.Apply(Event{Kind: MomentumTick})
		ticks++
		if m.State == Coasting {
			assert.Less(t, m.Velocity, prev, "velocity must decay")
		}
		require.Less(t, ticks, 100, "momentum must terminate")
	}

	assert.Equal(t, 10, ticks)
	assert.Equal(t, 25, m.Index, "coasting continues the drag direction")
	assert.Equal(t, Idle, m.State)
	assert.Zero(t, m.Velocity)
}

func TestMomentumAfterLeftDragAdvances(t *testing.T) {
	m := apply(New(36, DefaultParams()),
		Event{Kind: Press, X: 100},
		Event{Kind: Move, X: 40},
		Event{Kind: Release},
		Event{Kind: MomentumTick},
	)
	assert.Equal(t, 2, m.Index)
	assert.InDelta(t, -0.85, m.Velocity, 1e-9)
}

func TestKeysWrapAndCancelAutoRotate(t *testing.T) {
	m := New(36, DefaultParams())
	m = m.Apply(Event{Kind: KeyLeft})
	assert.Equal(t, 35, m.Index)
	m = m.Apply(Event{Kind: KeyRight})
	assert.Equal(t, 0, m.Index)

	m = apply(m, Event{Kind: ToggleAutoRotate}, Event{Kind: AutoRotateTick}, Event{Kind: AutoRotateTick})
	assert.Equal(t, AutoRotating, m.State)
	assert.Equal(t, 2, m.Index)

	m = m.Apply(Event{Kind: KeyRight})
	assert.Equal(t, Idle, m.State)
	assert.Equal(t, 3, m.Index)
}

func TestToggleAutoRotate(t *testing.T) {
	m := New(4, DefaultParams())
	m = m.Apply(Event{Kind: ToggleAutoRotate})
	assert.Equal(t, AutoRotating, m.State)
	m = m.Apply(Event{Kind: ToggleAutoRotate})
	assert.Equal(t, Idle, m.State)

	m = apply(m, Event{Kind: Press, X: 0}, Event{Kind: Move, X: 60}, Event{Kind: Release})
	require.Equal(t, Coasting, m.State)
	m = m.Apply(Event{Kind: ToggleAutoRotate})
	assert.Equal(t, AutoRotating, m.State)
	assert.Zero(t, m.Velocity)

	m = apply(m, Event{Kind: Press, X: 0}, Event{Kind: ToggleAutoRotate})
	assert.Equal(t, Dragging, m.State, "toggle is ignored while dragging")
}

func TestPressInterruptsCoasting(t *testing.T) {
	m := apply(New(36, DefaultParams()),
		Event{Kind: Press, X: 0},
		Event{Kind: Move, X: 60},
		Event{Kind: Release},
		Event{Kind: Press, X: 5},
	)
	assert.Equal(t, Dragging, m.State)
	assert.Zero(t, m.Velocity)
	assert.Equal(t, 0, m.DragDirection)

	idx := m.Index
	m = m.Apply(Event{Kind: MomentumTick})
	assert.Equal(t, idx, m.Index, "ticks outside coasting are ignored")
}

func TestStrayEventsIgnored(t *testing.T) {
	m := New(36, DefaultParams())
	m = apply(m, Event{Kind: Move, X: 500}, Event{Kind: Release}, Event{Kind: AutoRotateTick}, Event{Kind: MomentumTick})
	assert.Equal(t, Idle, m.State)
	assert.Equal(t, 0, m.Index)
}

func TestCloseIsTerminal(t *testing.T) {
	m := apply(New(36, DefaultParams()), Event{Kind: ToggleAutoRotate}, Event{Kind: Close})
	assert.Equal(t, Closed, m.State)

	after := apply(m, Event{Kind: KeyRight}, Event{Kind: Press}, Event{Kind: ToggleAutoRotate}, Event{Kind: AutoRotateTick})
	assert.Equal(t, m, after)
}

func TestApplyLeavesReceiverUnchanged(t *testing.T) {
	m := New(36, DefaultParams())
	_ = m.Apply(Event{Kind: KeyRight})
	assert.Equal(t, 0, m.Index)
	assert.Equal(t, Idle, m.State)
}

func TestNoFrames(t *testing.T) {
	m := apply(New(0, DefaultParams()), Event{Kind: KeyRight}, Event{Kind: ToggleAutoRotate}, Event{Kind: AutoRotateTick})
	assert.Equal(t, 0, m.Index)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "auto-rotating", AutoRotating.String())
	assert.Equal(t, "unknown", State(99).String())
}
