package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepMachine_StartsAtSummary(t *testing.T) {
	m := NewStepMachine()
	assert.Equal(t, StepSummary, m.Current())
	assert.False(t, m.Completed(StepSummary))
}

func TestStepMachine_NextBlockedOnEmptyCart(t *testing.T) {
	m := NewStepMachine()

	err := m.Next(true)
	assert.ErrorIs(t, err, ErrCartEmpty)
	assert.Equal(t, StepSummary, m.Current())
}

func TestStepMachine_NextAdvancesAndMarksCompleted(t *testing.T) {
	m := NewStepMachine()

	require.NoError(t, m.Next(false))
	assert.Equal(t, StepLogin, m.Current())
	assert.True(t, m.Completed(StepSummary))
	assert.False(t, m.Completed(StepLogin))
}

func TestStepMachine_NextClampsAtConfirmation(t *testing.T) {
	m := NewStepMachine()
	for i := 0; i < 10; i++ {
		require.NoError(t, m.Next(false))
	}
	assert.Equal(t, StepConfirmation, m.Current())
}

func TestStepMachine_GoToRejectsSkippingSteps(t *testing.T) {
	m := NewStepMachine()

	err := m.GoTo(StepDelivery, false)
	assert.ErrorIs(t, err, ErrStepLocked)
	assert.Equal(t, StepSummary, m.Current())

	err = m.GoTo(StepConfirmation, false)
	assert.ErrorIs(t, err, ErrStepLocked)
	assert.Equal(t, StepSummary, m.Current())
}

func TestStepMachine_GoToForwardByOne(t *testing.T) {
	m := NewStepMachine()

	require.NoError(t, m.GoTo(StepLogin, false))
	assert.Equal(t, StepLogin, m.Current())
	assert.True(t, m.Completed(StepSummary))
}

func TestStepMachine_GoToForwardBlockedOnEmptyCart(t *testing.T) {
	m := NewStepMachine()

	err := m.GoTo(StepLogin, true)
	assert.ErrorIs(t, err, ErrCartEmpty)
	assert.Equal(t, StepSummary, m.Current())
}

func TestStepMachine_GoToBackwardAlwaysAllowed(t *testing.T) {
	m := NewStepMachine()
	require.NoError(t, m.Next(false))
	require.NoError(t, m.Next(false))
	assert.Equal(t, StepDelivery, m.Current())

	require.NoError(t, m.GoTo(StepSummary, false))
	assert.Equal(t, StepSummary, m.Current())

	// Revisiting keeps completion history: delivery is reachable again one
	// step at a time.
	require.NoError(t, m.GoTo(StepLogin, false))
	assert.Equal(t, StepLogin, m.Current())
}

func TestStepMachine_GoToRejectsOutOfRange(t *testing.T) {
	m := NewStepMachine()

	assert.ErrorIs(t, m.GoTo(Step(-1), false), ErrInvalidStep)
	assert.ErrorIs(t, m.GoTo(Step(4), false), ErrInvalidStep)
	assert.Equal(t, StepSummary, m.Current())
}

func TestStepMachine_Disabled(t *testing.T) {
	m := NewStepMachine()

	// Empty cart disables everything past the summary.
	assert.False(t, m.Disabled(StepSummary, true))
	assert.True(t, m.Disabled(StepLogin, true))
	assert.True(t, m.Disabled(StepConfirmation, true))

	// Non-empty cart: only the next step is reachable.
	assert.False(t, m.Disabled(StepLogin, false))
	assert.True(t, m.Disabled(StepDelivery, false))
}

func TestStepMachine_Reset(t *testing.T) {
	m := NewStepMachine()
	require.NoError(t, m.Next(false))
	require.NoError(t, m.Next(false))

	m.Reset()

	assert.Equal(t, StepSummary, m.Current())
	assert.False(t, m.Completed(StepSummary))
	assert.False(t, m.Completed(StepLogin))
}
