// internal/domain/checkout/steps.go
package checkout

import "errors"

// Step indexes the checkout wizard pages.
type Step int

const (
	StepSummary Step = iota
	StepLogin
	StepDelivery
	StepConfirmation

	numSteps = 4
)

// String returns the step name
func (s Step) String() string {
	switch s {
	case StepSummary:
		return "summary"
	case StepLogin:
		return "login"
	case StepDelivery:
		return "delivery"
	case StepConfirmation:
		return "confirmation"
	default:
		return "unknown"
	}
}

var (
	// ErrCartEmpty rejects forward navigation while the cart has no lines.
	ErrCartEmpty = errors.New("cart is empty")
	// ErrStepLocked rejects a jump past the next reachable step.
	ErrStepLocked = errors.New("checkout step not reachable")
	// ErrInvalidStep rejects a step index outside the wizard.
	ErrInvalidStep = errors.New("invalid checkout step")
)

// StepMachine gates navigation through the checkout wizard. Steps already
// visited can be revisited freely; forward movement is limited to one step at
// a time and requires a non-empty cart. A rejected transition leaves the
// machine unchanged.
type StepMachine struct {
	current   Step
	completed [numSteps]bool
}

// NewStepMachine starts a wizard at the summary step
func NewStepMachine() *StepMachine {
	return &StepMachine{current: StepSummary}
}

// Current returns the current step.
func (m *StepMachine) Current() Step {
	return m.current
}

// Completed reports whether the user has advanced past the given step.
func (m *StepMachine) Completed(s Step) bool {
	if s < 0 || s >= numSteps {
		return false
	}
	return m.completed[s]
}

// Disabled reports whether a step is unreachable from the current state:
// everything past the summary while the cart is empty, and anything more than
// one step ahead.
func (m *StepMachine) Disabled(s Step, cartEmpty bool) bool {
	if cartEmpty && s > StepSummary {
		return true
	}
	return s > m.current+1
}

// Next advances one step, clamped at confirmation. Advancing requires a
// non-empty cart.
func (m *StepMachine) Next(cartEmpty bool) error {
	if cartEmpty {
		return ErrCartEmpty
	}
	if m.current >= StepConfirmation {
		return nil
	}
	m.completed[m.current] = true
	m.current++
	return nil
}

// GoTo jumps to a step: backward to any visited step, or forward by exactly
// one. Any other target is rejected and the current step is unchanged.
func (m *StepMachine) GoTo(s Step, cartEmpty bool) error {
	if s < 0 || s >= numSteps {
		return ErrInvalidStep
	}
	if s <= m.current {
		m.current = s
		return nil
	}
	if s != m.current+1 {
		return ErrStepLocked
	}
	return m.Next(cartEmpty)
}

// Reset puts the wizard back at the summary with no completed steps.
func (m *StepMachine) Reset() {
	m.current = StepSummary
	m.completed = [numSteps]bool{}
}
