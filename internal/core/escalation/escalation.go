// Package escalation contains the pure state machine governing a locality
// group's journey from PHC escalation through lab testing to confirmed-clean.
// This is part of the Functional Core - no I/O, only pure functions.
package escalation

import (
	"fmt"
	"strings"

	"github.com/example/waterwatch/internal/core/severity"
)

// State represents a persisted assignment state. "Eligible" is virtual: a
// locality group past the escalation threshold with no active assignment.
type State string

const (
	StateSentToLab        State = "sent_to_lab"
	StateTestUploaded     State = "test_uploaded"
	StateSolutionUploaded State = "solution_uploaded"
	StatePHCMarkedClean   State = "phc_marked_clean"
	StateConfirmedClean   State = "confirmed_clean"
)

// successor maps each non-terminal state to the single state it may advance
// to. Transitions are strictly forward and non-idempotent.
var successor = map[State]State{
	StateSentToLab:        StateTestUploaded,
	StateTestUploaded:     StateSolutionUploaded,
	StateSolutionUploaded: StatePHCMarkedClean,
	StatePHCMarkedClean:   StateConfirmedClean,
}

// Successor returns the next state after from, if any.
func Successor(from State) (State, bool) {
	next, ok := successor[from]
	return next, ok
}

// IsTerminal reports whether the state ends the assignment lifecycle.
func IsTerminal(s State) bool {
	return s == StateConfirmedClean
}

// IsActive reports whether an assignment in this state still blocks new
// escalations for its locality.
func IsActive(s State) bool {
	return !IsTerminal(s)
}

// ValidState reports whether s is a known persisted state.
func ValidState(s State) bool {
	_, ok := successor[s]
	return ok || IsTerminal(s)
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// EscalateContext provides the inputs for the escalation eligibility guard.
// Populated by the caller with a fresh count and active-assignment lookup.
type EscalateContext struct {
	PinCode             string
	District            string
	ActiveReportCount   int
	HasActiveAssignment bool
	Description         string
}

// CanEscalate evaluates whether a locality group may be escalated to a lab.
// Rules: the group must meet the count threshold, have no active assignment,
// and the PHC must supply a non-empty description.
func CanEscalate(ctx EscalateContext) GuardResult {
	if strings.TrimSpace(ctx.Description) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "escalation requires a non-empty description",
		}
	}
	if !severity.MeetsEscalationThreshold(ctx.ActiveReportCount) {
		return GuardResult{
			Allowed: false,
			Reason: fmt.Sprintf("locality %s/%s has %d active reports, need at least %d",
				ctx.PinCode, ctx.District, ctx.ActiveReportCount, severity.EscalationThreshold),
		}
	}
	if ctx.HasActiveAssignment {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("locality %s/%s already has an active assignment", ctx.PinCode, ctx.District),
		}
	}
	return GuardResult{Allowed: true}
}

// CanAdvance evaluates whether an assignment in from may move to attempted.
// Only the immediate successor is allowed; repeats and skips are rejected.
func CanAdvance(from, attempted State) GuardResult {
	next, ok := successor[from]
	if !ok {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("assignment is %s and cannot advance further", from),
		}
	}
	if attempted != next {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("assignment is %s, next transition is %s, not %s", from, next, attempted),
		}
	}
	return GuardResult{Allowed: true}
}
