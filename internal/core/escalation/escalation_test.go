package escalation

import "testing"

func TestCanEscalate(t *testing.T) {
	tests := []struct {
		name        string
		ctx         EscalateContext
		wantAllowed bool
	}{
		{
			name: "eligible group",
			ctx: EscalateContext{
				PinCode: "781001", District: "Kamrup Metropolitan",
				ActiveReportCount: 5, Description: "Multiple complaints of turbid water",
			},
			wantAllowed: true,
		},
		{
			name: "below threshold",
			ctx: EscalateContext{
				PinCode: "781001", District: "Kamrup Metropolitan",
				ActiveReportCount: 4, Description: "Turbid water",
			},
			wantAllowed: false,
		},
		{
			name: "active assignment blocks",
			ctx: EscalateContext{
				PinCode: "781001", District: "Kamrup Metropolitan",
				ActiveReportCount: 12, HasActiveAssignment: true, Description: "Turbid water",
			},
			wantAllowed: false,
		},
		{
			name: "empty description",
			ctx: EscalateContext{
				PinCode: "781001", District: "Kamrup Metropolitan",
				ActiveReportCount: 8, Description: "   ",
			},
			wantAllowed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanEscalate(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanEscalate() Allowed = %v, want %v (reason: %s)",
					result.Allowed, tt.wantAllowed, result.Reason)
			}
			if !tt.wantAllowed && result.Reason == "" {
				t.Error("denied guard must carry a reason")
			}
			err := result.Error()
			if tt.wantAllowed && err != nil {
				t.Errorf("Error() = %v, want nil", err)
			}
			if !tt.wantAllowed && err == nil {
				t.Error("Error() = nil, want error")
			}
		})
	}
}

func TestCanAdvance_ForwardOrder(t *testing.T) {
	chain := []State{StateSentToLab, StateTestUploaded, StateSolutionUploaded, StatePHCMarkedClean, StateConfirmedClean}

	for i := 0; i < len(chain)-1; i++ {
		if r := CanAdvance(chain[i], chain[i+1]); !r.Allowed {
			t.Errorf("CanAdvance(%s, %s) denied: %s", chain[i], chain[i+1], r.Reason)
		}
	}
}

func TestCanAdvance_RejectsSkipsAndRepeats(t *testing.T) {
	tests := []struct {
		from, attempted State
	}{
		{StateSentToLab, StateSolutionUploaded},       // skip
		{StateSentToLab, StateConfirmedClean},         // skip to terminal
		{StateTestUploaded, StateTestUploaded},        // repeat
		{StateSolutionUploaded, StateTestUploaded},    // backwards
		{StateConfirmedClean, StateConfirmedClean},    // terminal repeat
		{StatePHCMarkedClean, StateSolutionUploaded},  // backwards
		{StateConfirmedClean, StateSentToLab},         // restart
	}

	for _, tt := range tests {
		if r := CanAdvance(tt.from, tt.attempted); r.Allowed {
			t.Errorf("CanAdvance(%s, %s) allowed, want denied", tt.from, tt.attempted)
		}
	}
}

func TestSuccessorAndTerminal(t *testing.T) {
	if next, ok := Successor(StateSentToLab); !ok || next != StateTestUploaded {
		t.Errorf("Successor(sent_to_lab) = %s, %v", next, ok)
	}
	if _, ok := Successor(StateConfirmedClean); ok {
		t.Error("terminal state must have no successor")
	}
	if !IsTerminal(StateConfirmedClean) {
		t.Error("confirmed_clean must be terminal")
	}
	if IsTerminal(StatePHCMarkedClean) {
		t.Error("phc_marked_clean is not terminal")
	}
	if !IsActive(StateSentToLab) || IsActive(StateConfirmedClean) {
		t.Error("IsActive must be the complement of IsTerminal")
	}
}

func TestValidState(t *testing.T) {
	for _, s := range []State{StateSentToLab, StateTestUploaded, StateSolutionUploaded, StatePHCMarkedClean, StateConfirmedClean} {
		if !ValidState(s) {
			t.Errorf("ValidState(%s) = false", s)
		}
	}
	if ValidState(State("pending_lab_visit")) {
		t.Error("unknown state accepted")
	}
}
