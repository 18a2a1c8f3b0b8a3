package severity

import "testing"

func TestTierForCount(t *testing.T) {
	tests := []struct {
		count int
		want  Tier
	}{
		{0, TierNone},
		{1, TierNone},
		{4, TierNone},
		{5, TierMild},
		{9, TierMild},
		{10, TierMedium},
		{19, TierMedium},
		{20, TierSevere},
		{100, TierSevere},
	}

	for _, tt := range tests {
		if got := TierForCount(tt.count); got != tt.want {
			t.Errorf("TierForCount(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}

func TestTierForCount_Monotonic(t *testing.T) {
	rank := map[Tier]int{TierNone: 0, TierMild: 1, TierMedium: 2, TierSevere: 3}

	prev := TierForCount(0)
	for c := 1; c <= 50; c++ {
		cur := TierForCount(c)
		if rank[cur] < rank[prev] {
			t.Fatalf("tier decreased at count %d: %q -> %q", c, prev, cur)
		}
		prev = cur
	}
}

func TestMeetsEscalationThreshold(t *testing.T) {
	if MeetsEscalationThreshold(4) {
		t.Error("count 4 should not meet escalation threshold")
	}
	if !MeetsEscalationThreshold(5) {
		t.Error("count 5 should meet escalation threshold")
	}
}
