package model

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from SwapStatus
		to   SwapStatus
		want bool
	}{
		{"pending to accepted", SwapPending, SwapAccepted, true},
		{"pending to rejected", SwapPending, SwapRejected, true},
		{"accepted to completed", SwapAccepted, SwapCompleted, true},
		{"pending to completed skips accept", SwapPending, SwapCompleted, false},
		{"accepted back to pending", SwapAccepted, SwapPending, false},
		{"rejected is terminal", SwapRejected, SwapPending, false},
		{"completed is terminal", SwapCompleted, SwapAccepted, false},
		{"accepted to rejected", SwapAccepted, SwapRejected, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.want {
				t.Errorf("%s → %s = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestParseSwapStatus(t *testing.T) {
	if _, ok := ParseSwapStatus("accepted"); !ok {
		t.Error("ParseSwapStatus(accepted) should be valid")
	}
	if _, ok := ParseSwapStatus("APPROVED"); ok {
		t.Error("ParseSwapStatus(APPROVED) should be invalid")
	}
	if _, ok := ParseSwapStatus(""); ok {
		t.Error("ParseSwapStatus(empty) should be invalid")
	}
}

func TestParseModerationStatus(t *testing.T) {
	// Moderation is narrower than the full item status set — an admin
	// decision can only approve or reject, never mark something swapped.
	if _, ok := ParseModerationStatus("available"); !ok {
		t.Error("available should be a valid moderation status")
	}
	if _, ok := ParseModerationStatus("rejected"); !ok {
		t.Error("rejected should be a valid moderation status")
	}
	if _, ok := ParseModerationStatus("swapped"); ok {
		t.Error("swapped should NOT be a valid moderation status")
	}
	if _, ok := ParseModerationStatus("pending"); ok {
		t.Error("pending should NOT be a valid moderation status")
	}
}
