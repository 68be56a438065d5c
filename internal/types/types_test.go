package types

import (
	"testing"

	"component-quality-checker/internal/config"
)

func TestNewIssueID_Deterministic(t *testing.T) {
	a := NewIssueID("missing-key-prop", "src/List.tsx", 12, 5, "Missing key")
	b := NewIssueID("missing-key-prop", "src/List.tsx", 12, 5, "Missing key")
	if a != b {
		t.Fatalf("ids differ across calls: %s vs %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("expected 16 hex chars, got %q", a)
	}
}

func TestNewIssueID_FieldsMatter(t *testing.T) {
	base := NewIssueID("t", "f", 1, 1, "m")
	variants := []string{
		NewIssueID("t2", "f", 1, 1, "m"),
		NewIssueID("t", "f2", 1, 1, "m"),
		NewIssueID("t", "f", 2, 1, "m"),
		NewIssueID("t", "f", 1, 2, "m"),
		NewIssueID("t", "f", 1, 1, "m2"),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collides with base id %s", i, base)
		}
	}
}

func TestNewIssueID_SeparatorPreventsShifting(t *testing.T) {
	if NewIssueID("ab", "c", 1, 1, "") == NewIssueID("a", "bc", 1, 1, "") {
		t.Error("field boundaries must be part of the digest")
	}
}

func TestIssueIsCritical(t *testing.T) {
	tests := []struct {
		sev   config.Severity
		layer int
		want  bool
	}{
		{config.SeverityError, 1, true},
		{config.SeverityError, 2, true},
		{config.SeverityError, 3, false},
		{config.SeverityWarning, 1, false},
	}
	for _, tt := range tests {
		got := Issue{Severity: tt.sev, Layer: tt.layer}.IsCritical()
		if got != tt.want {
			t.Errorf("severity=%s layer=%d: got %v, want %v", tt.sev, tt.layer, got, tt.want)
		}
	}
}
