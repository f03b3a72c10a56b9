package natsadapter

import (
	"testing"

	"github.com/samirrijal/saferoute/internal/core/domain"
)

func TestWarningSubject(t *testing.T) {
	tests := []struct {
		label domain.SafetyLabel
		want  string
	}{
		{domain.LabelSafe, "saferoute.warnings.safe"},
		{domain.LabelModerate, "saferoute.warnings.moderate"},
		{domain.LabelDangerous, "saferoute.warnings.dangerous"},
	}
	for _, tt := range tests {
		if got := WarningSubject(tt.label); got != tt.want {
			t.Errorf("WarningSubject(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}
