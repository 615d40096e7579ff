package handlers

import (
	"strings"
	"testing"

	"github.com/swasthyasetu/risk-engine/internal/district"
	"github.com/swasthyasetu/risk-engine/internal/forecast"
	"github.com/swasthyasetu/risk-engine/internal/geo"
	"github.com/swasthyasetu/risk-engine/internal/national"
	"github.com/swasthyasetu/risk-engine/internal/outbreak"
	"github.com/swasthyasetu/risk-engine/internal/resources"
)

// Governance notices accompany every analytical response and must stay
// preventive: diagnostic or clinical terms may appear only inside an
// explicit negation ("not a diagnosis", "does not provide clinical...").
func TestGovernanceNoticesAvoidDiagnosticLanguage(t *testing.T) {
	notices := map[string]string{
		"district overview": district.GovernanceNotice,
		"geo hotspots":      geo.GovernanceNotice,
		"outbreak scan":     outbreak.GovernanceNotice,
		"resource ranking":  resources.GovernanceNotice,
		"seasonal forecast": forecast.GovernanceNotice,
		"national overview": national.GovernanceNotice,
	}

	banned := []string{"diagnosed", "confirmed case", "treatment", "prescri"}
	disclaimedOnly := []string{"diagnos", "clinical"}

	for name, notice := range notices {
		lower := strings.ToLower(notice)

		for _, phrase := range banned {
			if strings.Contains(lower, phrase) {
				t.Errorf("%s notice contains diagnostic phrase %q: %s", name, phrase, notice)
			}
		}

		for _, term := range disclaimedOnly {
			for start := 0; ; {
				idx := strings.Index(lower[start:], term)
				if idx < 0 {
					break
				}
				if !strings.Contains(lower[:start+idx], "not ") {
					t.Errorf("%s notice uses %q without a negation: %s", name, term, notice)
				}
				start += idx + len(term)
			}
		}
	}
}
