package contracts

import "strings"

// allIndiaTokens are the accepted case-insensitive spellings of the
// national sentinel.
var allIndiaTokens = map[string]struct{}{
	"all-india": {},
	"all_india": {},
	"india":     {},
	"*":         {},
}

// Scope is the tagged district-or-national filter every aggregation accepts.
// A national scope matches all districts; a scoped filter matches by
// substring over the comma-separated district name variants.
type Scope struct {
	District string
	National bool
}

// ParseScope resolves a raw district parameter into a Scope.
func ParseScope(district string) Scope {
	normalized := strings.ToLower(strings.TrimSpace(district))
	if _, ok := allIndiaTokens[normalized]; ok {
		return Scope{National: true}
	}
	return Scope{District: strings.TrimSpace(district)}
}

// Variants returns the district name plus each comma-separated part,
// deduplicated, preserving order. Empty for a national scope.
func (s Scope) Variants() []string {
	if s.National {
		return nil
	}
	trimmed := strings.TrimSpace(s.District)
	if trimmed == "" {
		return nil
	}

	seen := map[string]struct{}{trimmed: {}}
	variants := []string{trimmed}
	for _, part := range strings.Split(trimmed, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		variants = append(variants, part)
	}
	return variants
}

// Label returns the display name used in responses.
func (s Scope) Label() string {
	if s.National {
		return "ALL_INDIA"
	}
	return s.District
}

// NationalLabel returns the display name for national-rollup responses.
func (s Scope) NationalLabel() string {
	if s.National {
		return "NATIONAL"
	}
	return s.District
}
