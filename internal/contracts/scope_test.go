package contracts

import (
	"reflect"
	"testing"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		name     string
		district string
		want     Scope
	}{
		{"hyphenated token", "all-india", Scope{National: true}},
		{"underscore token", "ALL_INDIA", Scope{National: true}},
		{"bare token", "India", Scope{National: true}},
		{"wildcard", "*", Scope{National: true}},
		{"padded token", "  all-india  ", Scope{National: true}},
		{"district name", "Pune", Scope{District: "Pune"}},
		{"padded district", "  Pune  ", Scope{District: "Pune"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseScope(tt.district); got != tt.want {
				t.Errorf("ParseScope(%q) = %+v, want %+v", tt.district, got, tt.want)
			}
		})
	}
}

func TestScopeVariants(t *testing.T) {
	tests := []struct {
		name  string
		scope Scope
		want  []string
	}{
		{"national has none", Scope{National: true}, nil},
		{"empty district has none", Scope{}, nil},
		{"single name", Scope{District: "Pune"}, []string{"Pune"}},
		{
			"comma-separated variants",
			Scope{District: "Pune, Pune City"},
			[]string{"Pune, Pune City", "Pune", "Pune City"},
		},
		{
			"duplicates removed",
			Scope{District: "Pune,Pune"},
			[]string{"Pune,Pune", "Pune"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scope.Variants(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Variants() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScopeLabels(t *testing.T) {
	national := Scope{National: true}
	if national.Label() != "ALL_INDIA" {
		t.Errorf("Label() = %q, want ALL_INDIA", national.Label())
	}
	if national.NationalLabel() != "NATIONAL" {
		t.Errorf("NationalLabel() = %q, want NATIONAL", national.NationalLabel())
	}

	scoped := Scope{District: "Nagpur"}
	if scoped.Label() != "Nagpur" {
		t.Errorf("Label() = %q, want Nagpur", scoped.Label())
	}
	if scoped.NationalLabel() != "Nagpur" {
		t.Errorf("NationalLabel() = %q, want Nagpur", scoped.NationalLabel())
	}
}
