package risk

import "testing"

func TestBMIFactor(t *testing.T) {
	tests := []struct {
		name string
		bmi  float64
		want float64
	}{
		{"severe underweight", 15.0, 1.0},
		{"boundary 16.5", 16.5, 0.7},
		{"mild underweight", 17.8, 0.7},
		{"boundary 18.5", 18.5, 0.2},
		{"healthy", 22.0, 0.2},
		{"boundary 24.9", 24.9, 0.2},
		{"overweight", 27.0, 0.6},
		{"boundary 29.9", 29.9, 0.6},
		{"obese", 31.0, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BMIFactor(tt.bmi); got != tt.want {
				t.Errorf("BMIFactor(%v) = %v, want %v", tt.bmi, got, tt.want)
			}
		})
	}
}

func TestVaccinationFactor(t *testing.T) {
	tests := []struct {
		status string
		want   float64
	}{
		{"COMPLETE", 0.0},
		{"PARTIAL", 0.6},
		{"DELAYED", 0.8},
		{"NONE", 1.0},
		{"complete", 0.0},
		{" partial ", 0.6},
		{"UNKNOWN", 0.7},
		{"", 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := VaccinationFactor(tt.status); got != tt.want {
				t.Errorf("VaccinationFactor(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestHeatFactor(t *testing.T) {
	tests := []struct {
		temperature float64
		want        float64
	}{
		{46, 1.0},
		{45, 1.0},
		{42, 0.8},
		{40, 0.8},
		{37, 0.5},
		{35, 0.5},
		{30, 0.2},
	}

	for _, tt := range tests {
		if got := HeatFactor(tt.temperature); got != tt.want {
			t.Errorf("HeatFactor(%v) = %v, want %v", tt.temperature, got, tt.want)
		}
	}
}

func TestAQIFactor(t *testing.T) {
	tests := []struct {
		aqi  int
		want float64
	}{
		{320, 1.0},
		{300, 1.0},
		{250, 0.8},
		{200, 0.8},
		{150, 0.5},
		{120, 0.5},
		{80, 0.2},
	}

	for _, tt := range tests {
		if got := AQIFactor(tt.aqi); got != tt.want {
			t.Errorf("AQIFactor(%v) = %v, want %v", tt.aqi, got, tt.want)
		}
	}
}

func TestScoreLevel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.85, "HIGH"},
		{0.7, "HIGH"},
		{0.69, "MEDIUM"},
		{0.4, "MEDIUM"},
		{0.39, "LOW"},
		{0.0, "LOW"},
	}

	for _, tt := range tests {
		if got := ScoreLevel(tt.score); got != tt.want {
			t.Errorf("ScoreLevel(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestBuildReasonCodesBaseline(t *testing.T) {
	reasons := buildReasonCodes(Contributions{
		BMI:         0.06,
		Vaccination: 0.0,
		Temperature: 0.05,
		AQI:         0.03,
		Attendance:  0.01,
	})
	if len(reasons) != 1 || reasons[0] != "BASELINE_LOW_RISK" {
		t.Errorf("reasons = %v, want [BASELINE_LOW_RISK]", reasons)
	}
}
