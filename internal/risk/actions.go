package risk

// priorityRank orders action priorities for upserts.
var priorityRank = map[string]int{"low": 1, "medium": 2, "high": 3}

// mapReasonsToActions converts reason codes into deduplicated preventive
// actions. When the same action type is triggered twice the higher priority
// wins. A HIGH level always carries an urgent parent-counseling action.
func mapReasonsToActions(level string, reasonCodes []string) []Action {
	triggered := map[string]bool{}
	for _, code := range reasonCodes {
		triggered[code] = true
	}

	byType := map[string]Action{}
	order := []string{}

	upsert := func(action Action) {
		existing, ok := byType[action.Type]
		if !ok {
			byType[action.Type] = action
			order = append(order, action.Type)
			return
		}
		if priorityRank[action.Priority] > priorityRank[existing.Priority] {
			byType[action.Type] = action
		}
	}

	if triggered["BMI_OUT_OF_HEALTHY_RANGE"] {
		upsert(Action{
			Type:           "nutrition",
			Priority:       "high",
			Title:          "Nutrition counseling and meal plan",
			Recommendation: "Start nutrition counseling and track weekly diet + BMI progress.",
			Tasks: []string{
				"Arrange counseling session in 7 days",
				"Share diet checklist with parent",
				"Review BMI in 14 days",
			},
			ParentScript: "Namaste. Please meet school health desk for nutrition follow-up this week.",
		})
	}
	if triggered["VACCINATION_DELAY_OR_INCOMPLETE"] {
		upsert(Action{
			Type:           "health_camp",
			Priority:       "high",
			Title:          "Vaccination catch-up referral",
			Recommendation: "Refer student to immunization camp/PHC for pending vaccines.",
			Tasks: []string{
				"Verify pending vaccine list",
				"Issue referral note",
				"Confirm status update after visit",
			},
			ParentScript: "Namaste. Your child has pending vaccination. Please visit the assigned camp/PHC.",
		})
	}
	if triggered["LOW_ATTENDANCE_PATTERN"] {
		upsert(Action{
			Type:           "parent_counseling",
			Priority:       "high",
			Title:          "Attendance counseling",
			Recommendation: "Counsel guardian and set a 2-week attendance recovery plan.",
			Tasks: []string{
				"Call guardian in 48 hours",
				"Capture attendance barriers",
				"Track attendance daily for 2 weeks",
			},
			ParentScript: "Namaste. Low attendance is affecting follow-up. Please coordinate with class teacher.",
		})
	}
	if triggered["AIR_QUALITY_EXPOSURE"] {
		upsert(Action{
			Type:           "health_camp",
			Priority:       "medium",
			Title:          "Respiratory screening referral",
			Recommendation: "Include student in respiratory screening during next health camp.",
			Tasks: []string{
				"Mark student for respiratory check",
				"Advise reduced outdoor exposure during high AQI",
				"Review symptoms weekly",
			},
			ParentScript: "Namaste. Air quality is poor. Please monitor breathing symptoms and avoid peak pollution exposure.",
		})
	}
	if triggered["HEAT_STRESS_RISK"] {
		upsert(Action{
			Type:           "parent_counseling",
			Priority:       "medium",
			Title:          "Heat safety counseling",
			Recommendation: "Give hydration and heat-safety guidance to family.",
			Tasks: []string{
				"Share hydration checklist",
				"Avoid afternoon outdoor activity",
				"Track heat-related symptoms",
			},
			ParentScript: "Namaste. High heat risk detected. Ensure hydration and reduce daytime heat exposure.",
		})
	}

	if len(byType) == 0 {
		upsert(Action{
			Type:           "parent_counseling",
			Priority:       "low",
			Title:          "Routine preventive follow-up",
			Recommendation: "Continue preventive checks and routine health monitoring.",
			Tasks: []string{
				"Share preventive care advisory",
				"Maintain attendance and nutrition log",
				"Review risk profile next month",
			},
			ParentScript: "Namaste. Routine preventive follow-up is advised.",
		})
	}

	if level == "HIGH" {
		if _, ok := byType["parent_counseling"]; !ok {
			upsert(Action{
				Type:           "parent_counseling",
				Priority:       "high",
				Title:          "Urgent parent counseling",
				Recommendation: "Arrange urgent counseling and finalize immediate follow-up actions.",
				Tasks: []string{
					"Call guardian same day",
					"Schedule counseling within 24 hours",
					"Document referral timeline",
				},
				ParentScript: "Namaste. This is an urgent school health update. Please contact school health desk today.",
			})
		}
	}

	actions := make([]Action, 0, len(order))
	for _, t := range order {
		actions = append(actions, byType[t])
	}
	return actions
}
