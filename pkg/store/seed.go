package store

import "time"

// SeedID is the id of the goal planted into an empty store.
const SeedID = "seed-1"

// SeedGoal returns the annual goal shown on first run so the planner is
// never empty.
func SeedGoal(now time.Time) Goal {
	return Goal{
		ID:          SeedID,
		Title:       "Launch my Dream Startup",
		Description: "Build and launch a SaaS product in the AI space.",
		Horizon:     HorizonAnnual,
		Status:      StatusInProgress,
		Progress:    25,
		Category:    "Career",
		DueDate:     now.AddDate(1, 0, 0),
		SmartCriteria: &SmartCriteria{
			Specific:   "Launch MVP of AI planner",
			Measurable: "1000 active users",
			Achievable: "Using weekends and evenings",
			Relevant:   "Financial independence goal",
			TimeBound:  "By Dec 31st",
		},
	}
}
