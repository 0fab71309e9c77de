package plan

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stefanpenner/stratlife/pkg/store"
)

func refinePrompt(description string, horizon store.Horizon) string {
	return fmt.Sprintf(`Convert the following %s goal into a rigorous SMART goal.
User Input: %q

Keep it realistic and strategic.`, horizon, description)
}

func planPrompt(vision, category string) string {
	return fmt.Sprintf(`Create a complete strategic plan for this vision: %q in the category %q.

Return a single JSON object containing:
1. One annual SMART goal
2. %d monthly milestones
3. %d weekly tasks
4. %d daily tasks`, vision, category, PlanMonthlyCount, PlanWeeklyCount, PlanDailyCount)
}

func breakdownPrompt(parent store.Goal, child store.Horizon, count int) string {
	smart := "{}"
	if parent.SmartCriteria != nil {
		if b, err := json.Marshal(parent.SmartCriteria); err == nil {
			smart = string(b)
		}
	}
	return fmt.Sprintf(`Break down the following %s goal into %d %s sub-goals.
Parent Goal: %q
SMART Details: %s

For each sub-goal, suggest dueDateOffset as the number of days from today.`, parent.Horizon, count, child, parent.Title, smart)
}

func advicePrompt(goals []store.Goal) string {
	var active []string
	for _, g := range goals {
		if g.IsInProgress() {
			active = append(active, fmt.Sprintf("%s: %s", g.Horizon, g.Title))
		}
	}
	return fmt.Sprintf(`You are a strategic life coach.
Active goals:
%s

Give concise advice (max 3 sentences).`, strings.Join(active, "\n"))
}
