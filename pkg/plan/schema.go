package plan

import "google.golang.org/genai"

// Fixed shape of a strategic plan. The prompt and the schema both request
// exactly these counts.
const (
	PlanMonthlyCount = 3
	PlanWeeklyCount  = 2
	PlanDailyCount   = 3
)

func items(n int64) *int64 { return &n }

func stringProp() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

func smartSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"specific":   stringProp(),
			"measurable": stringProp(),
			"achievable": stringProp(),
			"relevant":   stringProp(),
			"timeBound":  stringProp(),
		},
		Required: []string{"specific", "measurable", "achievable", "relevant", "timeBound"},
	}
}

// smartGoalSchema is the single SMART goal shape {title, description, smart}.
func smartGoalSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       stringProp(),
			"description": stringProp(),
			"smart":       smartSchema(),
		},
		Required: []string{"title", "description", "smart"},
	}
}

func milestoneList(n int64) *genai.Schema {
	return &genai.Schema{
		Type:     genai.TypeArray,
		MinItems: items(n),
		MaxItems: items(n),
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":       stringProp(),
				"description": stringProp(),
			},
			Required: []string{"title", "description"},
		},
	}
}

// planSchema is the full plan shape {annual, monthly[], weekly[], daily[]}.
func planSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"annual":  smartGoalSchema(),
			"monthly": milestoneList(PlanMonthlyCount),
			"weekly":  milestoneList(PlanWeeklyCount),
			"daily":   milestoneList(PlanDailyCount),
		},
		Required: []string{"annual", "monthly", "weekly", "daily"},
	}
}

// subGoalSchema is the breakdown shape [{title, description, dueDateOffset?}].
func subGoalSchema(n int64) *genai.Schema {
	return &genai.Schema{
		Type:     genai.TypeArray,
		MaxItems: items(n),
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":         stringProp(),
				"description":   stringProp(),
				"dueDateOffset": {Type: genai.TypeNumber},
			},
			Required: []string{"title", "description"},
		},
	}
}

type smartPayload struct {
	Specific   string `json:"specific"`
	Measurable string `json:"measurable"`
	Achievable string `json:"achievable"`
	Relevant   string `json:"relevant"`
	TimeBound  string `json:"timeBound"`
}

type smartGoalPayload struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Smart       *smartPayload `json:"smart"`
}

type milestonePayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type planPayload struct {
	Annual  *smartGoalPayload  `json:"annual"`
	Monthly []milestonePayload `json:"monthly"`
	Weekly  []milestonePayload `json:"weekly"`
	Daily   []milestonePayload `json:"daily"`
}

type subGoalPayload struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	DueDateOffset *float64 `json:"dueDateOffset,omitempty"`
}
