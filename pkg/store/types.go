package store

import "time"

// GoalStatus represents the lifecycle state of a goal.
type GoalStatus string

const (
	StatusNotStarted GoalStatus = "not_started"
	StatusInProgress GoalStatus = "in_progress"
	StatusCompleted  GoalStatus = "completed"
	StatusCancelled  GoalStatus = "cancelled"
)

// Valid reports whether s is one of the four known statuses.
func (s GoalStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Horizon is the planning timeframe tier of a goal.
type Horizon string

const (
	HorizonAnnual  Horizon = "annual"
	HorizonMonthly Horizon = "monthly"
	HorizonWeekly  Horizon = "weekly"
	HorizonDaily   Horizon = "daily"
)

// Horizons lists every horizon from broadest to finest.
var Horizons = []Horizon{HorizonAnnual, HorizonMonthly, HorizonWeekly, HorizonDaily}

// Valid reports whether h is one of the four known horizons.
func (h Horizon) Valid() bool {
	switch h {
	case HorizonAnnual, HorizonMonthly, HorizonWeekly, HorizonDaily:
		return true
	}
	return false
}

// Child returns the next-finer horizon. Daily goals have no child horizon.
func (h Horizon) Child() (Horizon, bool) {
	switch h {
	case HorizonAnnual:
		return HorizonMonthly, true
	case HorizonMonthly:
		return HorizonWeekly, true
	case HorizonWeekly:
		return HorizonDaily, true
	}
	return "", false
}

// Categories is the recommended (not enforced) set of goal categories.
var Categories = []string{"Career", "Health", "Finance", "Personal", "Relationships", "Learning"}

// DefaultCategory is used when a goal carries no category.
const DefaultCategory = "Other"

// SmartCriteria is the Specific/Measurable/Achievable/Relevant/Time-bound refinement of a goal.
type SmartCriteria struct {
	Specific   string `json:"specific" yaml:"specific"`
	Measurable string `json:"measurable" yaml:"measurable"`
	Achievable string `json:"achievable" yaml:"achievable"`
	Relevant   string `json:"relevant" yaml:"relevant"`
	TimeBound  string `json:"timeBound" yaml:"time_bound"`
}

// Review is a timestamped progress note attached to a goal.
type Review struct {
	ID   string    `json:"id" yaml:"id"`
	Date time.Time `json:"date" yaml:"date"`
	Note string    `json:"note" yaml:"note"`
}

// Goal is the sole persisted entity.
type Goal struct {
	ID            string         `json:"id" yaml:"id"`
	Title         string         `json:"title" yaml:"title"`
	Description   string         `json:"description" yaml:"-"`
	Horizon       Horizon        `json:"horizon" yaml:"horizon"`
	Status        GoalStatus     `json:"status" yaml:"status"`
	Progress      int            `json:"progress" yaml:"progress"`
	Category      string         `json:"category,omitempty" yaml:"category,omitempty"`
	DueDate       time.Time      `json:"dueDate" yaml:"due_date"`
	ParentID      string         `json:"parentId,omitempty" yaml:"parent_id,omitempty"`
	SmartCriteria *SmartCriteria `json:"smartCriteria,omitempty" yaml:"smart,omitempty"`
	Reviews       []Review       `json:"reviews,omitempty" yaml:"-"`
}

// IsComplete returns true if the goal is marked completed.
func (g Goal) IsComplete() bool {
	return g.Status == StatusCompleted
}

// IsInProgress returns true if the goal is in progress.
func (g Goal) IsInProgress() bool {
	return g.Status == StatusInProgress
}

// WithStatus returns a copy of g moved to status. Completing a goal forces
// its progress to 100.
func (g Goal) WithStatus(status GoalStatus) Goal {
	g.Status = status
	if status == StatusCompleted {
		g.Progress = 100
	}
	return g
}

// NextStatus cycles not_started → in_progress → completed → not_started.
// Cancelled goals restart at not_started.
func (g Goal) NextStatus() GoalStatus {
	switch g.Status {
	case StatusNotStarted:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	default:
		return StatusNotStarted
	}
}

// CategoryOrDefault returns the goal's category or "Other" when unset.
func (g Goal) CategoryOrDefault() string {
	if g.Category == "" {
		return DefaultCategory
	}
	return g.Category
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func cloneGoal(g Goal) Goal {
	if g.SmartCriteria != nil {
		sc := *g.SmartCriteria
		g.SmartCriteria = &sc
	}
	if g.Reviews != nil {
		g.Reviews = append([]Review(nil), g.Reviews...)
	}
	return g
}
