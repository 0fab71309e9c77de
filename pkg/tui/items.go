package tui

import (
	"time"

	"github.com/stefanpenner/stratlife/pkg/store"
)

// ListItem is one row of the planner list.
type ListItem struct {
	Goal        store.Goal
	ParentTitle string
	Children    int
}

// goalSource is the read side of the store the list needs.
type goalSource interface {
	ByHorizon(h store.Horizon) []store.Goal
	ByParent(parentID string) []store.Goal
	Parent(g store.Goal) (store.Goal, bool)
}

// BuildItems lists the goals of one horizon in collection order, annotated
// with their parent's title and child count.
func BuildItems(src goalSource, h store.Horizon) []ListItem {
	goals := src.ByHorizon(h)
	items := make([]ListItem, 0, len(goals))
	for _, g := range goals {
		item := ListItem{Goal: g, Children: len(src.ByParent(g.ID))}
		if p, ok := src.Parent(g); ok {
			item.ParentTitle = p.Title
		}
		items = append(items, item)
	}
	return items
}

// plannerTitle is the heading shown above each horizon's list.
func plannerTitle(h store.Horizon) string {
	switch h {
	case store.HorizonAnnual:
		return "Annual Vision Board"
	case store.HorizonMonthly:
		return "Monthly Roadmap"
	case store.HorizonWeekly:
		return "Weekly Sprints"
	default:
		return "Daily Action Plan"
	}
}

// defaultDue is the due date for a goal added by hand on horizon h.
func defaultDue(h store.Horizon, now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch h {
	case store.HorizonAnnual:
		return day.AddDate(1, 0, 0)
	case store.HorizonMonthly:
		return day.AddDate(0, 1, 0)
	case store.HorizonWeekly:
		return day.AddDate(0, 0, 7)
	default:
		return day
	}
}

// shiftHorizon steps through store.Horizons, wrapping at both ends.
func shiftHorizon(h store.Horizon, delta int) store.Horizon {
	n := len(store.Horizons)
	for i, x := range store.Horizons {
		if x == h {
			return store.Horizons[((i+delta)%n+n)%n]
		}
	}
	return store.Horizons[0]
}
