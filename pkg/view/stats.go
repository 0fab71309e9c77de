// Package view derives read-only summaries from a goal snapshot. Every
// function here is pure; callers recompute after each store mutation.
package view

import (
	"math"

	"github.com/stefanpenner/stratlife/pkg/store"
)

// Stats is the dashboard summary of a goal collection.
type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	InProgress     int `json:"inProgress"`
	NotStarted     int `json:"notStarted"`
	CompletionRate int `json:"completionRate"`
}

// ComputeStats counts goals by status. CompletionRate is the rounded
// percentage of completed goals, or 0 for an empty collection. NotStarted is
// everything that is neither completed nor in progress, cancelled included.
func ComputeStats(goals []store.Goal) Stats {
	var s Stats
	s.Total = len(goals)
	for _, g := range goals {
		switch g.Status {
		case store.StatusCompleted:
			s.Completed++
		case store.StatusInProgress:
			s.InProgress++
		}
	}
	s.NotStarted = s.Total - s.Completed - s.InProgress
	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}

// CategoryCount is one bar of the per-category chart.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// ByCategory counts goals per category in first-seen order. Goals without a
// category count as "Other".
func ByCategory(goals []store.Goal) []CategoryCount {
	var out []CategoryCount
	index := make(map[string]int)
	for _, g := range goals {
		c := g.CategoryOrDefault()
		i, ok := index[c]
		if !ok {
			i = len(out)
			index[c] = i
			out = append(out, CategoryCount{Category: c})
		}
		out[i].Count++
	}
	return out
}
