package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/stefanpenner/stratlife/pkg/store"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

var stdout io.Writer = os.Stdout

func outputJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func statusMark(s store.GoalStatus) string {
	switch s {
	case store.StatusCompleted:
		return green("✓")
	case store.StatusInProgress:
		return yellow("◐")
	case store.StatusCancelled:
		return red("✗")
	default:
		return "○"
	}
}

// shortID keeps enough of a uuid to be typed back as a prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printGoal(g store.Goal, depth int) {
	indent := strings.Repeat("  ", depth)
	due := ""
	if !g.DueDate.IsZero() {
		due = " " + gray(g.DueDate.Format("2006-01-02"))
	}
	fmt.Fprintf(stdout, "%s%s %s %s %s%s %s\n",
		indent, statusMark(g.Status), gray(shortID(g.ID)), g.Title,
		cyan("["+g.CategoryOrDefault()+"]"), due, gray(fmt.Sprintf("%d%%", g.Progress)))
}

// printTree prints goals with their descendants indented beneath them.
// Goals whose parent no longer exists are printed as roots.
func printTree(s *store.Store, goals []store.Goal) {
	var walk func(g store.Goal, depth int)
	walk = func(g store.Goal, depth int) {
		printGoal(g, depth)
		for _, c := range s.ByParent(g.ID) {
			walk(c, depth+1)
		}
	}
	for _, g := range goals {
		if _, ok := s.Parent(g); ok {
			continue
		}
		walk(g, 0)
	}
}
