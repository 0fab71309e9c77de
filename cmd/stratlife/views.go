package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/stefanpenner/stratlife/pkg/store"
	"github.com/stefanpenner/stratlife/pkg/view"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show completion stats and goals per category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		goals := a.store.All()
		stats := view.ComputeStats(goals)
		categories := view.ByCategory(goals)
		if a.cfg.JSON {
			return outputJSON(struct {
				view.Stats
				Categories []view.CategoryCount `json:"categories"`
			}{stats, categories})
		}

		fmt.Fprintf(stdout, "%s %d\n", bold("Total:      "), stats.Total)
		fmt.Fprintf(stdout, "%s %s\n", bold("Completed:  "), green(stats.Completed))
		fmt.Fprintf(stdout, "%s %s\n", bold("In progress:"), yellow(stats.InProgress))
		fmt.Fprintf(stdout, "%s %d\n", bold("Not started:"), stats.NotStarted)
		fmt.Fprintf(stdout, "%s %d%%\n\n", bold("Completion: "), stats.CompletionRate)
		for _, c := range categories {
			fmt.Fprintf(stdout, "%-14s %s %d\n", c.Category, cyan(strings.Repeat("■", c.Count)), c.Count)
		}
		return nil
	},
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show goals due in a month",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		month := view.MonthOf(time.Now())
		if s, _ := cmd.Flags().GetString("month"); s != "" {
			t, err := time.Parse("2006-01", s)
			if err != nil {
				return fmt.Errorf("invalid --month %q (use YYYY-MM): %w", s, err)
			}
			month = view.MonthOf(t)
		}

		days := view.ByCalendarDay(a.store.All(), month, time.Local)
		if a.cfg.JSON {
			return outputJSON(days)
		}

		printMonthGrid(month, days)
		for d := 1; d <= month.Days(); d++ {
			for _, g := range days[d] {
				fmt.Fprintf(stdout, "%2d ", d)
				printGoal(g, 0)
			}
		}
		return nil
	},
}

func printMonthGrid(m view.Month, days map[int][]store.Goal) {
	fmt.Fprintln(stdout, bold(m.String()))
	fmt.Fprintln(stdout, "Su Mo Tu We Th Fr Sa")
	col := int(m.FirstWeekday())
	fmt.Fprint(stdout, strings.Repeat("   ", col))
	for d := 1; d <= m.Days(); d++ {
		cell := fmt.Sprintf("%2d", d)
		if len(days[d]) > 0 {
			cell = yellow(cell)
		}
		fmt.Fprint(stdout, cell)
		col++
		if col == 7 {
			fmt.Fprintln(stdout)
			col = 0
		} else {
			fmt.Fprint(stdout, " ")
		}
	}
	if col != 0 {
		fmt.Fprintln(stdout)
	}
	fmt.Fprintln(stdout)
}

func init() {
	calendarCmd.Flags().String("month", "", "month to show (YYYY-MM), default current")
}
