package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan <vision...>",
	Short: "Generate a year-to-day plan from a vision",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		category, _ := cmd.Flags().GetString("category")
		goals, err := a.planner.StrategicPlan(cmd.Context(), strings.Join(args, " "), category)
		if err != nil {
			return err
		}
		added, err := a.store.AddAll(goals)
		if err != nil {
			return err
		}
		if a.cfg.JSON {
			return outputJSON(added)
		}
		fmt.Fprintf(stdout, "%s Created %d goals\n", green("✓"), len(added))
		printTree(a.store, added)
		return nil
	},
}

var breakdownCmd = &cobra.Command{
	Use:   "breakdown <id>",
	Short: "Split a goal into sub-goals one horizon finer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		parent, err := a.store.Resolve(args[0])
		if err != nil {
			return err
		}
		goals, err := a.planner.Breakdown(cmd.Context(), parent)
		if err != nil {
			return err
		}
		if len(goals) == 0 {
			if a.cfg.JSON {
				return outputJSON(goals)
			}
			fmt.Fprintf(stdout, "%s is a daily goal; nothing to break down\n", parent.Title)
			return nil
		}
		added, err := a.store.AddAll(goals)
		if err != nil {
			return err
		}
		if a.cfg.JSON {
			return outputJSON(added)
		}
		fmt.Fprintf(stdout, "%s Added %d %s sub-goals to %s\n", green("✓"), len(added), added[0].Horizon, parent.Title)
		for _, g := range added {
			printGoal(g, 1)
		}
		return nil
	},
}

var adviceCmd = &cobra.Command{
	Use:   "advice",
	Short: "Ask the coach about your in-progress goals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		text, err := a.planner.Advice(cmd.Context(), a.store.All())
		if err != nil {
			return err
		}
		if a.cfg.JSON {
			return outputJSON(map[string]string{"advice": text})
		}
		fmt.Fprintln(stdout, bold("Coach: ")+text)
		return nil
	},
}

func init() {
	planCmd.Flags().String("category", "Personal", "category for every generated goal")
}
