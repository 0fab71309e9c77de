package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"github.com/stefanpenner/stratlife/pkg/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals as a tree, or one horizon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		horizon, _ := cmd.Flags().GetString("horizon")
		goals := a.store.All()
		if horizon != "" {
			h := store.Horizon(horizon)
			if !h.Valid() {
				return fmt.Errorf("invalid horizon %q (use annual, monthly, weekly or daily)", horizon)
			}
			goals = a.store.ByHorizon(h)
		}

		if a.cfg.JSON {
			return outputJSON(goals)
		}
		if horizon != "" {
			for _, g := range goals {
				printGoal(g, 0)
			}
			return nil
		}
		printTree(a.store, goals)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one goal with its SMART criteria and reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		g, err := a.store.Resolve(args[0])
		if err != nil {
			return err
		}
		if a.cfg.JSON {
			return outputJSON(g)
		}
		out, err := glamour.Render(store.RenderMarkdown(g), "auto")
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, out)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <title...>",
	Short: "Add a goal, optionally refined into SMART form by Gemini",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		title := strings.Join(args, " ")
		horizon, _ := cmd.Flags().GetString("horizon")
		category, _ := cmd.Flags().GetString("category")
		due, _ := cmd.Flags().GetString("due")
		parent, _ := cmd.Flags().GetString("parent")
		smart, _ := cmd.Flags().GetBool("smart")

		h := store.Horizon(horizon)
		if !h.Valid() {
			return fmt.Errorf("invalid horizon %q", horizon)
		}
		if parent != "" {
			p, err := a.store.Resolve(parent)
			if err != nil {
				return err
			}
			parent = p.ID
		}

		var g store.Goal
		if smart {
			g, err = a.planner.RefineToSmart(cmd.Context(), title, h, category, parent)
			if err != nil {
				return err
			}
		} else {
			g = store.Goal{
				Title:    title,
				Horizon:  h,
				Category: category,
				ParentID: parent,
				Status:   store.StatusNotStarted,
				DueDate:  a.store.Now(),
			}
		}
		if due != "" {
			d, err := time.ParseInLocation("2006-01-02", due, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --due %q: %w", due, err)
			}
			g.DueDate = d
		}

		added, err := a.store.Add(g)
		if err != nil {
			return err
		}
		if a.cfg.JSON {
			return outputJSON(added)
		}
		fmt.Fprintf(stdout, "Created: %s %s\n", gray(shortID(added.ID)), added.Title)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <id> [not_started|in_progress|completed|cancelled]",
	Short: "Set a goal's status, or cycle it when no status is given",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		g, err := a.store.Resolve(args[0])
		if err != nil {
			return err
		}
		if len(args) == 2 {
			g, err = a.store.SetStatus(g.ID, store.GoalStatus(args[1]))
		} else {
			g, err = a.store.ToggleStatus(g.ID)
		}
		if err != nil {
			return err
		}
		if a.cfg.JSON {
			return outputJSON(g)
		}
		fmt.Fprintf(stdout, "%s → %s\n", g.Title, statusMark(g.Status)+" "+string(g.Status))
		return nil
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress <id> <0-100>",
	Short: "Set a goal's progress percentage",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		pct, err := strconv.Atoi(strings.TrimSuffix(args[1], "%"))
		if err != nil {
			return fmt.Errorf("invalid progress %q: %w", args[1], err)
		}
		g, err := a.store.Resolve(args[0])
		if err != nil {
			return err
		}
		g, err = a.store.SetProgress(g.ID, pct)
		if err != nil {
			return err
		}
		if a.cfg.JSON {
			return outputJSON(g)
		}
		fmt.Fprintf(stdout, "%s → %d%%\n", g.Title, g.Progress)
		return nil
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review <id> <note...>",
	Short: "Add a dated review note to a goal",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		g, err := a.store.Resolve(args[0])
		if err != nil {
			return err
		}
		g, err = a.store.AddReview(g.ID, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		if a.cfg.JSON {
			return outputJSON(g)
		}
		fmt.Fprintf(stdout, "Review added to %s\n", g.Title)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a goal (sub-goals are kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		g, err := a.store.Resolve(args[0])
		if err != nil {
			return err
		}
		if err := a.store.Delete(g.ID); err != nil {
			return err
		}
		if a.cfg.JSON {
			return outputJSON(map[string]string{"deleted": g.ID})
		}
		fmt.Fprintf(stdout, "Deleted: %s\n", g.Title)
		return nil
	},
}

func init() {
	listCmd.Flags().String("horizon", "", "only list one horizon")

	addCmd.Flags().String("horizon", string(store.HorizonAnnual), "annual, monthly, weekly or daily")
	addCmd.Flags().String("category", "Personal", "goal category")
	addCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().String("parent", "", "parent goal id or prefix")
	addCmd.Flags().Bool("smart", false, "refine into a SMART goal with Gemini")
}
