package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/stefanpenner/stratlife/pkg/store"
)

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Write every goal as a markdown file with YAML frontmatter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := exportGoals(a.store, args[0])
		if err != nil {
			return err
		}
		if a.cfg.JSON {
			return outputJSON(map[string]any{"dir": args[0], "exported": n})
		}
		fmt.Fprintf(stdout, "Exported %d goals to %s\n", n, args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file.md...>",
	Short: "Import goals from markdown files; existing ids are updated",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		added, updated, err := importGoals(a.store, args)
		if err != nil {
			return err
		}
		if a.cfg.JSON {
			return outputJSON(map[string]int{"added": added, "updated": updated})
		}
		fmt.Fprintf(stdout, "Imported %d new, updated %d\n", added, updated)
		return nil
	},
}

func exportGoals(s *store.Store, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating export dir: %w", err)
	}
	goals := s.All()
	for _, g := range goals {
		content, err := store.SerializeFrontmatter(&g)
		if err != nil {
			return 0, fmt.Errorf("exporting %s: %w", g.ID, err)
		}
		path := filepath.Join(dir, g.ID+".md")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return 0, fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return len(goals), nil
}

// importGoals reads each file and adds or updates the goal it holds. Every
// file is validated before anything is stored, and the store applies the
// whole batch in one write.
func importGoals(s *store.Store, paths []string) (added, updated int, err error) {
	goals := make([]store.Goal, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, 0, fmt.Errorf("reading %s: %w", path, err)
		}
		g, err := store.ParseFrontmatter(string(data))
		if err != nil {
			return 0, 0, fmt.Errorf("parsing %s: %w", path, err)
		}
		if g.Title == "" || !g.Horizon.Valid() {
			return 0, 0, fmt.Errorf("%s: goal needs a title and a valid horizon", path)
		}
		if g.Status == "" {
			g.Status = store.StatusNotStarted
		}
		if !g.Status.Valid() {
			return 0, 0, fmt.Errorf("%s: invalid status %q", path, g.Status)
		}
		if g.ID != "" {
			if first, ok := seen[g.ID]; ok {
				return 0, 0, fmt.Errorf("%s and %s both hold goal %s: %w", first, path, g.ID, store.ErrDuplicateID)
			}
			seen[g.ID] = path
			if cur, ok := s.Get(g.ID); ok && cur.Horizon != g.Horizon {
				return 0, 0, fmt.Errorf("%s: goal %s is %s and cannot become %s", path, g.ID, cur.Horizon, g.Horizon)
			}
		}
		goals = append(goals, *g)
	}
	return s.Merge(goals)
}
