package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	gsync "github.com/stefanpenner/stratlife/pkg/sync"
	"github.com/stefanpenner/stratlife/pkg/store"
	"github.com/stefanpenner/stratlife/pkg/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	opts := tui.Options{
		Store:   a.store,
		Planner: a.planner,
		Logger:  a.logger,
	}
	if repo := gsync.NewRepo(a.cfg.DataDir); repo.IsRepo() {
		opts.Repo = repo
	}

	p := tea.NewProgram(tui.NewModel(opts), tea.WithAltScreen())

	cleanup, err := tui.StartWatcher(a.blob.Path(store.SlotName), p.Send)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file watcher failed: %v\n", err)
	} else {
		defer cleanup()
	}

	_, err = p.Run()
	return err
}
