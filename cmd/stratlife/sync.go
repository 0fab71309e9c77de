package main

import (
	"github.com/spf13/cobra"
	gsync "github.com/stefanpenner/stratlife/pkg/sync"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Put the data directory under git and optionally set a remote",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		remote, _ := cmd.Flags().GetString("remote")
		repo := gsync.NewRepo(a.cfg.DataDir)
		repo.Out = stdout
		return repo.Init(cmd.Context(), remote)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Commit, pull and push the data directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		repo := gsync.NewRepo(a.cfg.DataDir)
		repo.Out = stdout
		if err := repo.Sync(cmd.Context()); err != nil {
			a.logger.Warn("git sync failed", "err", err)
			return err
		}
		return nil
	},
}

func init() {
	initCmd.Flags().String("remote", "", "git remote URL for origin")
}
