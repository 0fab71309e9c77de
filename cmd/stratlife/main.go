package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stefanpenner/stratlife/pkg/ai"
	"github.com/stefanpenner/stratlife/pkg/config"
	"github.com/stefanpenner/stratlife/pkg/logging"
	"github.com/stefanpenner/stratlife/pkg/plan"
	"github.com/stefanpenner/stratlife/pkg/store"
)

var rootCmd = &cobra.Command{
	Use:   "stratlife",
	Short: "AI-assisted life goal planner",
	Long: "StratLife breaks a yearly vision into monthly, weekly and daily goals.\n" +
		"Run without arguments to open the planner.",
	SilenceUsage: true,
	RunE:         runTUI,
}

var configErr error

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default <data dir>/config.yaml or ~/.stratlife.yaml)")
	pf.String("dir", "", "data directory")
	pf.Bool("json", false, "output JSON")
	pf.String("model", "", "Gemini model")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("data_dir", pf.Lookup("dir"))
	_ = viper.BindPFlag("json", pf.Lookup("json"))
	_ = viper.BindPFlag("model", pf.Lookup("model"))
	_ = viper.BindPFlag("log_level", pf.Lookup("log-level"))

	rootCmd.AddCommand(
		listCmd, showCmd, addCmd, statusCmd, progressCmd, reviewCmd, deleteCmd,
		planCmd, breakdownCmd, adviceCmd,
		statsCmd, calendarCmd,
		exportCmd, importCmd,
		initCmd, syncCmd,
	)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	configErr = config.Init(cfgFile)
}

// app is everything a command needs, built once per invocation.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	blob    *store.FileBlobStore
	store   *store.Store
	gen     *ai.Client
	planner *plan.Planner
	closers []io.Closer
}

func loadApp() (*app, error) {
	if configErr != nil {
		return nil, configErr
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg}
	logger, closer, err := logging.OpenFile(cfg.LogFile, level)
	if err != nil {
		// Logging is best effort; the planner works without it.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		logger = logging.Discard()
	} else {
		a.closers = append(a.closers, closer)
	}
	a.logger = logger

	a.blob, err = store.NewFileBlobStore(cfg.DataDir)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store, err = store.Open(a.blob, store.WithLogger(logger))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("opening goals: %w", err)
	}

	a.gen = ai.NewClient(ai.Config{APIKey: cfg.APIKey, Model: cfg.Model}, logger)
	a.planner = plan.New(a.gen, plan.WithLogger(logger))
	logger.Debug("app loaded", "data_dir", cfg.DataDir, "goals", a.store.Len(), "ai", a.gen.HasCredential())
	return a, nil
}

// Close releases the log file.
func (a *app) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}
