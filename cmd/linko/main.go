package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"linko/internal/config"
	"linko/internal/logging"
	"linko/internal/memory"
	"linko/internal/provider"
	"linko/internal/session"
	"linko/internal/wiki"
)

var version = "0.1.0"

// env bundles everything the commands share. It is built once in the root
// PersistentPreRunE after config loading.
type env struct {
	cfg       *config.Config
	configDir string
	registry  *provider.Registry
	store     *session.Store
	memory    *memory.Memory
	wiki      *wiki.Wiki
}

func main() {
	e := &env{}

	rootCmd := &cobra.Command{
		Use:   "linko",
		Short: "AI assistant for a markdown wiki",
		Long: `Linko is a terminal assistant for a markdown knowledge base.
It routes prompts to the right model, proposes file changes as reviewable
actions and remembers how you work across sessions.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Close()
		},
	}

	rootCmd.AddCommand(
		newSessionCmd(e),
		newProvidersCmd(e),
		newModelCmd(e),
		newAskCmd(e),
		newChatCmd(e),
		newAttachCmd(e),
		newApplyCmd(e),
		newRejectCmd(e),
		newSearchCmd(e),
		newListCmd(e),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("linko version %s\n", version)
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func (e *env) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	e.cfg = cfg

	configDir, err := config.ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to resolve config directory: %w", err)
	}
	e.configDir = configDir

	if err := logging.EnableFileLogging(configDir, logging.ParseLevel(cfg.Logging.Level)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
	}

	reg, err := provider.LoadFiles(configDir)
	if err != nil {
		return fmt.Errorf("failed to load provider catalog: %w", err)
	}
	e.registry = reg

	e.store = session.NewStore(cfg.Session.File)
	e.memory = memory.Open(cfg.Memory.File, cfg.Memory.Enabled, cfg.Memory.MaxEntries)
	e.wiki = wiki.New(cfg.Wiki.Root, cfg.Wiki.MaxFileSize, cfg.Wiki.ListLimit)
	return nil
}

// requireSession loads the running session or fails with a hint.
func (e *env) requireSession() (*session.Record, error) {
	rec, err := e.store.Load()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("no session is running, start one with: linko session start")
	}
	return rec, nil
}
