package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"linko/internal/session"
)

func newSessionCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the wiki session",
	}
	cmd.AddCommand(newSessionStartCmd(e), newSessionEndCmd(e), newSessionStatusCmd(e))
	return cmd
}

func newSessionStartCmd(e *env) *cobra.Command {
	var (
		write      bool
		providerID string
		autoExec   bool
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new session",
		RunE: func(cmd *cobra.Command, args []string) error {
			id := providerID
			if id == "" {
				id = e.cfg.Session.DefaultProvider
			}
			if id == "" {
				id = e.registry.DefaultID()
			}
			if _, err := e.registry.Get(id); err != nil {
				return err
			}

			rec, err := e.store.Start(write, id)
			if err != nil {
				if errors.Is(err, session.ErrAlreadyRunning) {
					return fmt.Errorf("a session is already running, end it with: linko session end")
				}
				return err
			}
			if autoExec || e.cfg.Approval.AutoExecute {
				if err := e.store.SetAutoExecute(true); err != nil {
					return err
				}
				rec.AutoExecute = true
			}

			printSessionHeader(rec)
			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "allow the session to modify the wiki")
	cmd.Flags().StringVar(&providerID, "provider", "", "provider to start with (default from config or catalog)")
	cmd.Flags().BoolVar(&autoExec, "auto", false, "apply non-destructive actions without confirmation")
	return cmd
}

func newSessionEndCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the running session",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := e.store.End()
			if err != nil {
				return err
			}
			if rec == nil {
				fmt.Println("no session was running")
				return nil
			}
			printSessionSummary(rec)
			return nil
		},
	}
}

func newSessionStatusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running session",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := e.store.Load()
			if err != nil {
				return err
			}
			if rec == nil {
				fmt.Println("no session is running")
				return nil
			}
			printSessionStatus(rec)
			return nil
		},
	}
}

func printSessionHeader(rec *session.Record) {
	mode := "read-only"
	if rec.Write {
		mode = "write"
	}
	fmt.Printf("session %s started (%s, provider %s)\n", rec.ID, mode, rec.ActiveProviderID)
}

func printSessionStatus(rec *session.Record) {
	printSessionHeader(rec)
	fmt.Printf("  exchanges: %d\n", len(rec.History))
	fmt.Printf("  attached files: %d\n", len(rec.Files))
	fmt.Printf("  pending actions: %d\n", len(rec.PendingActions))
	fmt.Printf("  applied changes: %d\n", len(rec.Changes))
	if rec.AutoExecute {
		fmt.Println("  auto-execute: on")
	}
}

func printSessionSummary(rec *session.Record) {
	fmt.Printf("session %s ended\n", rec.ID)
	if len(rec.Changes) == 0 {
		fmt.Println("no changes were applied")
		return
	}
	fmt.Printf("%d change(s):\n", len(rec.Changes))
	for _, c := range rec.Changes {
		fmt.Printf("  %-6s %s\n", c.Type, c.Path)
	}
}
