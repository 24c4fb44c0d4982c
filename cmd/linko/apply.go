package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"linko/internal/action"
	"linko/internal/audit"
	"linko/internal/session"
)

func newApplyCmd(e *env) *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the pending actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := e.requireSession()
			if err != nil {
				return err
			}
			if len(rec.PendingActions) == 0 {
				return action.ErrNoPending
			}

			validator := action.NewValidator(e.cfg.Wiki.Root, e.cfg.Approval.MaxContentSize)
			engine := action.NewEngine(validator, rec.Write, rec.AutoExecute, confirmActions)

			if showDiff {
				for _, a := range rec.PendingActions {
					diff, err := engine.Preview(a)
					if err != nil {
						return err
					}
					if diff != "" {
						fmt.Println(diff)
					}
				}
			}

			results, err := engine.Apply(rec.PendingActions)
			if err != nil {
				if errors.Is(err, action.ErrDeclined) {
					fmt.Println("actions declined, kept as pending")
					return nil
				}
				return err
			}

			auditLog, auditErr := audit.NewLogger(e.configDir, rec.ID, e.cfg.Audit.Enabled, e.cfg.Audit.MaxEntries)
			if auditErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: audit disabled: %v\n", auditErr)
			}

			for _, r := range results {
				if r.OK {
					fmt.Printf("%s %s\n", okStyle.Render("applied"), r.Action.String())
					if err := e.store.RecordChange(string(r.Action.Type), r.Action.Path); err != nil {
						return err
					}
					e.memory.RememberAction(lastUserPrompt(rec), string(r.Action.Type), r.Action.Path)
					if auditLog != nil {
						auditLog.Log(audit.NewEntry(rec.ID, string(r.Action.Type), r.Action.Path, "apply"))
					}
				} else {
					fmt.Printf("%s %s: %s\n", errStyle.Render("failed"), r.Action.String(), r.Err)
					if auditLog != nil {
						auditLog.Log(audit.NewEntry(rec.ID, string(r.Action.Type), r.Action.Path, "apply").Fail(r.Err))
					}
				}
			}
			if auditLog != nil {
				auditLog.Flush()
			}

			return e.store.ClearPendingActions()
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "show diffs before applying")
	return cmd
}

// lastUserPrompt finds the most recent user message for memory attribution.
func lastUserPrompt(rec *session.Record) string {
	for i := len(rec.History) - 1; i >= 0; i-- {
		if rec.History[i].Role == "user" {
			return rec.History[i].Content
		}
	}
	return ""
}

func newRejectCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "reject",
		Short: "Discard the pending actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := e.requireSession()
			if err != nil {
				return err
			}
			n := len(rec.PendingActions)
			if n == 0 {
				fmt.Println("nothing to reject")
				return nil
			}
			if err := e.store.ClearPendingActions(); err != nil {
				return err
			}
			fmt.Printf("discarded %d pending action(s)\n", n)
			return nil
		},
	}
}
