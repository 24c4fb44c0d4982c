package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProvidersCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List configured model providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			active := ""
			if rec, err := e.store.Load(); err == nil && rec != nil {
				active = rec.ActiveProviderID
			}

			for _, p := range e.registry.List() {
				marker := " "
				if p.ID == active {
					marker = "*"
				} else if p.ID == e.registry.DefaultID() {
					marker = "d"
				}
				kind := "text"
				if p.Reasoning {
					kind = "reasoning"
				}
				cred := "key ok"
				if _, err := e.registry.Credential(p.ID); err != nil {
					cred = "no key"
				}
				fmt.Printf("%s %-26s %-10s %-24s %-7s %s\n", marker, p.ID, kind, p.Model, cred, p.Description)
			}
			return nil
		},
	}
}

func newModelCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage the session's active model",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <provider-id>",
		Short: "Switch the session to another provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := e.requireSession(); err != nil {
				return err
			}
			if err := e.store.SetActiveProvider(e.registry, args[0]); err != nil {
				return err
			}
			fmt.Printf("active provider is now %s\n", args[0])
			return nil
		},
	})

	return cmd
}
