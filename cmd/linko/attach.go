package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAttachCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "attach <file>...",
		Short: "Attach files to the session context",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := e.requireSession(); err != nil {
				return err
			}
			for _, path := range args {
				if err := e.store.AttachFile(path, e.cfg.Wiki.MaxFileSize); err != nil {
					return err
				}
				fmt.Printf("attached %s\n", path)
			}
			return nil
		},
	}
}
