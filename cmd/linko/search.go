package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the wiki for a text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := e.wiki.Search(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				fmt.Println("no matches")
				return nil
			}
			for _, m := range matches {
				fmt.Printf("%s:%d: %s\n", m.Path, m.Line, m.Text)
			}
			return nil
		},
	}
}

func newListCmd(e *env) *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List wiki files",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := e.wiki.ListFiles(pattern)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Println(f)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "glob pattern (default all markdown files)")
	return cmd
}
