package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"linko/internal/agent"
	"linko/internal/git"
	"linko/internal/memory"
	"linko/internal/session"
	"linko/internal/wiki"
)

func newAskCmd(e *env) *cobra.Command {
	var noRoute bool

	cmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Ask the assistant to work on the wiki",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := e.requireSession()
			if err != nil {
				return err
			}
			prompt := strings.Join(args, " ")

			printMemoryHints(e, prompt)

			full := buildPrompt(cmd.Context(), e, rec.Files, prompt)

			a, err := agentFor(cmd.Context(), e, rec, prompt, noRoute)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", dimStyle.Render("using "+a.ProviderID()))

			res, err := a.Run(cmd.Context(), full)
			if err != nil {
				return err
			}

			if err := e.store.AddHistory("user", prompt); err != nil {
				return err
			}
			if err := e.store.AddHistory("assistant", res.Message); err != nil {
				return err
			}

			fmt.Println(renderMarkdown(res.Message))

			for _, opt := range res.Options {
				fmt.Printf("  %s %s\n", optionStyle.Render("•"), opt.Label)
				if opt.Description != "" {
					fmt.Printf("    %s\n", dimStyle.Render(opt.Description))
				}
			}

			if len(res.Actions) > 0 {
				if err := e.store.SetPendingActions(res.Actions); err != nil {
					return err
				}
				printActionList(res.Actions)
				fmt.Println(dimStyle.Render("review with: linko apply  |  discard with: linko reject"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noRoute, "no-route", false, "use the session's active provider instead of task routing")
	return cmd
}

// agentFor picks the provider for one prompt. Routing runs on the user's
// prompt text, never on the assembled context block, so attachment content
// cannot steer it. A pinned provider (set via model set or /model) wins.
func agentFor(ctx context.Context, e *env, rec *session.Record, prompt string, noRoute bool) (*agent.Agent, error) {
	if noRoute || rec.ProviderPinned {
		return agent.CreateForSession(ctx, e.registry, rec, nil)
	}
	a, _, err := agent.CreateForTask(ctx, e.registry, prompt)
	return a, err
}

// buildPrompt assembles attached files, git context and the task.
func buildPrompt(ctx context.Context, e *env, files map[string]string, prompt string) string {
	block := wiki.ContextBlock(files, prompt)

	if e.cfg.Git.Enabled {
		gc := git.NewProvider(e.cfg.Wiki.Root, e.cfg.Git.MaxCommits, e.cfg.Git.Timeout).Get(ctx)
		if summary := gc.Summary(); summary != "" {
			block = "WIKI GIT STATE:\n" + summary + "\n\n" + block
		}
	}
	return block
}

// printMemoryHints surfaces similar past work before the model runs.
func printMemoryHints(e *env, prompt string) {
	if memory.DetectRepeatedPattern(prompt) {
		if recent := e.memory.RecentActions(1); len(recent) > 0 {
			fmt.Printf("%s\n", dimStyle.Render(
				fmt.Sprintf("previous action: %s (%s %s)", recent[0].Prompt, recent[0].ActionType, recent[0].Path)))
		}
	}
	for _, s := range e.memory.SuggestSimilar(prompt) {
		fmt.Printf("%s\n", dimStyle.Render(
			fmt.Sprintf("similar before: %q touched %s", s.Action.Prompt, s.Action.Path)))
	}
}
