package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"linko/internal/wiki"
)

func newChatCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive assistant loop",
		Long: `Chat starts an interactive loop against the running session.
Prompts are routed per task unless a provider has been pinned with /model
or model set; proposed actions stay pending until applied.

Commands inside the loop:
  /apply    apply pending actions
  /reject   discard pending actions
  /model X  switch and pin the active provider
  /status   show the session
  /quit     leave the loop`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := e.requireSession(); err != nil {
				return err
			}

			if e.cfg.Wiki.WatchFiles {
				watcher, err := wiki.NewWatcher(e.wiki, true)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: file watching disabled: %v\n", err)
				} else if err := watcher.Start(); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: file watching disabled: %v\n", err)
				} else {
					defer watcher.Stop()
				}
			}

			reader := bufio.NewReader(os.Stdin)
			for {
				fmt.Print("> ")
				line, err := reader.ReadString('\n')
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}

				if strings.HasPrefix(line, "/") {
					done, err := e.chatCommand(cmd, line)
					if err != nil {
						fmt.Printf("%s\n", errStyle.Render(err.Error()))
					}
					if done {
						return nil
					}
					continue
				}

				if err := e.chatTurn(cmd, line); err != nil {
					fmt.Printf("%s\n", errStyle.Render(err.Error()))
				}
			}
		},
	}
}

// chatCommand handles slash commands. Returns true when the loop should end.
func (e *env) chatCommand(cmd *cobra.Command, line string) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true, nil
	case "/apply":
		return false, newApplyCmd(e).RunE(cmd, nil)
	case "/reject":
		return false, newRejectCmd(e).RunE(cmd, nil)
	case "/status":
		rec, err := e.store.Load()
		if err != nil {
			return false, err
		}
		if rec == nil {
			fmt.Println("no session is running")
			return false, nil
		}
		printSessionStatus(rec)
		return false, nil
	case "/model":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: /model <provider-id>")
		}
		if err := e.store.SetActiveProvider(e.registry, fields[1]); err != nil {
			return false, err
		}
		fmt.Printf("active provider is now %s\n", fields[1])
		return false, nil
	}
	return false, fmt.Errorf("unknown command %s", fields[0])
}

// chatTurn runs one prompt through the same flow as the ask command.
func (e *env) chatTurn(cmd *cobra.Command, prompt string) error {
	rec, err := e.requireSession()
	if err != nil {
		return err
	}

	printMemoryHints(e, prompt)
	full := buildPrompt(cmd.Context(), e, rec.Files, prompt)

	a, err := agentFor(cmd.Context(), e, rec, prompt, false)
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
	}

	if len(res.Actions) > 0 {
		if err := e.store.SetPendingActions(res.Actions); err != nil {
			return err
		}
		printActionList(res.Actions)
		fmt.Println(dimStyle.Render("apply with /apply, discard with /reject"))
	}
	return nil
}
