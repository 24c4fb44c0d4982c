package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"linko/internal/action"
)

var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	optionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// renderMarkdown renders assistant messages for the terminal, falling back
// to plain text if glamour cannot initialize.
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// printActionList shows the proposed batch. Deletes get a warning color.
func printActionList(actions []action.Action) {
	fmt.Println("proposed actions:")
	for i, a := range actions {
		line := fmt.Sprintf("  %d. %s", i+1, a.String())
		if a.Type == action.TypeDelete {
			line = warnStyle.Render(line)
		}
		fmt.Println(line)
	}
}

// confirmActions is the interactive gate before execution.
func confirmActions(actions []action.Action) (bool, error) {
	printActionList(actions)
	fmt.Print("apply these actions? [y/N] ")

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
