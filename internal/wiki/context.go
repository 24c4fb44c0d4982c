package wiki

import (
	"fmt"
	"sort"
	"strings"
)

// ContextBlock assembles the prompt sent to the model: attached file
// contents first, in stable name order, then the task. Contents come from
// the session record, captured when the file was attached.
func ContextBlock(files map[string]string, prompt string) string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "=== %s ===\n%s\n\n", name, strings.TrimRight(files[name], "\n"))
	}

	b.WriteString("TASK:\n")
	b.WriteString(prompt)
	return b.String()
}
