package action

import (
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Preview renders a line diff between the current file content and the
// action's proposed content. Deletes preview as full removal; new files
// diff against empty.
func (e *Engine) Preview(a Action) (string, error) {
	if err := e.validator.Validate(a); err != nil {
		return "", err
	}

	var current string
	if data, err := os.ReadFile(e.validator.resolve(a.Path)); err == nil {
		current = string(data)
	}

	proposed := a.Content
	if a.Type == TypeDelete {
		proposed = ""
	}
	if current == proposed {
		return "", nil
	}

	dmp := diffmatchpatch.New()
	chars1, chars2, lines := dmp.DiffLinesToChars(current, proposed)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lines)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", a.Type, a.Path)
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}
