package memory

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// seqRatio measures character-level similarity as 2*M/T, where M is the
// number of matching characters and T the combined length. 1.0 means
// identical, 0.0 means nothing in common.
func seqRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	total := len(a) + len(b)
	if total == 0 {
		return 0.0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)

	matched := 0
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			matched += len(d.Text)
		}
	}
	return 2.0 * float64(matched) / float64(total)
}

// wordOverlap is the share of the query's distinct words that also appear
// in the remembered prompt.
func wordOverlap(query, remembered string) float64 {
	queryWords := wordSet(query)
	if len(queryWords) == 0 {
		return 0.0
	}
	rememberedWords := wordSet(remembered)

	common := 0
	for w := range queryWords {
		if rememberedWords[w] {
			common++
		}
	}
	return float64(common) / float64(len(queryWords))
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = true
	}
	return set
}

// similarity blends character and word level scores. Character shape
// dominates so rephrased prompts with shared terms still rank.
func similarity(query, remembered string) float64 {
	return 0.6*seqRatio(strings.ToLower(query), strings.ToLower(remembered)) + 0.4*wordOverlap(query, remembered)
}
