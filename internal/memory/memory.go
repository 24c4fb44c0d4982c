package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"linko/internal/fileutil"
	"linko/internal/logging"
)

const (
	defaultMaxActions = 50
	recallWindow      = 20
	suggestThreshold  = 0.3
	maxSuggestions    = 3
)

// repeatPhrases mark prompts that refer back to earlier work.
var repeatPhrases = []string{
	"mach das gleiche",
	"das gleiche für",
	"ähnlich wie",
	"wie bei",
	"do the same",
	"same as",
	"similar to",
	"like before",
}

// RecentAction is one remembered prompt with what it did to the wiki.
type RecentAction struct {
	Prompt     string    `json:"prompt"`
	ActionType string    `json:"action_type"`
	Path       string    `json:"path"`
	Time       time.Time `json:"time"`
}

// Suggestion pairs a remembered action with its similarity to the current
// prompt.
type Suggestion struct {
	Action RecentAction `json:"action"`
	Score  float64      `json:"score"`
}

// Pattern counts how often a kind of action hit a wiki area.
type Pattern struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// state is the on-disk shape of the memory file.
type state struct {
	RecentActions   []RecentAction    `json:"recent_actions"`
	UserPreferences map[string]string `json:"user_preferences"`
	CommonPatterns  map[string]int    `json:"common_patterns"`
}

// Memory keeps lightweight context across sessions: recent actions, learned
// preferences and usage patterns. All persistence is best-effort; a broken
// memory file resets to empty rather than blocking the session.
type Memory struct {
	path       string
	enabled    bool
	maxActions int
	st         state
}

// Open loads memory from the given file. A missing or corrupt file yields
// empty memory. maxActions bounds remembered actions; non-positive values
// take the default.
func Open(path string, enabled bool, maxActions int) *Memory {
	if maxActions <= 0 {
		maxActions = defaultMaxActions
	}
	m := &Memory{path: path, enabled: enabled, maxActions: maxActions}
	m.st = state{
		UserPreferences: make(map[string]string),
		CommonPatterns:  make(map[string]int),
	}
	if !enabled {
		return m
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Warn("failed to read memory file, starting fresh", "path", path, "error", err)
		}
		return m
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		logging.Warn("memory file is corrupt, starting fresh", "path", path, "error", err)
		return m
	}
	if st.UserPreferences == nil {
		st.UserPreferences = make(map[string]string)
	}
	if st.CommonPatterns == nil {
		st.CommonPatterns = make(map[string]int)
	}
	m.st = st
	return m
}

// RememberAction records a prompt and the action it produced, bumps the
// matching pattern counter and persists. Save failures are logged, never
// returned.
func (m *Memory) RememberAction(prompt, actionType, path string) {
	if !m.enabled {
		return
	}

	m.st.RecentActions = append(m.st.RecentActions, RecentAction{
		Prompt:     prompt,
		ActionType: actionType,
		Path:       path,
		Time:       time.Now(),
	})
	if len(m.st.RecentActions) > m.maxActions {
		m.st.RecentActions = m.st.RecentActions[len(m.st.RecentActions)-m.maxActions:]
	}

	key := patternKey(actionType, path)
	if key != "" {
		m.st.CommonPatterns[key]++
	}

	m.save()
}

// SuggestSimilar scores the prompt against the most recent remembered
// actions and returns the closest matches above the threshold, best first.
func (m *Memory) SuggestSimilar(prompt string) []Suggestion {
	if !m.enabled || prompt == "" {
		return nil
	}

	recent := m.st.RecentActions
	if len(recent) > recallWindow {
		recent = recent[len(recent)-recallWindow:]
	}

	var out []Suggestion
	for _, ra := range recent {
		score := similarity(prompt, ra.Prompt)
		if score > suggestThreshold {
			out = append(out, Suggestion{Action: ra, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// DetectRepeatedPattern reports whether the prompt refers back to earlier
// work ("do the same", "ähnlich wie").
func DetectRepeatedPattern(prompt string) bool {
	lower := strings.ToLower(prompt)
	for _, p := range repeatPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// CommonPatterns returns the most frequent patterns, highest count first.
func (m *Memory) CommonPatterns(limit int) []Pattern {
	out := make([]Pattern, 0, len(m.st.CommonPatterns))
	for k, c := range m.st.CommonPatterns {
		out = append(out, Pattern{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// LearnPreference stores a user preference and persists.
func (m *Memory) LearnPreference(key, value string) {
	if !m.enabled {
		return
	}
	m.st.UserPreferences[key] = value
	m.save()
}

// Preference returns a learned preference, or "" when unknown.
func (m *Memory) Preference(key string) string {
	return m.st.UserPreferences[key]
}

// RecentActions returns up to limit remembered actions, newest last.
func (m *Memory) RecentActions(limit int) []RecentAction {
	actions := m.st.RecentActions
	if limit > 0 && len(actions) > limit {
		actions = actions[len(actions)-limit:]
	}
	out := make([]RecentAction, len(actions))
	copy(out, actions)
	return out
}

// patternKey groups actions by type and the top-level wiki area they touch.
func patternKey(actionType, path string) string {
	if actionType == "" || path == "" {
		return ""
	}
	first := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)[0]
	return fmt.Sprintf("%s:%s", actionType, first)
}

func (m *Memory) save() {
	data, err := json.MarshalIndent(m.st, "", "  ")
	if err != nil {
		logging.Warn("failed to encode memory", "error", err)
		return
	}
	if err := fileutil.AtomicWrite(m.path, data, 0o600); err != nil {
		logging.Warn("failed to write memory file", "path", m.path, "error", err)
	}
}
