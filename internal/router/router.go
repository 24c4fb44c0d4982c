package router

import (
	"strings"

	"linko/internal/logging"
	"linko/internal/provider"
)

// TaskType classifies a user prompt for model routing.
type TaskType string

const (
	TaskTags     TaskType = "tags"
	TaskAbstract TaskType = "abstract"
	TaskMetadata TaskType = "metadata"
	TaskBulk     TaskType = "bulk"
	TaskRewrite  TaskType = "rewrite"
	TaskSummary  TaskType = "summary"
	TaskStruct   TaskType = "structure"
	TaskOutline  TaskType = "outline"
	TaskAnalysis TaskType = "analysis"
	TaskDefault  TaskType = "default"
)

// routes maps each task type to the provider id that handles it.
// Task types without an entry fall through to the registry default.
var routes = map[TaskType]string{
	TaskTags:     "openai-gpt5-nano-text",
	TaskAbstract: "openai-gpt5-nano-text",
	TaskMetadata: "openai-gpt5-nano-text",
	TaskBulk:     "openai-gpt5-mini-text",
	TaskRewrite:  "openai-gpt5-mini-text",
	TaskSummary:  "openai-gpt5-mini-text",
	TaskStruct:   "openai-gpt5-reasoning",
	TaskOutline:  "openai-gpt5-reasoning",
	TaskAnalysis: "openai-gpt5-reasoning",
}

// keywordRule matches a prompt to a task type. Rules are ordered; the first
// rule with a hit wins, so cheaper tiers are listed before pricier ones.
type keywordRule struct {
	task  TaskType
	words []string
}

var rules = []keywordRule{
	{TaskTags, []string{"tag", "tags", "tagging", "schlagwort", "schlagworte", "verschlagworten"}},
	{TaskAbstract, []string{"abstract", "zusammenfassung", "kurzbeschreibung", "kurz beschreiben"}},
	{TaskMetadata, []string{"metadata", "metadaten", "eigenschaft", "eigenschaften", "frontmatter"}},
	{TaskBulk, []string{"bulk", "masse", "viele dateien", "alle dateien", "alle seiten"}},
	{TaskRewrite, []string{"rewrite", "umschreiben", "überarbeiten", "umformulieren"}},
	{TaskSummary, []string{"summarize", "summary", "zusammenfassen", "fasse zusammen"}},
	{TaskStruct, []string{"structure", "struktur", "strukturieren", "organisieren", "organize"}},
	{TaskOutline, []string{"outline", "gliederung", "gliedern", "übersicht"}},
	{TaskAnalysis, []string{"analyze", "analysis", "analyse", "analysiere", "untersuche"}},
}

// DetectTaskType classifies a prompt by keyword. Matching is case-insensitive
// and never fails; prompts with no keyword hit are TaskDefault.
func DetectTaskType(prompt string) TaskType {
	lower := strings.ToLower(prompt)
	for _, rule := range rules {
		for _, w := range rule.words {
			if strings.Contains(lower, w) {
				return rule.task
			}
		}
	}
	return TaskDefault
}

// Route returns the provider config for a task type. Unknown or default task
// types map to the registry default, so routing cannot fail.
func Route(reg *provider.Registry, task TaskType) *provider.Config {
	id, ok := routes[task]
	if !ok {
		return reg.Default()
	}
	p, err := reg.Get(id)
	if err != nil {
		logging.Warn("routed provider missing, using default", "task", string(task), "provider", id)
		return reg.Default()
	}
	return p
}

// RouteAuto classifies the prompt and routes it in one step.
func RouteAuto(reg *provider.Registry, prompt string) (*provider.Config, TaskType) {
	task := DetectTaskType(prompt)
	p := Route(reg, task)
	logging.Debug("routed prompt", "task", string(task), "provider", p.ID)
	return p, task
}
