package provider

// Config describes a single configured model provider.
type Config struct {
	ID              string         `json:"id"`
	Provider        string         `json:"provider"` // backend family: openai, anthropic, gemini, ollama
	Model           string         `json:"model"`
	APIBase         string         `json:"api_base,omitempty"`
	Reasoning       bool           `json:"reasoning"`
	EnvKey          string         `json:"env_key"`
	DefaultSettings map[string]any `json:"default_settings"`
	Description     string         `json:"description,omitempty"`
}

// reasoningEfforts are the accepted values for the reasoning_effort setting.
var reasoningEfforts = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
}

// checkSettings enforces the reasoning/sampling mutual-exclusion rule against an
// arbitrary settings map. Reasoning models take reasoning_effort only; sampling
// models take temperature/top_p and never reasoning_effort.
func checkSettings(providerID string, reasoning bool, settings map[string]any) error {
	_, hasEffort := settings["reasoning_effort"]
	_, hasTemperature := settings["temperature"]
	_, hasTopP := settings["top_p"]

	if reasoning {
		if !hasEffort {
			return &SettingsError{
				ProviderID: providerID,
				Reason:     "reasoning model requires the reasoning_effort setting",
			}
		}
		var forbidden []string
		if hasTemperature {
			forbidden = append(forbidden, "temperature")
		}
		if hasTopP {
			forbidden = append(forbidden, "top_p")
		}
		if len(forbidden) > 0 {
			return &SettingsError{
				ProviderID: providerID,
				Keys:       forbidden,
				Reason:     "reasoning model only accepts reasoning_effort",
			}
		}
		effort, _ := settings["reasoning_effort"].(string)
		if !reasoningEfforts[effort] {
			return &SettingsError{
				ProviderID: providerID,
				Keys:       []string{"reasoning_effort"},
				Reason:     "reasoning_effort must be low, medium or high",
			}
		}
		return nil
	}

	if hasEffort {
		return &SettingsError{
			ProviderID: providerID,
			Keys:       []string{"reasoning_effort"},
			Reason:     "non-reasoning model cannot use reasoning_effort, use temperature instead",
		}
	}
	if !hasTemperature && !hasTopP {
		return &SettingsError{
			ProviderID: providerID,
			Reason:     "non-reasoning model requires temperature and/or top_p",
		}
	}
	return nil
}
