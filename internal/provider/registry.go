package provider

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"linko/internal/logging"
)

//go:embed providers.json providers.schema.json
var embedded embed.FS

// catalog is the on-disk shape of the provider catalog document.
type catalog struct {
	DefaultProvider string    `json:"default_provider"`
	Providers       []*Config `json:"providers"`
}

// Registry is the single source of truth for configured providers. It is
// constructed once at startup and immutable afterwards.
type Registry struct {
	providers map[string]*Config
	defaultID string
}

// Load parses and validates a provider catalog against its JSON schema and
// the reasoning/sampling settings invariant.
func Load(catalogData, schemaData []byte) (*Registry, error) {
	if err := validateSchema(catalogData, schemaData); err != nil {
		return nil, &ConfigError{Reason: err.Error()}
	}

	var cat catalog
	if err := json.Unmarshal(catalogData, &cat); err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("failed to parse catalog: %v", err)}
	}

	if len(cat.Providers) == 0 {
		return nil, &ConfigError{Reason: "no providers configured"}
	}

	reg := &Registry{providers: make(map[string]*Config, len(cat.Providers))}
	for _, p := range cat.Providers {
		if _, exists := reg.providers[p.ID]; exists {
			return nil, &ConfigError{Reason: fmt.Sprintf("duplicate provider id %q", p.ID)}
		}
		if err := checkSettings(p.ID, p.Reasoning, p.DefaultSettings); err != nil {
			return nil, &ConfigError{Reason: err.Error()}
		}
		reg.providers[p.ID] = p
	}

	if cat.DefaultProvider == "" {
		return nil, &ConfigError{Reason: "default_provider is not set"}
	}
	if _, ok := reg.providers[cat.DefaultProvider]; !ok {
		return nil, &ConfigError{Reason: fmt.Sprintf("default provider %q not found among providers", cat.DefaultProvider)}
	}
	reg.defaultID = cat.DefaultProvider

	logging.Debug("provider catalog loaded",
		"providers", len(reg.providers),
		"default", reg.defaultID)

	return reg, nil
}

// LoadFiles builds a registry from <configDir>/providers.json when present,
// falling back to the embedded catalog. The schema always ships embedded.
func LoadFiles(configDir string) (*Registry, error) {
	schemaData, err := embedded.ReadFile("providers.schema.json")
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("embedded schema unavailable: %v", err)}
	}

	if configDir != "" {
		userPath := filepath.Join(configDir, "providers.json")
		if data, err := os.ReadFile(userPath); err == nil {
			logging.Debug("using user provider catalog", "path", userPath)
			return Load(data, schemaData)
		}
	}

	catalogData, err := embedded.ReadFile("providers.json")
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("embedded catalog unavailable: %v", err)}
	}
	return Load(catalogData, schemaData)
}

// validateSchema validates the catalog document against the JSON schema.
func validateSchema(catalogData, schemaData []byte) error {
	schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaData))
	if err != nil {
		return fmt.Errorf("failed to parse schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("providers.schema.json", schemaDoc); err != nil {
		return fmt.Errorf("failed to register schema: %w", err)
	}
	schema, err := compiler.Compile("providers.schema.json")
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(catalogData))
	if err != nil {
		return fmt.Errorf("failed to parse catalog: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("catalog violates schema: %w", err)
	}
	return nil
}

// Get returns the provider config for the given id.
func (r *Registry) Get(id string) (*Config, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, &NotFoundError{ID: id, Available: r.ids()}
	}
	return p, nil
}

// Default returns the default provider config.
func (r *Registry) Default() *Config {
	return r.providers[r.defaultID]
}

// DefaultID returns the default provider id.
func (r *Registry) DefaultID() string {
	return r.defaultID
}

// List returns all providers sorted by id.
func (r *Registry) List() []*Config {
	out := make([]*Config, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ValidateSettings re-checks the reasoning/sampling invariant against an
// arbitrary settings map. This is the request-time gate: callers may pass
// custom overrides, so the load-time structural check is not enough.
func (r *Registry) ValidateSettings(id string, settings map[string]any) error {
	p, err := r.Get(id)
	if err != nil {
		return err
	}
	return checkSettings(id, p.Reasoning, settings)
}

// Credential resolves the provider's API key from the environment.
// Providers with an empty env_key (local backends) yield an empty credential.
func (r *Registry) Credential(id string) (string, error) {
	p, err := r.Get(id)
	if err != nil {
		return "", err
	}
	if p.EnvKey == "" {
		return "", nil
	}
	key := os.Getenv(p.EnvKey)
	if key == "" {
		return "", &CredentialError{ProviderID: id, EnvKey: p.EnvKey}
	}
	return key, nil
}

// ids returns all provider ids sorted.
func (r *Registry) ids() []string {
	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
