package config

import "time"

// Config represents the main application configuration.
type Config struct {
	Wiki     WikiConfig     `yaml:"wiki"`
	Session  SessionConfig  `yaml:"session"`
	Approval ApprovalConfig `yaml:"approval"`
	Memory   MemoryConfig   `yaml:"memory"`
	Audit    AuditConfig    `yaml:"audit"`
	Git      GitConfig      `yaml:"git"`
	Logging  LoggingConfig  `yaml:"logging"`

	// Runtime version information
	Version string `yaml:"-"`
}

// WikiConfig holds wiki filesystem settings.
type WikiConfig struct {
	Root        string `yaml:"root"`          // Wiki root directory (default: "wiki")
	MaxFileSize int64  `yaml:"max_file_size"` // Max readable file size in bytes
	ListLimit   int    `yaml:"list_limit"`    // Max results from a glob listing
	WatchFiles  bool   `yaml:"watch_files"`   // Invalidate search cache on file changes
}

// SessionConfig holds session persistence settings.
type SessionConfig struct {
	File            string `yaml:"file"`             // Session record path (default: <configDir>/session.json)
	DefaultProvider string `yaml:"default_provider"` // Overrides the catalog default when set
}

// ApprovalConfig holds action approval settings.
type ApprovalConfig struct {
	AutoExecute    bool `yaml:"auto_execute"`     // Skip confirmation for non-destructive batches
	MaxContentSize int  `yaml:"max_content_size"` // Max action content length in characters
}

// MemoryConfig holds contextual memory settings.
type MemoryConfig struct {
	Enabled    bool   `yaml:"enabled"`     // Enable/disable contextual memory
	File       string `yaml:"file"`        // Memory record path (default: <configDir>/memory.json)
	MaxEntries int    `yaml:"max_entries"` // Maximum remembered actions
}

// AuditConfig holds changelog settings.
type AuditConfig struct {
	Enabled    bool `yaml:"enabled"`     // Enable/disable the applied-action changelog
	MaxEntries int  `yaml:"max_entries"` // Maximum entries per session file
}

// GitConfig holds git context settings.
type GitConfig struct {
	Enabled    bool          `yaml:"enabled"`     // Include git context in prompts
	MaxCommits int           `yaml:"max_commits"` // Recent commits to include
	Timeout    time.Duration `yaml:"timeout"`     // Per-subprocess timeout
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // Logging level: debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Wiki: WikiConfig{
			Root:        "wiki",
			MaxFileSize: 1024 * 1024, // 1MB read bound
			ListLimit:   50,
			WatchFiles:  true,
		},
		Session: SessionConfig{},
		Approval: ApprovalConfig{
			AutoExecute:    false,
			MaxContentSize: 50000,
		},
		Memory: MemoryConfig{
			Enabled:    true,
			MaxEntries: 50,
		},
		Audit: AuditConfig{
			Enabled:    true,
			MaxEntries: 10000,
		},
		Git: GitConfig{
			Enabled:    true,
			MaxCommits: 5,
			Timeout:    3 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}
