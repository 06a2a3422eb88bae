package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	// ScratchDir overrides the directory that holds one subdirectory per
	// workspace id. Default: <base>/workspaces.
	ScratchDir string `json:"scratch_dir,omitempty"`

	// MaxEntryBytes is the per-file cap applied during archive extraction.
	MaxEntryBytes int64 `json:"max_entry_bytes,omitempty"`

	// MaxArchiveBytes is the cap on the uploaded archive itself.
	MaxArchiveBytes int64 `json:"max_archive_bytes,omitempty"`

	// MaxReadBytes is the cap on file reads. Reads above it fail with
	// TOO_LARGE; file content is for display, not bulk transfer.
	MaxReadBytes int64 `json:"max_read_bytes,omitempty"`

	// MaxOutputBytes caps each of stdout/stderr captured from a command.
	// Exceeding it truncates the stream rather than failing the run.
	MaxOutputBytes int64 `json:"max_output_bytes,omitempty"`

	// DefaultTimeoutSeconds is the command timeout when the caller gives none.
	DefaultTimeoutSeconds int `json:"default_timeout_seconds,omitempty"`

	// MaxTimeoutSeconds is the ceiling on caller-supplied command timeouts.
	MaxTimeoutSeconds int `json:"max_timeout_seconds,omitempty"`

	// TopLanguages is how many languages the statistics report individually;
	// the remainder is aggregated under "Other".
	TopLanguages int `json:"top_languages,omitempty"`

	// BlockedCommands extends the built-in command denylist. Entries are
	// matched as lowercase substrings of the raw command string.
	BlockedCommands []string `json:"blocked_commands,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxEntryBytes:         2 << 20,  // 2 MiB per extracted file
		MaxArchiveBytes:       64 << 20, // 64 MiB upload
		MaxReadBytes:          1 << 20,  // 1 MiB read
		MaxOutputBytes:        256 << 10,
		DefaultTimeoutSeconds: 15,
		MaxTimeoutSeconds:     120,
		TopLanguages:          8,
	}
}

// DefaultTimeout returns the default command timeout as a duration.
func (c *Config) DefaultTimeout() time.Duration {
	return time.Duration(c.DefaultTimeoutSeconds) * time.Second
}

// MaxTimeout returns the command timeout ceiling as a duration.
func (c *Config) MaxTimeout() time.Duration {
	return time.Duration(c.MaxTimeoutSeconds) * time.Second
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.mentorcore.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Scratch resolves the workspace scratch root for a given base directory.
func (c *Config) Scratch(baseDir string) string {
	if c.ScratchDir != "" {
		return c.ScratchDir
	}
	return filepath.Join(baseDir, "workspaces")
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.ScratchDir = overlay.ScratchDir
	if result.ScratchDir == "" {
		result.ScratchDir = base.ScratchDir
	}

	result.MaxEntryBytes = overlay.MaxEntryBytes
	if result.MaxEntryBytes == 0 {
		result.MaxEntryBytes = base.MaxEntryBytes
	}

	result.MaxArchiveBytes = overlay.MaxArchiveBytes
	if result.MaxArchiveBytes == 0 {
		result.MaxArchiveBytes = base.MaxArchiveBytes
	}

	result.MaxReadBytes = overlay.MaxReadBytes
	if result.MaxReadBytes == 0 {
		result.MaxReadBytes = base.MaxReadBytes
	}

	result.MaxOutputBytes = overlay.MaxOutputBytes
	if result.MaxOutputBytes == 0 {
		result.MaxOutputBytes = base.MaxOutputBytes
	}

	result.DefaultTimeoutSeconds = overlay.DefaultTimeoutSeconds
	if result.DefaultTimeoutSeconds == 0 {
		result.DefaultTimeoutSeconds = base.DefaultTimeoutSeconds
	}

	result.MaxTimeoutSeconds = overlay.MaxTimeoutSeconds
	if result.MaxTimeoutSeconds == 0 {
		result.MaxTimeoutSeconds = base.MaxTimeoutSeconds
	}

	result.TopLanguages = overlay.TopLanguages
	if result.TopLanguages == 0 {
		result.TopLanguages = base.TopLanguages
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.BlockedCommands = mergeStringSlice(base.BlockedCommands, overlay.BlockedCommands)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
