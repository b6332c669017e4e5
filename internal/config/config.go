package config

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// Registry keys read by the decoration core.
const (
	KeyBorderSize        = "border_size"
	KeyBorderColor       = "border_color"
	KeyActiveBorderColor = "active_border_color"
)

// Border styles.
const (
	StyleSimple = "simple"
)

const (
	DefaultLogLevel     = "info"
	DefaultPollInterval = 250 * time.Millisecond
	DefaultTitleOffset  = 50
	DefaultStyle        = StyleSimple

	// MaxBorderSize bounds registry.border_size.
	MaxBorderSize = 1024
)

// Config is the effective daemon configuration.
type Config struct {
	// Display overrides $DISPLAY for the X11 connection.
	Display string
	// LogLevel is one of debug, info, warning, error.
	LogLevel string
	// PollInterval is how often window geometry is sampled.
	PollInterval time.Duration
	// TitleOffset is the height of the title strip above the top border.
	TitleOffset uint32
	// Style names the border drawer.
	Style string
	// Registry holds free-form settings looked up by key, such as
	// border_size and border_color.
	Registry map[string]any
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     DefaultLogLevel,
		PollInterval: DefaultPollInterval,
		TitleOffset:  DefaultTitleOffset,
		Style:        DefaultStyle,
		Registry: map[string]any{
			KeyBorderSize:        4,
			KeyBorderColor:       0x95a5a6,
			KeyActiveBorderColor: 0x3498db,
		},
	}
}

// BuildEffectiveConfig applies raw overrides on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.PollInterval != nil {
		d, err := time.ParseDuration(strings.TrimSpace(*raw.PollInterval))
		if err != nil {
			return nil, &ValidationError{Path: "poll_interval", Err: fmt.Errorf("invalid duration %q", *raw.PollInterval)}
		}
		cfg.PollInterval = d
	}
	if raw.TitleOffset != nil {
		if *raw.TitleOffset < 0 {
			return nil, &ValidationError{Path: "title_offset", Err: fmt.Errorf("title_offset must be >= 0")}
		}
		cfg.TitleOffset = uint32(*raw.TitleOffset)
	}
	if raw.Style != nil {
		cfg.Style = strings.TrimSpace(*raw.Style)
	}
	for key, value := range raw.Registry {
		if value == nil {
			// An explicit null unsets a default.
			delete(cfg.Registry, key)
			continue
		}
		cfg.Registry[key] = value
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.PollInterval <= 0 {
		return &ValidationError{Path: "poll_interval", Err: fmt.Errorf("poll_interval must be > 0")}
	}
	if c.Style != StyleSimple {
		return &ValidationError{Path: "style", Err: fmt.Errorf("style must be one of: %s", StyleSimple)}
	}
	if c.Registry == nil {
		return &ValidationError{Path: "registry", Err: fmt.Errorf("registry must not be null")}
	}
	for _, key := range sortedKeys(c.Registry) {
		if strings.TrimSpace(key) == "" {
			return &ValidationError{Path: "registry", Err: fmt.Errorf("registry contains an empty key")}
		}
		switch c.Registry[key].(type) {
		case map[string]any, []any:
			return &ValidationError{Path: "registry." + key, Err: fmt.Errorf("registry values must be scalars")}
		}
	}
	if n, ok := (Value{raw: c.Registry[KeyBorderSize]}).Float64(); ok && n > MaxBorderSize {
		return &ValidationError{Path: "registry." + KeyBorderSize, Err: fmt.Errorf("border_size must be <= %d", MaxBorderSize)}
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MarshalYAML writes the config using the file's key names.
func (c *Config) MarshalYAML() (any, error) {
	return struct {
		Display      string         `yaml:"display,omitempty"`
		LogLevel     string         `yaml:"log_level"`
		PollInterval string         `yaml:"poll_interval"`
		TitleOffset  uint32         `yaml:"title_offset"`
		Style        string         `yaml:"style"`
		Registry     map[string]any `yaml:"registry"`
	}{
		Display:      c.Display,
		LogLevel:     c.LogLevel,
		PollInterval: c.PollInterval.String(),
		TitleOffset:  c.TitleOffset,
		Style:        c.Style,
		Registry:     c.Registry,
	}, nil
}

// NewRegistry returns a Registry seeded with the configured values.
func (c *Config) NewRegistry() *Registry {
	return NewRegistry(c.Registry)
}

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
