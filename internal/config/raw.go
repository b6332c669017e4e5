package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawConfig struct {
	Include      IncludeList    `yaml:"include"`
	Display      *string        `yaml:"display"`
	LogLevel     *string        `yaml:"log_level"`
	PollInterval *string        `yaml:"poll_interval"`
	TitleOffset  *int           `yaml:"title_offset"`
	Style        *string        `yaml:"style"`
	Registry     map[string]any `yaml:"registry"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.PollInterval != nil {
		out.PollInterval = overlay.PollInterval
	}
	if overlay.TitleOffset != nil {
		out.TitleOffset = overlay.TitleOffset
	}
	if overlay.Style != nil {
		out.Style = overlay.Style
	}

	if overlay.Registry != nil {
		merged := make(map[string]any, len(out.Registry)+len(overlay.Registry))
		for key, value := range out.Registry {
			merged[key] = value
		}
		for key, value := range overlay.Registry {
			merged[key] = value
		}
		out.Registry = merged
	}

	return out
}
