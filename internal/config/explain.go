package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	display
//	log_level
//	poll_interval
//	title_offset
//	style
//	registry
//	registry.<key>
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.SplitN(path, ".", 2)
	if parts[0] != "registry" && len(parts) != 1 {
		return nil, fmt.Errorf("unknown path: %s", path)
	}

	switch parts[0] {
	case "display":
		return cfg.Display, nil
	case "log_level":
		return cfg.LogLevel, nil
	case "poll_interval":
		return cfg.PollInterval.String(), nil
	case "title_offset":
		return cfg.TitleOffset, nil
	case "style":
		return cfg.Style, nil
	case "registry":
		if len(parts) == 1 {
			return cfg.Registry, nil
		}
		value, ok := cfg.Registry[parts[1]]
		if !ok {
			return nil, fmt.Errorf("registry key %q is not set", parts[1])
		}
		return value, nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
