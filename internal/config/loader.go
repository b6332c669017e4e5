package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source is where an effective setting came from.
type Source struct {
	Kind   SourceKind
	Name   string // for default
	File   string
	Line   int
	Column int
}

func (s Source) location() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML path -> file that set it last
	Files   []string          // every file read, includes first
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "tiledecor", "config.yaml"), nil
}

// Load reads the configuration from the standard location.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources loads config and returns file-level sources for introspection.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path and its includes. A missing file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	l := &fileLoader{
		visited: make(map[string]bool),
		sources: make(map[string]Source),
	}

	var raw RawConfig
	if _, err := os.Stat(path); err == nil {
		if raw, err = l.load(path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg, err := BuildEffectiveConfig(raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, l.locate(err)
	}
	return &LoadResult{Config: cfg, Sources: l.sources, Files: l.files}, nil
}

// fileLoader reads one config tree. Included files are merged before the
// file that includes them, so the including file wins.
type fileLoader struct {
	visited map[string]bool
	chain   []string
	sources map[string]Source
	files   []string
}

func (l *fileLoader) load(path string) (RawConfig, error) {
	file := canonicalPath(path)
	for _, parent := range l.chain {
		if parent == file {
			return RawConfig{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(l.chain, " -> "), file)
		}
	}
	if l.visited[file] {
		return RawConfig{}, nil
	}
	l.visited[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return RawConfig{}, fmt.Errorf("%s: failed to read: %w", file, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return RawConfig{}, fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}
	var own RawConfig
	if err := decodeStrict(data, &own); err != nil {
		return RawConfig{}, fmt.Errorf("%s: %w", file, err)
	}
	positions := make(map[string]Source)
	walkPositions(rootMapping(&doc), file, "", positions)

	l.chain = append(l.chain, file)
	var merged RawConfig
	for _, inc := range own.Include {
		paths, err := includePaths(file, inc)
		if err != nil {
			return RawConfig{}, fmt.Errorf("%s: include %q: %w", positions["include"].location(), inc, err)
		}
		for _, p := range paths {
			sub, err := l.load(p)
			if err != nil {
				return RawConfig{}, err
			}
			merged = merged.merge(sub)
		}
	}
	l.chain = l.chain[:len(l.chain)-1]

	for key, src := range positions {
		l.sources[key] = src
	}
	l.files = append(l.files, file)
	return merged.merge(own), nil
}

// locate adds the file position of the offending key to a validation error.
func (l *fileLoader) locate(err error) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := l.sources[verr.Path]; ok {
		verr.Source = src
	}
	return err
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func canonicalPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

// includePaths resolves an include entry relative to the including file. A
// directory expands to its .yaml and .yml files in name order.
func includePaths(from, include string) ([]string, error) {
	if include == "" {
		return nil, fmt.Errorf("path is empty")
	}
	if include == "~" || strings.HasPrefix(include, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		include = filepath.Join(home, strings.TrimPrefix(include[1:], "/"))
	}
	if !filepath.IsAbs(include) {
		include = filepath.Join(filepath.Dir(from), include)
	}

	info, err := os.Stat(include)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{include}, nil
	}
	entries, err := os.ReadDir(include)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			if !ent.IsDir() {
				files = append(files, filepath.Join(include, ent.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func rootMapping(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

// walkPositions records the position of every mapping value under its
// dotted path. Sequences are recorded as a whole.
func walkPositions(node *yaml.Node, file, prefix string, out map[string]Source) {
	if node == nil || node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		if prefix != "" {
			key = prefix + "." + key
		}
		out[key] = Source{Kind: SourceFile, File: file, Line: val.Line, Column: val.Column}
		walkPositions(val, file, key, out)
	}
}
