package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.TitleOffset != DefaultTitleOffset {
		t.Fatalf("expected title offset %d, got %d", DefaultTitleOffset, cfg.TitleOffset)
	}
	if _, ok := cfg.Registry[KeyBorderSize]; !ok {
		t.Fatalf("expected default %s", KeyBorderSize)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Style != StyleSimple {
		t.Fatalf("expected default style, got %q", res.Config.Style)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files loaded, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.PollInterval != DefaultPollInterval {
		t.Fatalf("expected poll interval %v, got %v", DefaultPollInterval, res.Config.PollInterval)
	}
}

func TestLoadFromPath_RegistryValues(t *testing.T) {
	data := strings.Join([]string{
		"title_offset: 24",
		"poll_interval: 1s",
		"registry:",
		"  border_size: 6",
		"  border_color: 0x1f2933",
		"  theme: dark",
		"",
	}, "\n")
	path := writeConfig(t, t.TempDir(), "config.yaml", data)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.TitleOffset != 24 {
		t.Fatalf("expected title_offset 24, got %d", cfg.TitleOffset)
	}
	if cfg.PollInterval != time.Second {
		t.Fatalf("expected poll_interval 1s, got %v", cfg.PollInterval)
	}

	reg := cfg.NewRegistry()
	size, ok := reg.Get(KeyBorderSize)
	if !ok {
		t.Fatalf("expected border_size to be set")
	}
	if f, ok := size.Float64(); !ok || f != 6 {
		t.Fatalf("expected border_size 6, got %v (%v)", f, ok)
	}
	color, _ := reg.Get(KeyBorderColor)
	if f, ok := color.Float64(); !ok || f != 0x1f2933 {
		t.Fatalf("expected hex border_color, got %v (%v)", f, ok)
	}
	theme, _ := reg.Get("theme")
	if _, ok := theme.Float64(); ok {
		t.Fatalf("expected string value to be non-numeric")
	}
	// Defaults not overridden survive the merge.
	if _, ok := reg.Get(KeyActiveBorderColor); !ok {
		t.Fatalf("expected default active_border_color to survive")
	}
}

func TestLoadFromPath_RegistryNullUnsetsDefault(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "registry:\n  active_border_color: null\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := res.Config.Registry[KeyActiveBorderColor]; ok {
		t.Fatalf("expected active_border_color to be unset")
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.yaml", "style: simple\nlog_level: loud\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Path != "log_level" {
		t.Fatalf("expected log_level path, got %q", verr.Path)
	}
	if !strings.Contains(err.Error(), ":2:") {
		t.Fatalf("expected line 2 in error, got %v", err)
	}
}

func TestLoadFromPath_RejectsNestedRegistryValue(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "registry:\n  border_size:\n    - 1\n")

	_, err := LoadFromPath(path)
	if err == nil || !strings.Contains(err.Error(), "registry.border_size") {
		t.Fatalf("expected registry.border_size error, got %v", err)
	}
}

func TestLoadFromPath_RejectsOversizedBorder(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "registry:\n  border_size: 4000000000\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "registry.border_size" {
		t.Fatalf("expected registry.border_size validation error, got %v", err)
	}

	path = writeConfig(t, t.TempDir(), "config.yaml", "registry:\n  border_size: 1024\n")
	if _, err := LoadFromPath(path); err != nil {
		t.Fatalf("expected border_size at the limit to load, got %v", err)
	}
}

func TestLoadFromPath_BadPollInterval(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "poll_interval: soon\n")

	_, err := LoadFromPath(path)
	if err == nil || !strings.Contains(err.Error(), "poll_interval") {
		t.Fatalf("expected poll_interval error, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, configD, "10-base.yaml", "registry:\n  border_size: 5\n  border_color: 0x111111\n")
	writeConfig(t, configD, "20-override.yaml", "registry:\n  border_size: 6\n")

	// Main file overrides includes.
	main := strings.Join([]string{
		"include:",
		"  - config.d",
		"registry:",
		"  border_size: 7",
		"",
	}, "\n")
	path := writeConfig(t, dir, "config.yaml", main)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Registry[KeyBorderSize] != 7 {
		t.Fatalf("expected border_size to be 7, got %v", res.Config.Registry[KeyBorderSize])
	}
	if res.Config.Registry[KeyBorderColor] != 0x111111 {
		t.Fatalf("expected included border_color to survive, got %v", res.Config.Registry[KeyBorderColor])
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 loaded files, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := writeConfig(t, dir, "a.yaml", "include: b.yaml\n")
	writeConfig(t, dir, "b.yaml", "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestExplain_RegistryKeySource(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "display: \":1\"\nregistry:\n  border_size: 9\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "registry.border_size")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 9 {
		t.Fatalf("expected 9, got %#v", val)
	}
	if src.Kind != SourceFile || src.Line != 3 {
		t.Fatalf("expected file source at line 3, got %#v", src)
	}

	val, src, err = Explain(res, "registry.border_color")
	if err != nil {
		t.Fatalf("explain default: %v", err)
	}
	if val != 0x95a5a6 || src.Kind != SourceDefault {
		t.Fatalf("expected default border_color, got %#v from %#v", val, src)
	}

	if _, _, err := Explain(res, "display.extra"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestRegistry_GetSetDelete(t *testing.T) {
	reg := NewRegistry(map[string]any{"a": 1})
	if _, ok := reg.Get("b"); ok {
		t.Fatalf("expected missing key")
	}
	reg.Set("b", 2.5)
	v, ok := reg.Get("b")
	if !ok {
		t.Fatalf("expected b to be set")
	}
	if f, ok := v.Float64(); !ok || f != 2.5 {
		t.Fatalf("expected 2.5, got %v", f)
	}
	reg.Delete("a")
	if got := reg.Keys(); len(got) != 1 || got[0] != "b" {
		t.Fatalf("expected keys [b], got %v", got)
	}
	reg.Replace(map[string]any{"c": true})
	c, _ := reg.Get("c")
	if _, ok := c.Float64(); ok {
		t.Fatalf("expected bool to be non-numeric")
	}
}

func TestRegistry_NilIsEmpty(t *testing.T) {
	var reg *Registry
	if _, ok := reg.Get("border_size"); ok {
		t.Fatalf("expected nil registry to have no values")
	}
}

func TestConfig_MarshalYAMLUsesFileKeys(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PollInterval = 2 * time.Second

	out, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	text := string(out)
	for _, want := range []string{"log_level: info", "poll_interval: 2s", "title_offset: 50", "border_size: 4"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in:\n%s", want, text)
		}
	}
	if strings.Contains(text, "display") {
		t.Fatalf("expected empty display to be omitted:\n%s", text)
	}

	var raw RawConfig
	if err := decodeStrict(out, &raw); err != nil {
		t.Fatalf("printed config does not load back: %v", err)
	}
}
