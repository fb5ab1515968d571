// Package config loads lsvcs settings from YAML, git config and command line
// overrides, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chmouel/lsvcs/internal/git"
	"github.com/chmouel/lsvcs/internal/listing"
	log "github.com/chmouel/lsvcs/internal/log"
	"github.com/chmouel/lsvcs/internal/render"
	"github.com/chmouel/lsvcs/internal/sorting"
	"github.com/chmouel/lsvcs/internal/theme"
	"github.com/chmouel/lsvcs/internal/utils"
	"gopkg.in/yaml.v3"
)

// AppConfig holds every lsvcs setting.
type AppConfig struct {
	SortColumn    string // sort key: see sorting.KeyNames
	SortReverse   bool
	DirGrouping   string // "first", "last" or "none"
	GitStatus     bool
	GitBackend    string // "go-git" or "cli"
	Display       string // "visible", "all" or "almost-all"
	Long          bool
	Icons         string // "always", "never" or "auto"
	Color         string // "always", "never" or "auto"
	Theme         string // see theme.AvailableThemes
	MaxNameLength int    // 0 disables truncation
	DateFormat    string // Go layout, "relative" or "iso"
	DebugLog      string
	WatchDebounce time.Duration
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		SortColumn:    "name",
		DirGrouping:   "none",
		GitBackend:    git.BackendGoGit,
		Display:       "visible",
		Icons:         "auto",
		Color:         "auto",
		WatchDebounce: 300 * time.Millisecond,
	}
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return defaultVal
	case int:
		return v
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return defaultVal
		}
		if i, err := strconv.Atoi(text); err == nil {
			return i
		}
	}
	return defaultVal
}

// lastValue collapses repeated git config or -C keys to the last value.
func lastValue(value any) any {
	if list, ok := value.([]any); ok {
		if len(list) == 0 {
			return nil
		}
		return list[len(list)-1]
	}
	return value
}

func coerceString(value any) (string, bool) {
	switch v := lastValue(value).(type) {
	case string:
		return strings.TrimSpace(v), true
	case int, bool:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}

// stringSetting is a key whose value must pass a parser before it is kept.
type stringSetting struct {
	key   string
	field func(*AppConfig) *string
	valid func(string) error
}

var stringSettings = []stringSetting{
	{"sort_column", func(c *AppConfig) *string { return &c.SortColumn }, func(s string) error {
		_, err := sorting.ParseKey(s)
		return err
	}},
	{"dir_grouping", func(c *AppConfig) *string { return &c.DirGrouping }, func(s string) error {
		_, err := sorting.ParseDirGrouping(s)
		return err
	}},
	{"git_backend", func(c *AppConfig) *string { return &c.GitBackend }, func(s string) error {
		_, err := git.NewBackend(s)
		return err
	}},
	{"display", func(c *AppConfig) *string { return &c.Display }, func(s string) error {
		_, err := listing.ParseDisplay(s)
		return err
	}},
	{"icons", func(c *AppConfig) *string { return &c.Icons }, func(s string) error {
		_, err := render.ParseMode(s)
		return err
	}},
	{"color", func(c *AppConfig) *string { return &c.Color }, func(s string) error {
		_, err := render.ParseMode(s)
		return err
	}},
	{"theme", func(c *AppConfig) *string { return &c.Theme }, func(s string) error {
		if NormalizeThemeName(s) == "" {
			return fmt.Errorf("unknown theme %q (valid: %s)", s, strings.Join(theme.AvailableThemes(), ", "))
		}
		return nil
	}},
	{"date_format", func(c *AppConfig) *string { return &c.DateFormat }, nil},
	{"debug_log", func(c *AppConfig) *string { return &c.DebugLog }, nil},
}

// apply merges the keys present in data into cfg. Invalid values leave the
// previous setting untouched and are returned.
func (cfg *AppConfig) apply(data map[string]any) []error {
	var errs []error

	for _, s := range stringSettings {
		raw, ok := data[s.key]
		if !ok {
			continue
		}
		value, ok := coerceString(raw)
		if !ok || value == "" {
			continue
		}
		if s.valid != nil {
			if err := s.valid(value); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", s.key, err))
				continue
			}
		}
		if s.key == "theme" {
			value = NormalizeThemeName(value)
		}
		*s.field(cfg) = value
	}

	if v, ok := data["sort_reverse"]; ok {
		cfg.SortReverse = coerceBool(lastValue(v), cfg.SortReverse)
	}
	if v, ok := data["git_status"]; ok {
		cfg.GitStatus = coerceBool(lastValue(v), cfg.GitStatus)
	}
	if v, ok := data["long"]; ok {
		cfg.Long = coerceBool(lastValue(v), cfg.Long)
	}
	if v, ok := data["max_name_length"]; ok {
		if n := coerceInt(lastValue(v), -1); n >= 0 {
			cfg.MaxNameLength = n
		} else {
			errs = append(errs, fmt.Errorf("max_name_length: expected a non-negative integer, got %v", v))
		}
	}
	if v, ok := data["watch_debounce_ms"]; ok {
		if ms := coerceInt(lastValue(v), -1); ms > 0 {
			cfg.WatchDebounce = time.Duration(ms) * time.Millisecond
		} else {
			errs = append(errs, fmt.Errorf("watch_debounce_ms: expected a positive integer, got %v", v))
		}
	}
	return errs
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()
	for _, err := range cfg.apply(data) {
		log.Printf("config: ignoring %v", err)
	}
	return cfg
}

// ApplyCLIOverrides applies -C lsvcs.key=value overrides. Unlike the file
// and git config layers, invalid values are errors.
func (cfg *AppConfig) ApplyCLIOverrides(overrides []string) error {
	if len(overrides) == 0 {
		return nil
	}
	data, err := parseCLIConfigOverrides(overrides)
	if err != nil {
		return err
	}
	return errors.Join(cfg.apply(data)...)
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// LoadConfig reads the YAML configuration then applies the global git config.
// A missing or unparsable file yields the defaults.
func LoadConfig(configPath string) (*AppConfig, error) {
	configBase := filepath.Clean(filepath.Join(getConfigDir(), "lsvcs"))

	var paths []string
	if configPath != "" {
		expanded, err := utils.ExpandPath(configPath)
		if err != nil {
			return DefaultConfig(), err
		}
		absPath, err := filepath.Abs(expanded)
		if err != nil {
			return DefaultConfig(), err
		}
		if !isPathWithin(configBase, absPath) {
			return DefaultConfig(), fmt.Errorf("config path must reside inside %s", configBase)
		}
		paths = []string{absPath}
	} else {
		paths = []string{
			filepath.Join(configBase, "config.yaml"),
			filepath.Join(configBase, "config.yml"),
		}
	}

	cfg := DefaultConfig()
	for _, path := range paths {
		// #nosec G304 -- path is constrained to the config directory after validation
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			log.Printf("config: %s: %v", path, err)
			break
		}
		cfg = parseConfig(yamlData)
		log.Printf("config: loaded %s", path)
		break
	}

	gitCfg, err := loadGitConfig(true, "")
	if err != nil {
		log.Printf("config: git config: %v", err)
	} else {
		for _, err := range cfg.apply(gitCfg) {
			log.Printf("config: ignoring git config %v", err)
		}
	}

	if cfg.Theme == "" {
		detected, err := theme.DetectBackground(500 * time.Millisecond)
		if err == nil {
			cfg.Theme = detected
		} else {
			cfg.Theme = theme.DefaultDark()
		}
	}

	if cfg.DebugLog != "" && cfg.DebugLog != "-" {
		expanded, err := utils.ExpandPath(cfg.DebugLog)
		if err == nil {
			cfg.DebugLog = expanded
		}
	}

	return cfg, nil
}

func isPathWithin(base, target string) bool {
	base = filepath.Clean(base)
	target = filepath.Clean(target)

	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return false
	}
	return true
}

// NormalizeThemeName returns the canonical theme name, or "" if unsupported.
func NormalizeThemeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if theme.IsValid(name) {
		return name
	}
	return ""
}
