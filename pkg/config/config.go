package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kballard/go-shellquote"
	"modernc.org/libqbe"
	"sigs.k8s.io/yaml"

	"github.com/aycc/aycc/pkg/cli"
)

type Feature int

const (
	FeatLineComments Feature = iota
	FeatIncludeCache
	FeatCount
)

type Warning int

const (
	WarnMultiChar Warning = iota
	WarnUnknownEscape
	WarnEscapeRange
	WarnCount
)

const (
	DefaultStdIncludeRoot  = "include"
	DefaultMaxIncludeDepth = 200
	DefaultObjSuffix       = ".o"
	EnvFlags               = "AYCC_FLAGS"
)

type Info struct {
	Name        string
	Enabled     bool
	Description string
}

type Config struct {
	Features   map[Feature]Info
	Warnings   map[Warning]Info
	FeatureMap map[string]Feature
	WarningMap map[string]Warning
	StdName    string

	StdIncludeRoot   string
	UserIncludePaths []string
	Target           string
	MaxIncludeDepth  int
	Jobs             int
	ObjSuffix        string

	allWarnings, noWarnings *bool
}

func NewConfig() *Config {
	cfg := &Config{
		Features:        make(map[Feature]Info),
		Warnings:        make(map[Warning]Info),
		FeatureMap:      make(map[string]Feature),
		WarningMap:      make(map[string]Warning),
		StdName:         "c11",
		StdIncludeRoot:  DefaultStdIncludeRoot,
		MaxIncludeDepth: DefaultMaxIncludeDepth,
		Jobs:            runtime.NumCPU(),
		ObjSuffix:       DefaultObjSuffix,
	}

	features := map[Feature]Info{
		FeatLineComments: {"line-comments", true, "Recognize C99 '//' line comments."},
		FeatIncludeCache: {"include-cache", true, "Lex identical included files only once."},
	}

	warnings := map[Warning]Info{
		WarnMultiChar:     {"multichar", true, "Warn on character constants holding more than one character."},
		WarnUnknownEscape: {"unknown-escape", true, "Warn on unrecognized character escape sequences."},
		WarnEscapeRange:   {"escape-range", true, "Warn when an octal or hex escape is truncated to a byte."},
	}

	cfg.Features, cfg.Warnings = features, warnings
	for ft, info := range features {
		cfg.FeatureMap[info.Name] = ft
	}
	for wt, info := range warnings {
		cfg.WarningMap[info.Name] = wt
	}
	return cfg
}

// SetTarget records the target name. An empty target selects the host
// target as named by QBE.
func (c *Config) SetTarget(goos, goarch, target string) {
	if target == "" {
		target = libqbe.DefaultTarget(goos, goarch)
	}
	c.Target = target
}

func (c *Config) SetFeature(ft Feature, enabled bool) {
	if info, ok := c.Features[ft]; ok {
		info.Enabled = enabled
		c.Features[ft] = info
	}
}

func (c *Config) IsFeatureEnabled(ft Feature) bool { return c.Features[ft].Enabled }

func (c *Config) SetWarning(wt Warning, enabled bool) {
	if info, ok := c.Warnings[wt]; ok {
		info.Enabled = enabled
		c.Warnings[wt] = info
	}
}

func (c *Config) IsWarningEnabled(wt Warning) bool { return c.Warnings[wt].Enabled }

func (c *Config) ApplyStd(stdName string) error {
	switch stdName {
	case "c89", "c90":
		c.SetFeature(FeatLineComments, false)
	case "c99", "c11":
		c.SetFeature(FeatLineComments, true)
	default:
		return fmt.Errorf("unsupported standard '%s'. Supported: 'c89', 'c99', 'c11'", stdName)
	}
	c.StdName = stdName
	return nil
}

// ApplyFlag applies a single -W<name>, -Wno-<name>, -F<name> or -Fno-<name>
// flag. Unknown names are reported as errors.
func (c *Config) ApplyFlag(flag string) error {
	trimmed := strings.TrimPrefix(flag, "-")
	if len(trimmed) < 2 {
		return fmt.Errorf("invalid flag '%s'", flag)
	}

	isWarning := trimmed[0] == 'W'
	if !isWarning && trimmed[0] != 'F' {
		return fmt.Errorf("invalid flag '%s': expected -W or -F", flag)
	}
	name := trimmed[1:]
	enable := !strings.HasPrefix(name, "no-")
	name = strings.TrimPrefix(name, "no-")

	if isWarning && name == "all" {
		for i := Warning(0); i < WarnCount; i++ {
			c.SetWarning(i, enable)
		}
		return nil
	}

	if isWarning {
		w, ok := c.WarningMap[name]
		if !ok {
			return fmt.Errorf("unknown warning '%s'", name)
		}
		c.SetWarning(w, enable)
		return nil
	}
	f, ok := c.FeatureMap[name]
	if !ok {
		return fmt.Errorf("unknown feature '%s'", name)
	}
	c.SetFeature(f, enable)
	return nil
}

// SetupFlagGroups registers -W<name>/-Wno-<name> and -F<name>/-Fno-<name>
// flags for every warning and feature. The returned entries are indexed by
// Warning and Feature and are applied with ApplyFlagGroups after parsing.
func (c *Config) SetupFlagGroups(fs *cli.FlagSet) ([]cli.FlagGroupEntry, []cli.FlagGroupEntry) {
	warnings := make([]cli.FlagGroupEntry, WarnCount)
	for i := Warning(0); i < WarnCount; i++ {
		info := c.Warnings[i]
		warnings[i] = cli.FlagGroupEntry{
			Name: info.Name, Prefix: "W", Usage: info.Description, Default: info.Enabled,
			Enabled: new(bool), Disabled: new(bool),
		}
	}
	features := make([]cli.FlagGroupEntry, FeatCount)
	for i := Feature(0); i < FeatCount; i++ {
		info := c.Features[i]
		features[i] = cli.FlagGroupEntry{
			Name: info.Name, Prefix: "F", Usage: info.Description, Default: info.Enabled,
			Enabled: new(bool), Disabled: new(bool),
		}
	}

	var all, none bool
	fs.Bool(&all, "Wall", "", false, "Enable all warnings")
	fs.Bool(&none, "Wno-all", "", false, "Disable all warnings")
	fs.AddFlagGroup("Warning Flags", "Diagnostics emitted while lexing character and string literals.", "warning", warnings)
	fs.AddFlagGroup("Feature Flags", "Language and toolchain behaviors.", "feature", features)
	c.allWarnings, c.noWarnings = &all, &none
	return warnings, features
}

// ApplyFlagGroups applies the command line state of the entries returned
// by SetupFlagGroups. -Wall and -Wno-all apply before individual warnings.
func (c *Config) ApplyFlagGroups(warnings, features []cli.FlagGroupEntry) {
	if c.allWarnings != nil && *c.allWarnings {
		for i := Warning(0); i < WarnCount; i++ {
			c.SetWarning(i, true)
		}
	}
	if c.noWarnings != nil && *c.noWarnings {
		for i := Warning(0); i < WarnCount; i++ {
			c.SetWarning(i, false)
		}
	}
	for i, e := range warnings {
		if *e.Enabled {
			c.SetWarning(Warning(i), true)
		}
		if *e.Disabled {
			c.SetWarning(Warning(i), false)
		}
	}
	for i, e := range features {
		if *e.Enabled {
			c.SetFeature(Feature(i), true)
		}
		if *e.Disabled {
			c.SetFeature(Feature(i), false)
		}
	}
}

// ProcessFlagString applies every flag of a shell-quoted string.
func (c *Config) ProcessFlagString(s string) error {
	flags, err := shellquote.Split(s)
	if err != nil {
		return fmt.Errorf("invalid flag string: %w", err)
	}
	for _, flag := range flags {
		if err := c.ApplyFlag(flag); err != nil {
			return err
		}
	}
	return nil
}

// ApplyEnv applies the flags found in the AYCC_FLAGS environment variable.
func (c *Config) ApplyEnv() error {
	s := os.Getenv(EnvFlags)
	if s == "" {
		return nil
	}
	if err := c.ProcessFlagString(s); err != nil {
		return fmt.Errorf("%s: %w", EnvFlags, err)
	}
	return nil
}

// File is the on-disk form of a toolchain configuration.
type File struct {
	Std             string   `json:"std,omitempty"`
	StdIncludeRoot  string   `json:"stdIncludeRoot,omitempty"`
	IncludePaths    []string `json:"includePaths,omitempty"`
	Target          string   `json:"target,omitempty"`
	MaxIncludeDepth int      `json:"maxIncludeDepth,omitempty"`
	Jobs            int      `json:"jobs,omitempty"`
	ObjSuffix       string   `json:"objSuffix,omitempty"`
	Flags           []string `json:"flags,omitempty"`
}

// LoadFile reads a YAML configuration and applies it on top of c. Relative
// directories are taken relative to the configuration file.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return c.applyFile(f, filepath.Dir(path))
}

func (c *Config) applyFile(f File, dir string) error {
	rel := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	if f.Std != "" {
		if err := c.ApplyStd(f.Std); err != nil {
			return err
		}
	}
	if f.StdIncludeRoot != "" {
		c.StdIncludeRoot = rel(f.StdIncludeRoot)
	}
	for _, p := range f.IncludePaths {
		c.UserIncludePaths = append(c.UserIncludePaths, rel(p))
	}
	if f.Target != "" {
		c.Target = f.Target
	}
	if f.MaxIncludeDepth < 0 || f.Jobs < 0 {
		return fmt.Errorf("maxIncludeDepth and jobs must not be negative")
	}
	if f.MaxIncludeDepth > 0 {
		c.MaxIncludeDepth = f.MaxIncludeDepth
	}
	if f.Jobs > 0 {
		c.Jobs = f.Jobs
	}
	if f.ObjSuffix != "" {
		c.ObjSuffix = f.ObjSuffix
	}
	for _, flag := range f.Flags {
		if err := c.ApplyFlag(flag); err != nil {
			return err
		}
	}
	return nil
}
