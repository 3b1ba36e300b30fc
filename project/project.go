// Package project finds and loads cfront.toml, the per-directory settings
// for grammar, table cache, output and logging.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the project configuration file.
const FileName = "cfront.toml"

// Config mirrors cfront.toml.
type Config struct {
	Grammar GrammarConfig `toml:"grammar"`
	Tables  TablesConfig  `toml:"tables"`
	Output  OutputConfig  `toml:"output"`
	Log     LogConfig     `toml:"log"`
	Sources SourcesConfig `toml:"sources"`
}

type GrammarConfig struct {
	// Path to the grammar file. Empty selects the built-in minic grammar.
	Path           string `toml:"path"`
	Start          string `toml:"start"`
	AllowConflicts bool   `toml:"allow_conflicts"`
}

type TablesConfig struct {
	Cache string `toml:"cache"`
}

type OutputConfig struct {
	Format string `toml:"format"`
}

type LogConfig struct {
	Verbosity int `toml:"verbosity"`
}

type SourcesConfig struct {
	Dirs       []string `toml:"dirs"`
	Extensions []string `toml:"extensions"`
}

// Project is a loaded configuration together with the directory it
// applies to. Relative paths in the configuration resolve against RootDir.
type Project struct {
	RootDir    string
	ConfigPath string
	Config     Config
}

// DefaultConfig returns the settings used when no cfront.toml exists.
func DefaultConfig() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
	if len(c.Sources.Dirs) == 0 {
		c.Sources.Dirs = []string{"."}
	}
	if len(c.Sources.Extensions) == 0 {
		c.Sources.Extensions = []string{".c", ".h"}
	}
}

// Load discovers the project for the current directory.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom walks up from dir looking for cfront.toml. Without one the
// project is rooted at dir and uses DefaultConfig.
func LoadFrom(dir string) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}

	path, ok := Find(abs)
	if !ok {
		return &Project{RootDir: abs, Config: DefaultConfig()}, nil
	}
	return LoadFile(path)
}

// Find returns the nearest cfront.toml in dir or one of its parents.
func Find(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LoadFile reads the configuration at path.
func LoadFile(path string) (*Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	var cfg Config
	md, err := toml.DecodeFile(abs, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	cfg.applyDefaults()

	return &Project{
		RootDir:    filepath.Dir(abs),
		ConfigPath: abs,
		Config:     cfg,
	}, nil
}

// Resolve makes path absolute relative to the project root. Empty paths
// stay empty.
func (p *Project) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.RootDir, path)
}

func (p *Project) GrammarPath() string {
	return p.Resolve(p.Config.Grammar.Path)
}

func (p *Project) CachePath() string {
	return p.Resolve(p.Config.Tables.Cache)
}

// SourceFiles returns every file under the configured source directories
// whose extension is listed, in lexical order. Hidden directories are
// skipped.
func (p *Project) SourceFiles() ([]string, error) {
	exts := make(map[string]bool, len(p.Config.Sources.Extensions))
	for _, ext := range p.Config.Sources.Extensions {
		exts[ext] = true
	}

	seen := make(map[string]bool)
	var files []string
	for _, dir := range p.Config.Sources.Dirs {
		root := p.Resolve(dir)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if exts[filepath.Ext(path)] && !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", dir, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ErrExists is returned by Init when the directory already has a
// cfront.toml.
var ErrExists = errors.New(FileName + " already exists")

// Init writes cfg to dir/cfront.toml. It does not overwrite an existing
// file.
func Init(dir string, cfg Config) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return path, ErrExists
	}

	data, err := Encode(cfg)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", FileName, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
