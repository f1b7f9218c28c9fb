package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a parsed auto.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the auto.toml schema.
type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
}

// PackageConfig is the [package] section.
type PackageConfig struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// BuildConfig is the [build] section. Main points at the entry module
// or a directory of modules; Out overrides the generated file stem.
type BuildConfig struct {
	Main string `toml:"main"`
	Out  string `toml:"out"`
}

// LoadManifest walks up from startDir, parses the nearest auto.toml
// and validates the required fields.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if !meta.IsDefined("build", "main") || strings.TrimSpace(cfg.Build.Main) == "" {
		cfg.Build.Main = "."
	}
	return cfg, nil
}

// MainPath resolves [build].main against the project root.
func (m *Manifest) MainPath() string {
	return filepath.Join(m.Root, filepath.FromSlash(strings.TrimSpace(m.Config.Build.Main)))
}

// OutputStem is the base name for generated C files when the build
// produces a single program.
func (m *Manifest) OutputStem() string {
	if out := strings.TrimSpace(m.Config.Build.Out); out != "" {
		return out
	}
	return m.Config.Package.Name
}
