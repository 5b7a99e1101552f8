package config

import (
	_ "embed"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	pberrors "github.com/arthur-debert/pybuild/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultSettings []byte

// EnvPrefix prefixes environment variables that override settings.
const EnvPrefix = "PYBUILD_"

// Settings configure pybuild itself rather than a project.
type Settings struct {
	Tools ToolSettings  `koanf:"tools"`
	Build BuildSettings `koanf:"build"`

	// File is the settings file that was loaded, if any.
	File string `koanf:"-"`
}

// ToolSettings name the external programs pybuild drives.
type ToolSettings struct {
	Python   string `koanf:"python" toml:"python"`
	RCC      string `koanf:"rcc" toml:"rcc"`
	Packager string `koanf:"packager" toml:"packager"`
}

// BuildSettings control how steps run.
type BuildSettings struct {
	Config      string        `koanf:"config"`
	Compression int           `koanf:"compression"`
	FailFast    bool          `koanf:"failfast"`
	Timeout     time.Duration `koanf:"timeout"`
}

// SettingsOptions select where settings come from.
type SettingsOptions struct {
	// File overrides the XDG lookup of the user settings file.
	File string
	// Overrides are flat keys such as "build.failfast", applied last.
	Overrides map[string]interface{}
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// LoadSettings merges, in order: built-in defaults, the user settings file,
// PYBUILD_* environment variables and explicit overrides.
func LoadSettings(opts SettingsOptions) (*Settings, error) {
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, toml.Parser()); err != nil {
		return nil, pberrors.Wrap(err, pberrors.ErrSettingsLoad, "failed to load defaults")
	}

	// 2. User settings file
	path := opts.File
	if path == "" {
		path = findSettingsFile()
	}
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, pberrors.Wrapf(err, pberrors.ErrSettingsLoad, "failed to load settings from %s", path)
		}
	}

	// 3. Environment variables: PYBUILD_TOOLS_PYTHON -> tools.python
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, pberrors.Wrap(err, pberrors.ErrSettingsLoad, "failed to load environment settings")
	}

	// 4. Explicit overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, pberrors.Wrap(err, pberrors.ErrSettingsLoad, "failed to apply overrides")
		}
	}

	var s Settings
	if err := k.UnmarshalWithConf("", &s, decoderConf(&s)); err != nil {
		return nil, pberrors.Wrap(err, pberrors.ErrSettingsLoad, "failed to unmarshal settings")
	}
	s.File = path

	return &s, nil
}

// findSettingsFile searches the XDG config directories for
// pybuild/config.{toml,yaml,yml}.
func findSettingsFile() string {
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		if path, err := xdg.SearchConfigFile(filepath.Join("pybuild", name)); err == nil {
			return path
		}
	}
	return ""
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	}
	return nil, pberrors.Newf(pberrors.ErrSettingsLoad, "unsupported settings format %q", filepath.Ext(path))
}

// settingsDocument is the TOML rendering of Settings.
type settingsDocument struct {
	Tools ToolSettings `toml:"tools"`
	Build struct {
		Config      string `toml:"config"`
		Compression int    `toml:"compression"`
		FailFast    bool   `toml:"failfast"`
		Timeout     string `toml:"timeout"`
	} `toml:"build"`
}

// TOML renders the effective settings.
func (s *Settings) TOML() ([]byte, error) {
	var doc settingsDocument
	doc.Tools = s.Tools
	doc.Build.Config = s.Build.Config
	doc.Build.Compression = s.Build.Compression
	doc.Build.FailFast = s.Build.FailFast
	doc.Build.Timeout = s.Build.Timeout.String()

	out, err := gotoml.Marshal(doc)
	if err != nil {
		return nil, pberrors.Wrap(err, pberrors.ErrInternal, "failed to render settings")
	}
	return out, nil
}
