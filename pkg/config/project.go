package config

import (
	_ "embed"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/pybuild/pkg/errors"
	"github.com/arthur-debert/pybuild/pkg/logging"
)

//go:embed embedded/pyproject.yml
var sampleProject []byte

// DefaultProjectFile is the project file looked up when none is given.
const DefaultProjectFile = "pyproject.yml"

// Project is a parsed project file. All mapping keys have been lowercased.
type Project struct {
	Name         string       `koanf:"name"`
	Src          string       `koanf:"src"`
	QtResources  QtResources  `koanf:"qtresources"`
	PreCommands  []string     `koanf:"precommands"`
	PostCommands []string     `koanf:"postcommands"`
	Build        BuildSection `koanf:"build"`
	RunCommands  string       `koanf:"runcommands"`

	// Environments in declaration order.
	Environments []EnvVar `koanf:"-"`

	// HasBuild reports whether a non-empty build section is present.
	HasBuild bool `koanf:"-"`

	path string
}

// QtResources describes the resource manifest and its compiled module.
type QtResources struct {
	Src       string   `koanf:"src"`
	Dest      string   `koanf:"dest"`
	Resources []string `koanf:"resources"`
	// Compression is nil when the project leaves the level to settings.
	Compression *int   `koanf:"compression"`
	Compiler    string `koanf:"compiler"`
}

// Complete reports whether manifest path, compiled path and resources are
// all set. Resource steps only run for complete sections.
func (q QtResources) Complete() bool {
	return q.Src != "" && q.Dest != "" && len(q.Resources) > 0
}

// BuildSection holds the packaging options.
type BuildSection struct {
	Path           string   `koanf:"path"`
	Icon           string   `koanf:"icon"`
	OneFile        bool     `koanf:"onefile"`
	Clean          bool     `koanf:"clean"`
	ExcludeModules []string `koanf:"excludemodules"`
	HiddenImports  []string `koanf:"hiddenimports"`
	Datas          []string `koanf:"datas"`
	Binaries       []string `koanf:"binaries"`
	Dist           string   `koanf:"dist"`
	Work           string   `koanf:"work"`
	UPX            bool     `koanf:"upx"`
}

// EnvVar is a declared environment variable whose value is a path template.
type EnvVar struct {
	Name  string
	Value string
}

// Path returns the file the project was loaded from.
func (p *Project) Path() string {
	return p.path
}

// Validate checks the keys every build needs.
func (p *Project) Validate() error {
	if p.Name == "" || p.Src == "" {
		return errors.New(errors.ErrConfigInvalid,
			"must specify project name 'Name' and main entry point 'Src'").
			WithDetail("path", p.path)
	}
	return nil
}

// Load reads and normalizes the project file at path.
func Load(path string) (*Project, error) {
	logger := logging.GetLogger("config")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrConfigNotFound, "could not find build config %s", path).
				WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, errors.ErrConfigNotFound, "cannot read build config %s", path)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid build config %s", path)
	}
	p.path = path

	logger.Debug().
		Str("path", path).
		Str("name", p.Name).
		Int("environments", len(p.Environments)).
		Bool("build", p.HasBuild).
		Msg("Project loaded")

	return p, nil
}

// Parse builds a Project from YAML data.
func Parse(data []byte) (*Project, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "cannot parse YAML")
	}

	var decoded interface{}
	if len(doc.Content) > 0 {
		if err := doc.Decode(&decoded); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigParse, "cannot decode YAML")
		}
	}
	if decoded == nil {
		decoded = map[string]interface{}{}
	}

	normalized, ok := NormalizeKeys(decoded).(map[string]interface{})
	if !ok {
		return nil, errors.Newf(errors.ErrConfigParse, "top level must be a mapping, got %T", decoded)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(normalized, ""), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "cannot load document")
	}

	var p Project
	if err := k.UnmarshalWithConf("", &p, decoderConf(&p)); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "cannot read project settings")
	}

	envs, err := environments(&doc, normalized)
	if err != nil {
		return nil, err
	}
	p.Environments = envs
	p.HasBuild = nonEmptyMap(normalized["build"])

	return &p, nil
}

// NormalizeKeys lowercases every mapping key at every depth. Only mappings
// are descended into; strings, lists and other values are returned as is.
func NormalizeKeys(v interface{}) interface{} {
	switch m := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(m))
		for key, value := range m {
			out[strings.ToLower(key)] = NormalizeKeys(value)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for key, value := range m {
			out[strings.ToLower(fmt.Sprint(key))] = NormalizeKeys(value)
		}
		return out
	default:
		return v
	}
}

// SampleProject returns a commented example project file.
func SampleProject() string {
	return string(sampleProject)
}

func decoderConf(result interface{}) koanf.UnmarshalConf {
	return koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           result,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				yesNoToBoolHookFunc(),
			),
		},
	}
}

// yesNoToBoolHookFunc accepts the YAML 1.1 spellings of booleans that
// yaml.v3 leaves as strings.
func yesNoToBoolHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Bool {
			return data, nil
		}
		switch strings.ToLower(strings.TrimSpace(data.(string))) {
		case "yes", "y", "on":
			return true, nil
		case "no", "n", "off", "":
			return false, nil
		}
		return data, nil
	}
}

// environments returns the declared variables in document order. The
// decoded map holds the values; the YAML node holds the order.
func environments(doc *yaml.Node, normalized map[string]interface{}) ([]EnvVar, error) {
	section, ok := normalized["environments"]
	if !ok || section == nil {
		return nil, nil
	}
	values, ok := section.(map[string]interface{})
	if !ok {
		return nil, errors.Newf(errors.ErrConfigParse, "environments must be a mapping, got %T", section)
	}

	var envs []EnvVar
	seen := make(map[string]bool, len(values))
	for _, name := range mappingKeys(lookupNode(doc, "environments")) {
		if seen[name] {
			continue
		}
		seen[name] = true
		value, ok := values[name]
		if !ok {
			continue
		}
		str := ""
		if value != nil {
			str = fmt.Sprint(value)
		}
		envs = append(envs, EnvVar{Name: name, Value: str})
	}
	return envs, nil
}

// lookupNode finds the value node of a top-level key, matching
// case-insensitively.
func lookupNode(doc *yaml.Node, key string) *yaml.Node {
	root := resolveAlias(doc)
	if root != nil && root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = resolveAlias(root.Content[0])
	}
	if root == nil || root.Kind != yaml.MappingNode {
		return nil
	}
	var found *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		if strings.ToLower(root.Content[i].Value) == key {
			found = resolveAlias(root.Content[i+1])
		}
	}
	return found
}

// mappingKeys lists the lowercased keys of a mapping node in order.
func mappingKeys(n *yaml.Node) []string {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys = append(keys, strings.ToLower(n.Content[i].Value))
	}
	return keys
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func nonEmptyMap(v interface{}) bool {
	m, ok := v.(map[string]interface{})
	return ok && len(m) > 0
}
