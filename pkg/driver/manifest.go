package driver

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/naoina/toml"
	"gopkg.in/yaml.v3"
)

// ManifestNames lists the project manifest file names, in lookup order.
var ManifestNames = []string{"hue.yml", "hue.yaml", "hue.toml"}

// Manifest describes a project: where generated files go, how they are
// formatted, and which entry programs to build.
type Manifest struct {
	Path    string
	Name    string
	Output  string
	Indent  int
	Header  bool
	Targets map[string]*Target
}

// Target is one buildable entry program.
type Target struct {
	Name   string
	Entry  string
	Output string
}

type manifestDisk struct {
	Name    string                `yaml:"name" toml:"name"`
	Output  string                `yaml:"output" toml:"output"`
	Indent  int                   `yaml:"indent" toml:"indent"`
	Header  *bool                 `yaml:"header" toml:"header"`
	Targets map[string]targetDisk `yaml:"targets" toml:"targets"`
}

type targetDisk struct {
	Entry  string `yaml:"entry" toml:"entry"`
	Output string `yaml:"output" toml:"output"`
}

var tomlSettings = toml.Config{
	NormFieldName: toml.DefaultConfig.NormFieldName,
	FieldToKey:    toml.DefaultConfig.FieldToKey,
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// LoadManifest parses a hue.yml or hue.toml file. Unknown keys are rejected.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw manifestDisk
	switch strings.ToLower(filepath.Ext(abs)) {
	case ".toml":
		err = tomlSettings.NewDecoder(bufio.NewReader(file)).Decode(&raw)
	default:
		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		err = decoder.Decode(&raw)
	}
	if err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", abs, err)
	}

	manifest, err := raw.toManifest(filepath.Dir(abs))
	if err != nil {
		return nil, fmt.Errorf("manifest: %s: %w", abs, err)
	}
	manifest.Path = abs
	return manifest, nil
}

func (d manifestDisk) toManifest(dir string) (*Manifest, error) {
	if d.Indent < 0 {
		return nil, fmt.Errorf("indent must not be negative")
	}
	m := &Manifest{
		Name:    strings.TrimSpace(d.Name),
		Output:  resolveRelative(dir, strings.TrimSpace(d.Output)),
		Indent:  d.Indent,
		Header:  true,
		Targets: make(map[string]*Target, len(d.Targets)),
	}
	if m.Output == "" {
		m.Output = dir
	}
	if d.Header != nil {
		m.Header = *d.Header
	}
	for name, raw := range d.Targets {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("target with empty name")
		}
		entry := strings.TrimSpace(raw.Entry)
		if entry == "" {
			return nil, fmt.Errorf("target %s: missing entry", name)
		}
		output := strings.TrimSpace(raw.Output)
		if output == "" {
			output = name + ".c"
		}
		m.Targets[name] = &Target{
			Name:   name,
			Entry:  resolveRelative(dir, entry),
			Output: output,
		}
	}
	// Every target writes into the same output directory.
	writers := make(map[string]string, len(m.Targets))
	for _, name := range m.TargetNames() {
		output := filepath.Clean(m.Targets[name].Output)
		if other, taken := writers[output]; taken {
			return nil, fmt.Errorf("targets %s and %s both write %s", other, name, output)
		}
		writers[output] = name
	}
	return m, nil
}

func resolveRelative(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// IndentString returns the indentation unit: a tab when Indent is zero,
// otherwise Indent spaces.
func (m *Manifest) IndentString() string {
	if m == nil || m.Indent <= 0 {
		return "\t"
	}
	return strings.Repeat(" ", m.Indent)
}

// TargetNames returns the target names in sorted order.
func (m *Manifest) TargetNames() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.Targets))
	for name := range m.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Target looks up a target by name.
func (m *Manifest) Target(name string) (*Target, error) {
	if m == nil {
		return nil, fmt.Errorf("manifest: no manifest loaded")
	}
	target, ok := m.Targets[name]
	if !ok {
		return nil, fmt.Errorf("manifest: unknown target %q (have %s)", name, strings.Join(m.TargetNames(), ", "))
	}
	return target, nil
}

// FindManifest searches start and its parents for a manifest file. It
// returns "" when none exists.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", start, err)
	}
	for {
		for _, name := range ManifestNames {
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			if err == nil && !info.IsDir() {
				return candidate, nil
			}
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("manifest: stat %s: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
