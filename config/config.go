// Package config loads declarative option files and turns them into a
// getopt.Registry and Parser. YAML, TOML and JSON are supported:
//
//	name: tar
//	dialect: gnu
//	options:
//	  - short: f
//	    long: file
//	    arg: archive
//	    required: true
//	  - short: x
//	  - short: c
//	groups:
//	  - name: mode
//	    members: [x, c]
//	    required: true
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dzonerzy/go-getopt/getopt"
)

// Format is the encoding of an option file.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("unsupported option file format: %q", filepath.Ext(path))
	}
}

// File is a declarative option set.
type File struct {
	Name            string       `yaml:"name" toml:"name" json:"name"`
	Description     string       `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
	Dialect         string       `yaml:"dialect,omitempty" toml:"dialect,omitempty" json:"dialect,omitempty"`
	StopAtNonOption bool         `yaml:"stop_at_non_option,omitempty" toml:"stop_at_non_option,omitempty" json:"stop_at_non_option,omitempty"`
	Options         []OptionSpec `yaml:"options" toml:"options" json:"options"`
	Groups          []GroupSpec  `yaml:"groups,omitempty" toml:"groups,omitempty" json:"groups,omitempty"`
}

// OptionSpec declares one option. Arg names a single value; Args overrides
// the count (-1 for unlimited). Property declares a -Dkey=value option.
type OptionSpec struct {
	Short       string   `yaml:"short,omitempty" toml:"short,omitempty" json:"short,omitempty"`
	Long        string   `yaml:"long,omitempty" toml:"long,omitempty" json:"long,omitempty"`
	Aliases     []string `yaml:"aliases,omitempty" toml:"aliases,omitempty" json:"aliases,omitempty"`
	Description string   `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
	Arg         string   `yaml:"arg,omitempty" toml:"arg,omitempty" json:"arg,omitempty"`
	Args        int      `yaml:"args,omitempty" toml:"args,omitempty" json:"args,omitempty"`
	Optional    bool     `yaml:"optional,omitempty" toml:"optional,omitempty" json:"optional,omitempty"`
	Separator   string   `yaml:"separator,omitempty" toml:"separator,omitempty" json:"separator,omitempty"`
	Required    bool     `yaml:"required,omitempty" toml:"required,omitempty" json:"required,omitempty"`
	Property    bool     `yaml:"property,omitempty" toml:"property,omitempty" json:"property,omitempty"`
}

// GroupSpec declares a mutually exclusive group. Members are option names.
type GroupSpec struct {
	Name     string   `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Members  []string `yaml:"members" toml:"members" json:"members"`
	Required bool     `yaml:"required,omitempty" toml:"required,omitempty" json:"required,omitempty"`
}

// Load reads and decodes the option file at path.
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return f, nil
}

// Decode reads an option file. Unknown keys are rejected.
func Decode(r io.Reader, format Format) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && err != io.EOF {
			return nil, err
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&f)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown keys: %v", undecoded)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported option file format: %v", format)
	}
	return &f, nil
}

// Registry builds the options and groups of f.
func (f *File) Registry() (*getopt.Registry, error) {
	reg := getopt.NewRegistry()
	for i, spec := range f.Options {
		o, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("option %d: %w", i+1, err)
		}
		if err := reg.Add(o); err != nil {
			return nil, fmt.Errorf("option %d: %w", i+1, err)
		}
	}
	for i, spec := range f.Groups {
		members := make([]*getopt.Option, 0, len(spec.Members))
		for _, name := range spec.Members {
			o := reg.Option(name)
			if o == nil {
				return nil, fmt.Errorf("group %d: %w", i+1,
					getopt.InvalidOptionError("unknown group member "+name))
			}
			members = append(members, o)
		}
		g := getopt.NewGroup(spec.Name, members...).SetRequired(spec.Required)
		if err := reg.AddGroup(g); err != nil {
			return nil, fmt.Errorf("group %d: %w", i+1, err)
		}
	}
	return reg, nil
}

// Parser returns a parser configured with the file's dialect.
func (f *File) Parser() (*getopt.Parser, error) {
	d, err := getopt.ParseDialect(f.Dialect)
	if err != nil {
		return nil, err
	}
	return getopt.NewParser(
		getopt.WithDialect(d),
		getopt.WithStopAtNonOption(f.StopAtNonOption),
	), nil
}

func (s OptionSpec) build() (*getopt.Option, error) {
	var b getopt.Builder
	if s.Property {
		if s.Long != "" {
			return nil, getopt.InvalidOptionError("property --" + s.Long + " must use a short name")
		}
		b = getopt.NewProperty(s.Short)
	} else {
		b = getopt.NewOption(s.Short, s.Long)
		switch {
		case s.Args != 0:
			b = b.Args(s.Args).ArgName(s.Arg)
		case s.Arg != "":
			b = b.Arg(s.Arg)
		}
		if s.Separator != "" {
			sep, size := utf8.DecodeRuneInString(s.Separator)
			if size != len(s.Separator) {
				return nil, getopt.InvalidOptionError("separator must be one character: " + s.Separator)
			}
			b = b.ValueSeparator(sep)
		}
	}
	b = b.Alias(s.Aliases...).Desc(s.Description)
	if s.Optional {
		b = b.OptionalArg()
	}
	if s.Required {
		b = b.Required()
	}
	return b.Build()
}
