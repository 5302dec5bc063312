package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dzonerzy/go-getopt/getopt"
)

type optionView struct {
	Triggers []string
	Args     int
	ArgName  string
	Sep      rune
	Optional bool
	Required bool
	Property bool
	Desc     string
}

func viewOf(reg *getopt.Registry) ([]optionView, map[string][]string) {
	var opts []optionView
	for _, o := range reg.Options() {
		opts = append(opts, optionView{
			Triggers: o.Triggers(),
			Args:     o.Args(),
			ArgName:  o.ArgName(),
			Sep:      o.ValueSeparator(),
			Optional: o.HasOptionalArg(),
			Required: o.Required(),
			Property: o.IsProperty(),
			Desc:     o.Description(),
		})
	}
	groups := make(map[string][]string)
	for _, g := range reg.Groups() {
		for _, m := range g.Members() {
			groups[g.Name()] = append(groups[g.Name()], m.Key())
		}
	}
	return opts, groups
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.yaml", FormatYAML},
		{"a.YML", FormatYAML},
		{"dir/a.toml", FormatTOML},
		{"a.json", FormatJSON},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := FormatOf("a.ini")
	assert.ErrorContains(t, err, `".ini"`)
	assert.Equal(t, "toml", FormatTOML.String())
	assert.Equal(t, "unknown", Format(42).String())
}

func TestLoadAllFormatsAgree(t *testing.T) {
	f, err := Load("testdata/tar.yaml")
	require.NoError(t, err)
	assert.Equal(t, "tar", f.Name)
	assert.Equal(t, "gnu", f.Dialect)

	reg, err := f.Registry()
	require.NoError(t, err)
	wantOpts, wantGroups := viewOf(reg)
	require.Len(t, wantOpts, 6)

	for _, path := range []string{"testdata/tar.toml", "testdata/tar.json"} {
		t.Run(path, func(t *testing.T) {
			other, err := Load(path)
			require.NoError(t, err)
			if diff := cmp.Diff(f, other); diff != "" {
				t.Errorf("file mismatch (-yaml +%s):\n%s", path, diff)
			}
			reg, err := other.Registry()
			require.NoError(t, err)
			opts, groups := viewOf(reg)
			if diff := cmp.Diff(wantOpts, opts); diff != "" {
				t.Errorf("options mismatch (-yaml +other):\n%s", diff)
			}
			if diff := cmp.Diff(wantGroups, groups); diff != "" {
				t.Errorf("groups mismatch (-yaml +other):\n%s", diff)
			}
		})
	}
}

func TestRegistryFromFile(t *testing.T) {
	f, err := Load("testdata/tar.yaml")
	require.NoError(t, err)
	reg, err := f.Registry()
	require.NoError(t, err)

	file := reg.Option("file")
	require.NotNil(t, file)
	assert.Equal(t, "archive", file.ArgName())
	assert.True(t, file.Required())

	assert.Equal(t, reg.Option("v"), reg.Option("--loud"))

	inc := reg.Option("I")
	require.NotNil(t, inc)
	assert.Equal(t, getopt.UnlimitedArgs, inc.Args())
	assert.Equal(t, ',', inc.ValueSeparator())

	assert.True(t, reg.Option("D").IsProperty())

	g := reg.GroupOf(reg.Option("x"))
	require.NotNil(t, g)
	assert.Equal(t, "mode", g.Name())
	assert.True(t, g.Required())
}

func TestParseFromFile(t *testing.T) {
	f, err := Load("testdata/tar.json")
	require.NoError(t, err)
	reg, err := f.Registry()
	require.NoError(t, err)
	p, err := f.Parser()
	require.NoError(t, err)
	assert.Equal(t, getopt.DialectGNU, p.Dialect())

	res, err := p.Parse(reg, []string{"src", "--file=out.tar", "-x", "-I", "a,b", "-Dk=v"})
	require.NoError(t, err)

	assert.Equal(t, "out.tar", res.ValueOr("file", ""))
	assert.Equal(t, []string{"a", "b"}, res.Values("I"))
	assert.Equal(t, map[string]string{"k": "v"}, res.Properties("D"))
	assert.Equal(t, []string{"src"}, res.Args())
	assert.Equal(t, []string{"f", "x", "I", "D"}, res.Keys())

	_, err = p.Parse(reg, []string{"-f", "a", "-x", "-c"})
	assert.ErrorIs(t, err, getopt.ErrAlreadySelected)

	_, err = p.Parse(reg, []string{"-x"})
	assert.ErrorIs(t, err, getopt.ErrMissingOption)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		format Format
		input  string
	}{
		{FormatYAML, "name: x\nopts: []\n"},
		{FormatTOML, "name = \"x\"\nopts = 1\n"},
		{FormatJSON, `{"name": "x", "opts": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestDecodeEmptyYAML(t *testing.T) {
	f, err := Decode(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	reg, err := f.Registry()
	require.NoError(t, err)
	assert.Empty(t, reg.Options())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("testdata/missing.yaml")
	assert.Error(t, err)

	_, err = Load("testdata/tar.txt")
	assert.ErrorContains(t, err, "unsupported")
}

func TestRegistryErrors(t *testing.T) {
	tests := []struct {
		name string
		file File
		want string
	}{
		{
			name: "bad separator",
			file: File{Options: []OptionSpec{{Short: "I", Arg: "dir", Separator: ",;"}}},
			want: "option 1",
		},
		{
			name: "property with long name",
			file: File{Options: []OptionSpec{{Long: "define", Property: true}}},
			want: "property --define",
		},
		{
			name: "unknown group member",
			file: File{
				Options: []OptionSpec{{Short: "a"}},
				Groups:  []GroupSpec{{Name: "g", Members: []string{"a", "z"}}},
			},
			want: "group 1",
		},
		{
			name: "duplicate option",
			file: File{Options: []OptionSpec{{Short: "a"}, {Short: "a", Long: "all"}}},
			want: "option 2",
		},
		{
			name: "nameless option",
			file: File{Options: []OptionSpec{{Description: "nothing"}}},
			want: "option 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.file.Registry()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.True(t, errors.Is(err, getopt.ErrInvalidOption), "got %v", err)
		})
	}
}

func TestParserDialects(t *testing.T) {
	for _, d := range []string{"", "posix", "gnu", "identity"} {
		p, err := (&File{Dialect: d, StopAtNonOption: true}).Parser()
		require.NoError(t, err, d)
		assert.True(t, p.StopAtNonOption())
	}
	_, err := (&File{Dialect: "dos"}).Parser()
	assert.Error(t, err)
}
