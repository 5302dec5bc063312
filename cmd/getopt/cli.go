package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/dzonerzy/go-getopt/config"
	"github.com/dzonerzy/go-getopt/getopt"
	"github.com/dzonerzy/go-getopt/help"
	optio "github.com/dzonerzy/go-getopt/io"
	"github.com/dzonerzy/go-getopt/middleware"
)

const (
	appName        = "getopt"
	appDescription = "Parse command lines against declarative option files."
)

// CLI is the top-level command-line interface.
type CLI struct {
	Log   logConfig `embed:"" group:"log" prefix:"log-"`
	Color string    `default:"auto" enum:"auto,always,never" help:"Colorize output (auto, always, never)."`

	Parse     ParseCmd     `cmd:"" help:"Parse arguments against an option file and print the result."`
	Help      HelpCmd      `cmd:"" help:"Print the help text of an option file."`
	Languages LanguagesCmd `cmd:"" help:"List the languages of error messages."`
}

type logConfig struct {
	Level  string `default:"warning" enum:"debug,info,success,warning,error" help:"Minimum level of diagnostic output."`
	Format string `default:"symbols" enum:"symbols,tagged,plain" help:"Diagnostic line format."`
}

// env is bound into every command's Run.
type env struct {
	out   *optio.IOManager // results and help
	diag  *optio.IOManager // usage lines and logs
	log   *optio.Logger
	exits *ExitCodeManager
}

// reportedError marks an error the command already showed to the user.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

type exitRequest int

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) (code int) {
	var cli CLI
	e := &env{
		out:   optio.New().WithOut(stdout).WithErr(stderr),
		diag:  optio.New().WithOut(stderr).WithErr(stderr),
		exits: newExitCodeManager(),
	}
	e.log = optio.NewLogger(e.diag)

	// kong asks to exit after --help; unwind instead of terminating
	defer func() {
		if r := recover(); r != nil {
			req, ok := r.(exitRequest)
			if !ok {
				panic(r)
			}
			code = int(req)
		}
	}()

	parser, err := kong.New(&cli,
		kong.Name(appName),
		kong.Description(appDescription),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { panic(exitRequest(code)) }),
		kong.Bind(e),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true, Summary: true}),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return e.exits.defaults.GeneralError
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		e.log.Error("%v", err)
		var perr *kong.ParseError
		if errors.As(err, &perr) && perr.Context != nil {
			_ = perr.Context.PrintUsage(true)
		}
		return e.exits.resolve(err)
	}

	if err := cli.Log.apply(e.log); err != nil {
		e.log.Error("%v", err)
		return e.exits.defaults.MisusageError
	}
	switch cli.Color {
	case "always":
		e.out.ForceColor()
		e.diag.ForceColor()
	case "never":
		e.out.NoColor()
		e.diag.NoColor()
	}

	err = ktx.Run(e)
	var reported *reportedError
	if err != nil && !errors.As(err, &reported) {
		e.log.Error("%v", err)
	}
	return e.exits.resolve(err)
}

func (c logConfig) apply(l *optio.Logger) error {
	level, err := optio.ParseLevel(c.Level)
	if err != nil {
		return err
	}
	l.WithLevel(level)
	switch c.Format {
	case "tagged":
		l.WithFormat(optio.LogFormatTagged)
	case "plain":
		l.WithFormat(optio.LogFormatPlain)
	default:
		l.WithFormat(optio.LogFormatSymbols)
	}
	return nil
}

// ParseCmd parses the arguments after -- and prints what matched.
type ParseCmd struct {
	Spec   string   `help:"Option file (.yaml, .toml or .json)." required:"" short:"s" type:"existingfile"`
	Output string   `default:"yaml" enum:"yaml,json" help:"Result encoding (yaml, json)." short:"o"`
	Lang   string   `default:"en" env:"GETOPT_LANG" help:"Language of parse error messages."`
	Args   []string `arg:"" help:"Arguments to parse; put them after --." optional:""`
}

type parseResult struct {
	Program    string                       `json:"program" yaml:"program"`
	Options    []optionResult               `json:"options" yaml:"options"`
	Properties map[string]map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
	Args       []string                     `json:"args" yaml:"args"`
}

type optionResult struct {
	Name   string   `json:"name" yaml:"name"`
	Count  int      `json:"count" yaml:"count"`
	Values []string `json:"values,omitempty" yaml:"values,omitempty"`
}

// Run executes the parse command.
func (c *ParseCmd) Run(e *env) error {
	f, reg, err := loadRegistry(c.Spec)
	if err != nil {
		return err
	}
	p, err := f.Parser()
	if err != nil {
		return fmt.Errorf("%s: %w", c.Spec, err)
	}
	prog := programName(f, c.Spec)

	out := parseResult{Program: prog, Options: []optionResult{}, Args: []string{}}
	d := config.NewDispatcher(reg).
		Use(
			middleware.Recovery(middleware.WithLogger(e.log)),
			middleware.Logger(middleware.WithLogger(e.log)),
		).
		WithLogger(e.log).
		OnAny(func(opt *getopt.Option, values []string) error {
			out.Options = append(out.Options, optionResult{Name: opt.Name(), Values: values})
			return nil
		}).
		OnArgs(func(args []string) error {
			out.Args = append(out.Args, args...)
			return nil
		})

	res, err := d.Run(p, c.Args)
	if err != nil {
		if getopt.TypeOf(err) == "" {
			return err
		}
		e.log.Error("%s", help.Message(err, language.Make(c.Lang)))
		_ = help.New(e.diag).PrintUsage(prog, reg)
		return &reportedError{err}
	}

	for i := range out.Options {
		o := &out.Options[i]
		o.Count = res.Count(o.Name)
		if opt := reg.Option(o.Name); opt != nil && opt.IsProperty() {
			if out.Properties == nil {
				out.Properties = make(map[string]map[string]string)
			}
			out.Properties[o.Name] = res.Properties(o.Name)
		}
	}
	return encodeResult(e.out.Out(), c.Output, out)
}

func encodeResult(w io.Writer, format string, v parseResult) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// HelpCmd prints usage and option descriptions.
type HelpCmd struct {
	Spec  string `help:"Option file (.yaml, .toml or .json)." required:"" short:"s" type:"existingfile"`
	Width int    `help:"Wrap width; 0 uses the terminal width." short:"w"`
	Order string `default:"sorted" enum:"sorted,insertion" help:"Option order (sorted, insertion)."`
	Usage bool   `help:"Print only the usage line." short:"u"`
}

// Run executes the help command.
func (c *HelpCmd) Run(e *env) error {
	f, reg, err := loadRegistry(c.Spec)
	if err != nil {
		return err
	}
	order := help.OrderSorted
	if c.Order == "insertion" {
		order = help.OrderInsertion
	}
	hf := help.New(e.out).WithWidth(c.Width).WithOrder(order).WithHeader(f.Description)
	if c.Usage {
		return hf.PrintUsage(programName(f, c.Spec), reg)
	}
	return hf.PrintHelp(programName(f, c.Spec), reg)
}

// LanguagesCmd lists the message catalog languages.
type LanguagesCmd struct{}

// Run executes the languages command.
func (LanguagesCmd) Run(e *env) error {
	for _, tag := range help.Languages() {
		if _, err := fmt.Fprintln(e.out.Out(), tag); err != nil {
			return err
		}
	}
	return nil
}

func loadRegistry(path string) (*config.File, *getopt.Registry, error) {
	f, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	reg, err := f.Registry()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, reg, nil
}

func programName(f *config.File, path string) string {
	if f.Name != "" {
		return f.Name
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
