package getopt

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// Argument counts accepted by Builder.Args.
const (
	NoArgs        = 0
	UnlimitedArgs = -1
)

// Unlimited marks an Arity without an upper bound.
const Unlimited = -1

// Arity describes how many values a single occurrence of an option accepts.
type Arity struct {
	Min       int  // values required; 0 means the value is optional
	Max       int  // values accepted; Unlimited for no bound, 0 for none
	Separator rune // splits one raw token into several values; 0 disables
}

// TakesValues reports whether any value may follow the option.
func (a Arity) TakesValues() bool {
	return a.Max != 0
}

// Full reports whether n values exhaust the arity.
func (a Arity) Full(n int) bool {
	return a.Max >= 0 && n >= a.Max
}

// Option is an immutable option definition created by Builder.Build.
type Option struct {
	short       string
	long        string
	aliases     []string
	args        int
	optionalArg bool
	separator   rune
	required    bool
	description string
	argName     string
}

// Short returns the short name without its dash, or "".
func (o *Option) Short() string { return o.short }

// Long returns the long name without its dashes, or "".
func (o *Option) Long() string { return o.long }

// Aliases returns additional names that trigger the option.
func (o *Option) Aliases() []string { return slices.Clone(o.aliases) }

// Args returns NoArgs, a fixed count, or UnlimitedArgs.
func (o *Option) Args() int { return o.args }

// HasArg reports whether the option accepts values.
func (o *Option) HasArg() bool { return o.args != NoArgs }

// HasOptionalArg reports whether zero values are legal for an option with args.
func (o *Option) HasOptionalArg() bool { return o.optionalArg }

// ValueSeparator returns the rune splitting attached values, or 0.
func (o *Option) ValueSeparator() rune { return o.separator }

// Required reports whether the option must appear.
func (o *Option) Required() bool { return o.required }

// Description returns the help text.
func (o *Option) Description() string { return o.description }

// ArgName returns the value placeholder used in help output.
func (o *Option) ArgName() string { return o.argName }

// Key returns the identity of the option: its short name, or its long name.
func (o *Option) Key() string {
	if o.short != "" {
		return o.short
	}
	return o.long
}

// Name returns the preferred trigger, e.g. "-v" or "--verbose".
func (o *Option) Name() string {
	if o.short != "" {
		return "-" + o.short
	}
	return "--" + o.long
}

// Triggers returns every literal token invoking the option.
func (o *Option) Triggers() []string {
	var out []string
	if o.short != "" {
		out = append(out, "-"+o.short)
	}
	if o.long != "" {
		out = append(out, "--"+o.long)
	}
	for _, a := range o.aliases {
		out = append(out, aliasTrigger(a))
	}
	return out
}

// IsProperty reports whether occurrences fold into a key/value property map.
func (o *Option) IsProperty() bool {
	return o.separator != 0 && o.args == 2
}

// Arity returns the per-occurrence value constraints.
func (o *Option) Arity() Arity {
	a := Arity{Max: o.args, Separator: o.separator}
	if o.args != NoArgs && !o.optionalArg {
		a.Min = 1
	}
	return a
}

func (o *Option) String() string {
	return o.Name()
}

func aliasTrigger(name string) string {
	if len([]rune(name)) == 1 {
		return "-" + name
	}
	return "--" + name
}

// Builder assembles an Option. It is a value type: every method returns an
// updated copy, so a partially configured Builder can be reused as a template.
type Builder struct {
	opt Option
}

// NewOption starts an option with the given short and long names; either may be "".
func NewOption(short, long string) Builder {
	return Builder{opt: Option{short: short, long: long}}
}

// NewProperty starts a repeatable -Dkey=value style option.
func NewProperty(short string) Builder {
	return NewOption(short, "").Args(2).ValueSeparator('=').ArgName("property=value")
}

// Desc sets the help text.
func (b Builder) Desc(description string) Builder {
	b.opt.description = description
	return b
}

// Arg makes the option take exactly one value named name.
func (b Builder) Arg(name string) Builder {
	b.opt.args = 1
	b.opt.argName = name
	return b
}

// Args sets the per-occurrence value count: NoArgs, N, or UnlimitedArgs.
func (b Builder) Args(n int) Builder {
	b.opt.args = n
	return b
}

// UnlimitedArgs lets one occurrence take any number of values.
func (b Builder) UnlimitedArgs() Builder {
	b.opt.args = UnlimitedArgs
	return b
}

// OptionalArg allows an option with args to appear without values.
// An option without args is given one optional value.
func (b Builder) OptionalArg() Builder {
	if b.opt.args == NoArgs {
		b.opt.args = 1
	}
	b.opt.optionalArg = true
	return b
}

// ValueSeparator splits attached values on sep, e.g. '=' for -Dkey=value.
func (b Builder) ValueSeparator(sep rune) Builder {
	b.opt.separator = sep
	return b
}

// ArgName sets the value placeholder used in help output.
func (b Builder) ArgName(name string) Builder {
	b.opt.argName = name
	return b
}

// Required marks the option as mandatory.
func (b Builder) Required() Builder {
	b.opt.required = true
	return b
}

// Alias adds more names; single characters become short triggers.
func (b Builder) Alias(names ...string) Builder {
	b.opt.aliases = append(slices.Clone(b.opt.aliases), names...)
	return b
}

// Build validates the definition and returns the immutable Option.
func (b Builder) Build() (*Option, error) {
	o := b.opt
	if o.short == "" && o.long == "" {
		return nil, InvalidOptionError("option needs a short or long name")
	}
	for _, name := range append([]string{o.short, o.long}, o.aliases...) {
		if name == "" {
			continue
		}
		if err := validateName(name); err != nil {
			return nil, err
		}
	}
	if slices.Contains(o.aliases, "") {
		return nil, InvalidOptionError("empty alias for " + o.Name())
	}
	if o.args < UnlimitedArgs {
		return nil, InvalidOptionError("negative argument count for " + o.Name())
	}
	if o.separator != 0 && o.args == NoArgs {
		return nil, InvalidOptionError("value separator without arguments for " + o.Name())
	}
	o.aliases = slices.Clone(o.aliases)
	return &o, nil
}

// MustBuild is Build for static definitions; it panics on invalid input.
func (b Builder) MustBuild() *Option {
	o, err := b.Build()
	if err != nil {
		panic(err)
	}
	return o
}

func validateName(name string) error {
	if strings.HasPrefix(name, "-") {
		return InvalidOptionError("name " + name + " must not start with '-'")
	}
	if strings.HasPrefix(name, "+") {
		return InvalidOptionError("name " + name + " must not start with '+'")
	}
	for _, r := range name {
		if unicode.IsSpace(r) || r == '=' || !unicode.IsPrint(r) {
			return InvalidOptionError("name " + strconv.Quote(name) + " contains an illegal character")
		}
	}
	return nil
}
