// Package help renders usage and help text for getopt registries and
// grammar trees, and translates parse errors into localized messages.
//
// A Formatter only reads the finished option model. It never parses.
//
//	f := help.New(optio.New())
//	_ = f.PrintHelp("tar", reg)
package help

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/dzonerzy/go-getopt/getopt"
	optio "github.com/dzonerzy/go-getopt/io"
)

// Defaults used by New.
const (
	DefaultLeftPad = 2
	DefaultDescPad = 3
	DefaultArgName = "arg"
	minDescWidth   = 20
)

// Order controls the order options are listed in.
type Order int

const (
	// OrderSorted lists options by key, case-insensitively.
	OrderSorted Order = iota
	// OrderInsertion keeps registration order.
	OrderInsertion
)

// Formatter writes usage and help text through an IOManager.
type Formatter struct {
	io      *optio.IOManager
	theme   optio.Theme
	width   int
	leftPad int
	descPad int
	argName string
	order   Order
	header  string
	footer  string
}

// New returns a Formatter with sorted options, writing to io.Out.
func New(io *optio.IOManager) *Formatter {
	return &Formatter{
		io:      io,
		theme:   optio.DefaultTheme(),
		leftPad: DefaultLeftPad,
		descPad: DefaultDescPad,
		argName: DefaultArgName,
	}
}

// WithWidth fixes the line width instead of asking the IOManager.
func (f *Formatter) WithWidth(w int) *Formatter { f.width = w; return f }

// WithOrder selects the option order.
func (f *Formatter) WithOrder(o Order) *Formatter { f.order = o; return f }

// WithTheme sets the color theme.
func (f *Formatter) WithTheme(t optio.Theme) *Formatter { f.theme = t; return f }

// WithHeader sets text printed between the usage line and the options.
func (f *Formatter) WithHeader(s string) *Formatter { f.header = s; return f }

// WithFooter sets text printed after the options.
func (f *Formatter) WithFooter(s string) *Formatter { f.footer = s; return f }

// WithArgName sets the placeholder for values of options without an ArgName.
func (f *Formatter) WithArgName(s string) *Formatter { f.argName = s; return f }

func (f *Formatter) lineWidth() int {
	if f.width > 0 {
		return f.width
	}
	return f.io.Width()
}

// PrintUsage writes the one-line synopsis of reg.
func (f *Formatter) PrintUsage(prog string, reg *getopt.Registry) error {
	var b strings.Builder
	f.writeUsage(&b, prog, reg)
	return f.flush(&b)
}

// PrintHelp writes the synopsis, header, option table, group notes and footer.
func (f *Formatter) PrintHelp(prog string, reg *getopt.Registry) error {
	var b strings.Builder
	f.writeUsage(&b, prog, reg)
	if f.header != "" {
		b.WriteString(wrap(f.header, f.lineWidth(), 0, 0))
		b.WriteByte('\n')
	}

	opts := f.ordered(reg.Options())
	if len(opts) > 0 {
		b.WriteByte('\n')
		b.WriteString(f.io.Sprint(f.theme.Heading, "Options:"))
		b.WriteByte('\n')
		rows := make([]row, 0, len(opts))
		for _, o := range opts {
			rows = append(rows, row{left: f.optionColumn(o), desc: f.optionDesc(o, o.Required() && reg.GroupOf(o) == nil)})
		}
		f.writeRows(&b, rows)
	}

	if notes := f.groupNotes(reg); len(notes) > 0 {
		b.WriteByte('\n')
		b.WriteString(f.io.Sprint(f.theme.Heading, "Groups:"))
		b.WriteByte('\n')
		f.writeRows(&b, notes)
	}

	if f.footer != "" {
		b.WriteByte('\n')
		b.WriteString(wrap(f.footer, f.lineWidth(), 0, 0))
		b.WriteByte('\n')
	}
	return f.flush(&b)
}

func (f *Formatter) flush(b *strings.Builder) error {
	_, err := f.io.Out().Write([]byte(b.String()))
	return err
}

func (f *Formatter) ordered(opts []*getopt.Option) []*getopt.Option {
	if f.order == OrderSorted {
		slices.SortStableFunc(opts, func(a, b *getopt.Option) int {
			return cmp.Compare(strings.ToLower(a.Key()), strings.ToLower(b.Key()))
		})
	}
	return opts
}

// writeUsage renders "usage: prog [-a] -b <file> [-c | -d]". Options are
// listed in insertion order; a group is shown where its first member was
// registered.
func (f *Formatter) writeUsage(b *strings.Builder, prog string, reg *getopt.Registry) {
	parts := []string{}
	done := make(map[*getopt.Group]bool)
	for _, o := range reg.Options() {
		g := reg.GroupOf(o)
		if g == nil {
			parts = append(parts, f.usageTerm(o, o.Required()))
			continue
		}
		if done[g] {
			continue
		}
		done[g] = true
		members := g.Members()
		alts := make([]string, 0, len(members))
		for _, m := range members {
			alts = append(alts, f.usageTerm(m, true))
		}
		body := strings.Join(alts, " | ")
		if g.Required() {
			parts = append(parts, "("+body+")")
		} else {
			parts = append(parts, "["+body+"]")
		}
	}

	lead := "usage: " + prog
	line := lead
	if len(parts) > 0 {
		line += " " + strings.Join(parts, " ")
	}
	b.WriteString(f.io.Sprint(f.theme.Heading, "usage:"))
	b.WriteString(strings.TrimPrefix(wrap(line, f.lineWidth(), 0, len(lead)+1), "usage:"))
	b.WriteByte('\n')
}

func (f *Formatter) usageTerm(o *getopt.Option, bare bool) string {
	term := "--" + o.Long()
	if o.Short() != "" {
		term = "-" + o.Short()
	}
	if arg := f.argument(o); arg != "" {
		if o.IsProperty() {
			term += arg
		} else {
			term += " " + arg
		}
	}
	if bare {
		return term
	}
	return "[" + term + "]"
}

// argument renders the value placeholder: <name>, [<name>] or <name>...
func (f *Formatter) argument(o *getopt.Option) string {
	if !o.HasArg() {
		return ""
	}
	name := o.ArgName()
	if name == "" {
		name = f.argName
	}
	arg := "<" + name + ">"
	if o.Args() == getopt.UnlimitedArgs || o.Args() > 1 && !o.IsProperty() {
		arg += "..."
	}
	if o.HasOptionalArg() {
		arg = "[" + arg + "]"
	}
	return arg
}

func (f *Formatter) optionColumn(o *getopt.Option) string {
	var b strings.Builder
	switch {
	case o.Short() != "" && o.Long() != "":
		b.WriteString(f.io.Sprint(f.theme.Flag, "-"+o.Short()))
		b.WriteString(", ")
		b.WriteString(f.io.Sprint(f.theme.Flag, "--"+o.Long()))
	case o.Short() != "":
		b.WriteString(f.io.Sprint(f.theme.Flag, "-"+o.Short()))
	default:
		b.WriteString("    ")
		b.WriteString(f.io.Sprint(f.theme.Flag, "--"+o.Long()))
	}
	if arg := f.argument(o); arg != "" {
		if !o.IsProperty() {
			b.WriteByte(' ')
		}
		b.WriteString(f.io.Sprint(f.theme.Placeholder, arg))
	}
	return b.String()
}

func (f *Formatter) optionDesc(o *getopt.Option, required bool) string {
	desc := o.Description()
	if aliases := o.Aliases(); len(aliases) > 0 {
		desc = appendNote(desc, "aliases: "+strings.Join(aliases, ", "))
	}
	if required {
		desc = appendNote(desc, "required")
	}
	return desc
}

func (f *Formatter) groupNotes(reg *getopt.Registry) []row {
	var rows []row
	for _, g := range reg.Groups() {
		note := "at most one of these options may be given"
		if g.Required() {
			note = "exactly one of these options is required"
		}
		rows = append(rows, row{left: g.Name(), desc: note})
	}
	return rows
}

func appendNote(desc, note string) string {
	if desc == "" {
		return "(" + note + ")"
	}
	return desc + " (" + note + ")"
}

// row is one line of a two-column table. left may carry color codes.
type row struct {
	left string
	desc string
}

// writeRows aligns descriptions one column past the widest left cell and
// wraps them to the line width.
func (f *Formatter) writeRows(b *strings.Builder, rows []row) {
	col := 0
	for _, r := range rows {
		col = max(col, displayWidth(r.left))
	}
	indent := f.leftPad + col + f.descPad
	width := f.lineWidth()
	if width-indent < minDescWidth {
		width = indent + minDescWidth
	}

	pad := strings.Repeat(" ", f.leftPad)
	for _, r := range rows {
		b.WriteString(pad)
		b.WriteString(r.left)
		if r.desc != "" {
			b.WriteString(strings.Repeat(" ", indent-f.leftPad-displayWidth(r.left)))
			b.WriteString(wrap(r.desc, width, indent, indent))
		}
		b.WriteByte('\n')
	}
}

func arityLabel(lo, hi int) string {
	switch {
	case hi == getopt.Unlimited || hi == 0:
		return "at least " + strconv.Itoa(lo)
	case lo == hi:
		return "exactly " + strconv.Itoa(lo)
	default:
		return strconv.Itoa(lo) + " to " + strconv.Itoa(hi)
	}
}
