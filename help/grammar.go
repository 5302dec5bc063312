package help

import (
	"strconv"
	"strings"

	"github.com/dzonerzy/go-getopt/getopt"
	"github.com/dzonerzy/go-getopt/grammar"
)

// PrintGrammar writes help for a grammar tree: a synopsis, the root
// options, group constraints, and every command with its own options
// indented below it.
func (f *Formatter) PrintGrammar(g *grammar.Grammar) error {
	var b strings.Builder
	s := f.collect(g, g.Root())

	lead := "usage: " + g.Name()
	line := lead
	if len(s.rows) > 0 {
		line += " [options]"
	}
	switch {
	case len(s.commands) > 0 && s.commandRequired:
		line += " <command>"
	case len(s.commands) > 0:
		line += " [command]"
	}
	line += " [args...]"
	b.WriteString(f.io.Sprint(f.theme.Heading, "usage:"))
	b.WriteString(strings.TrimPrefix(wrap(line, f.lineWidth(), 0, len(lead)+1), "usage:"))
	b.WriteByte('\n')

	if f.header != "" {
		b.WriteString(wrap(f.header, f.lineWidth(), 0, 0))
		b.WriteByte('\n')
	}
	f.writeScope(&b, g, s, 0)
	if f.footer != "" {
		b.WriteByte('\n')
		b.WriteString(wrap(f.footer, f.lineWidth(), 0, 0))
		b.WriteByte('\n')
	}
	return f.flush(&b)
}

// scope is the help content of one group: its leaves flattened through
// nested groups.
type scope struct {
	rows            []row
	notes           []row
	commands        []grammar.Node
	commandRequired bool
}

func (f *Formatter) collect(g *grammar.Grammar, gid grammar.NodeID) scope {
	var s scope
	f.collectInto(g, gid, &s, false)
	return s
}

func (f *Formatter) collectInto(g *grammar.Grammar, gid grammar.NodeID, s *scope, nested bool) {
	gn, _ := g.Node(gid)
	if nested || gn.Min > 0 || gn.Max > 0 {
		if note := groupNote(g, gn); note.desc != "" {
			s.notes = append(s.notes, note)
		}
	}
	for _, id := range gn.Members {
		n, _ := g.Node(id)
		switch n.Kind {
		case grammar.KindGroup:
			f.collectInto(g, id, s, true)
		case grammar.KindCommand:
			s.commands = append(s.commands, n)
			if n.Required || gn.Min > 0 {
				s.commandRequired = true
			}
		default:
			s.rows = append(s.rows, row{left: f.nodeColumn(n), desc: nodeDesc(n)})
		}
	}
}

func (f *Formatter) writeScope(b *strings.Builder, g *grammar.Grammar, s scope, depth int) {
	saved := f.leftPad
	if depth > 0 {
		f.leftPad = saved + 4
	}
	defer func() { f.leftPad = saved }()

	heading := func(title string) {
		if depth == 0 {
			b.WriteByte('\n')
			b.WriteString(f.io.Sprint(f.theme.Heading, title))
			b.WriteByte('\n')
		}
	}
	if len(s.rows) > 0 {
		heading("Options:")
		f.writeRows(b, s.rows)
	}
	if len(s.notes) > 0 {
		heading("Groups:")
		f.writeRows(b, s.notes)
	}
	if len(s.commands) == 0 {
		return
	}
	heading("Commands:")
	for _, c := range s.commands {
		f.writeRows(b, []row{{left: f.nodeColumn(c), desc: nodeDesc(c)}})
		if c.Child != grammar.None {
			f.writeScope(b, g, f.collect(g, c.Child), depth+1)
		}
	}
}

func (f *Formatter) nodeColumn(n grammar.Node) string {
	var left string
	switch n.Kind {
	case grammar.KindCommand:
		left = f.io.Sprint(f.theme.Primary, strings.Join(n.Triggers, ", "))
	case grammar.KindProperty:
		left = f.io.Sprint(f.theme.Flag, n.Prefix) + f.io.Sprint(f.theme.Placeholder, "<key=value>")
		return left
	default:
		parts := make([]string, len(n.Triggers))
		for i, t := range n.Triggers {
			parts[i] = f.io.Sprint(f.theme.Flag, t)
		}
		left = strings.Join(parts, ", ")
	}
	if arg := f.nodeArgument(n.Arg); arg != "" {
		left += " " + f.io.Sprint(f.theme.Placeholder, arg)
	}
	return left
}

func (f *Formatter) nodeArgument(a *grammar.ArgDef) string {
	if a == nil || a.Max == 0 {
		return ""
	}
	name := a.Name
	if name == "" {
		name = f.argName
	}
	arg := "<" + name + ">"
	if a.Max == getopt.Unlimited || a.Max > 1 {
		arg += "..."
	}
	if a.Min == 0 {
		arg = "[" + arg + "]"
	}
	return arg
}

func nodeDesc(n grammar.Node) string {
	desc := n.Description
	if n.Kind == grammar.KindSwitch && n.Default != nil {
		state := "off"
		if *n.Default {
			state = "on"
		}
		desc = appendNote(desc, "default: "+state)
	}
	if n.Arg != nil && len(n.Arg.Defaults) > 0 {
		desc = appendNote(desc, "default: "+strings.Join(n.Arg.Defaults, ","))
	}
	if n.Required {
		desc = appendNote(desc, "required")
	}
	return desc
}

// groupNote describes the bounds of a group, e.g. "speed: at most 1 of
// --fast, --slow".
func groupNote(g *grammar.Grammar, gn grammar.Node) row {
	var members []string
	for _, id := range gn.Members {
		if n, ok := g.Node(id); ok {
			if n.Kind == grammar.KindGroup {
				members = append(members, n.Name)
			} else {
				members = append(members, n.Triggers[0])
			}
		}
	}
	var bound string
	switch {
	case gn.Min == 0 && gn.Max == 0:
		return row{}
	case gn.Min == 0:
		bound = "at most " + strconv.Itoa(gn.Max)
	default:
		bound = arityLabel(gn.Min, gn.Max)
	}
	desc := bound + " of " + strings.Join(members, ", ")
	if gn.Description != "" {
		desc = gn.Description + " (" + desc + ")"
	}
	return row{left: gn.Name, desc: desc}
}
