package grammar

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/dzonerzy/go-getopt/getopt"
)

// DefaultPropertyPrefix is used when PropertyDef.Prefix is empty.
const DefaultPropertyPrefix = "-D"

// OptionDef declares a dash option.
type OptionDef struct {
	Short    string
	Long     string
	Aliases  []string
	Desc     string
	Required bool
	Arg      *ArgDef
	Children NodeID // group processed after the option
}

// CommandDef declares a subcommand triggered by a bare word.
type CommandDef struct {
	Name     string
	Aliases  []string
	Desc     string
	Required bool
	Arg      *ArgDef
	Children NodeID
}

// SwitchDef declares a +name/-name pair sharing one boolean.
type SwitchDef struct {
	Name     string
	Short    string // optional single character, giving +x/-x
	Desc     string
	Required bool
	Default  *bool // stored when the enclosing group is processed but the switch is absent
}

// PropertyDef declares a repeatable -Dkey=value option.
type PropertyDef struct {
	Prefix   string // defaults to "-D"
	Desc     string
	Required bool
}

// GroupDef declares a group. Members must already exist and belong to no
// other group. Max 1 makes the members mutually exclusive; 0 means no limit.
type GroupDef struct {
	Name     string
	Desc     string
	Members  []NodeID
	Min      int
	Max      int
	Required bool // shorthand for Min 1
}

// Builder assembles a Grammar bottom-up: members first, then the group
// holding them, then the node owning the group. Nodes can only refer to
// nodes created before them, so every grammar is a tree.
//
// The first definition error is kept and returned by Build; later calls
// are ignored and return None.
type Builder struct {
	name  string
	nodes []node
	err   error
}

// NewBuilder starts a grammar for the program called name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// Err returns the first definition error.
func (b *Builder) Err() error { return b.err }

func (b *Builder) fail(format string, args ...any) NodeID {
	if b.err == nil {
		b.err = getopt.InvalidOptionError(fmt.Sprintf(format, args...))
	}
	return None
}

func (b *Builder) push(n node) NodeID {
	b.nodes = append(b.nodes, n)
	return NodeID(len(b.nodes))
}

func (b *Builder) get(id NodeID) *node {
	if id <= None || int(id) > len(b.nodes) {
		return nil
	}
	return &b.nodes[id-1]
}

// Option adds a dash option.
func (b *Builder) Option(def OptionDef) NodeID {
	if b.err != nil {
		return None
	}
	ob := getopt.NewOption(def.Short, def.Long).Alias(def.Aliases...).Desc(def.Desc)
	if def.Required {
		ob = ob.Required()
	}
	if a := def.Arg; a != nil {
		if err := checkArg(a); err != nil {
			return b.fail("option %s: %v", displayName(def.Short, def.Long), err)
		}
		ob = ob.Args(a.Max).ArgName(a.Name)
		if a.Min == 0 {
			ob = ob.OptionalArg()
		}
		if a.Separator != 0 {
			ob = ob.ValueSeparator(a.Separator)
		}
	}
	opt, err := ob.Build()
	if err != nil {
		b.err = err
		return None
	}

	n := node{
		kind:     KindOption,
		key:      opt.Key(),
		triggers: opt.Triggers(),
		desc:     def.Desc,
		required: def.Required,
		arg:      def.Arg.clone(),
		opt:      opt,
	}
	return b.withChildren(n, def.Children)
}

// Command adds a subcommand.
func (b *Builder) Command(def CommandDef) NodeID {
	if b.err != nil {
		return None
	}
	for _, name := range append([]string{def.Name}, def.Aliases...) {
		if err := checkWord(name); err != nil {
			return b.fail("command %q: %v", def.Name, err)
		}
	}
	if def.Arg != nil {
		if err := checkArg(def.Arg); err != nil {
			return b.fail("command %s: %v", def.Name, err)
		}
	}

	n := node{
		kind:     KindCommand,
		key:      def.Name,
		triggers: append([]string{def.Name}, def.Aliases...),
		desc:     def.Desc,
		required: def.Required,
		arg:      def.Arg.clone(),
	}
	return b.withChildren(n, def.Children)
}

// Switch adds a +name/-name switch.
func (b *Builder) Switch(def SwitchDef) NodeID {
	if b.err != nil {
		return None
	}
	if def.Name == "" {
		return b.fail("switch needs a name")
	}
	if _, err := getopt.NewOption(def.Short, def.Name).Build(); err != nil {
		b.err = err
		return None
	}

	triggers := []string{"+" + def.Name, "-" + def.Name}
	if def.Short != "" {
		triggers = append(triggers, "+"+def.Short, "-"+def.Short)
	}
	n := node{
		kind:     KindSwitch,
		key:      def.Name,
		triggers: triggers,
		desc:     def.Desc,
		required: def.Required,
	}
	if def.Default != nil {
		v := *def.Default
		n.def = &v
	}
	return b.push(n)
}

// Property adds a property option.
func (b *Builder) Property(def PropertyDef) NodeID {
	if b.err != nil {
		return None
	}
	prefix := def.Prefix
	if prefix == "" {
		prefix = DefaultPropertyPrefix
	}
	key := strings.TrimLeft(prefix, "-")
	if !strings.HasPrefix(prefix, "-") || key == "" {
		return b.fail("property prefix %q must be a dash followed by a name", prefix)
	}
	if err := checkWord(key); err != nil {
		return b.fail("property prefix %q: %v", prefix, err)
	}

	return b.push(node{
		kind:     KindProperty,
		key:      key,
		triggers: []string{prefix},
		desc:     def.Desc,
		required: def.Required,
		prefix:   prefix,
		arg:      &ArgDef{Name: "property=value", Min: 1, Max: 2, Separator: '='},
	})
}

// Group adds a group of existing, unowned members.
func (b *Builder) Group(def GroupDef) NodeID {
	if b.err != nil {
		return None
	}
	if def.Name == "" {
		return b.fail("group needs a name")
	}
	if len(def.Members) == 0 {
		return b.fail("group %s needs at least one member", def.Name)
	}
	lo := def.Min
	if def.Required && lo == 0 {
		lo = 1
	}
	if lo < 0 || def.Max < 0 || (def.Max > 0 && lo > def.Max) {
		return b.fail("group %s: invalid bounds min %d max %d", def.Name, lo, def.Max)
	}

	id := NodeID(len(b.nodes) + 1)
	seen := make(map[NodeID]bool, len(def.Members))
	for _, m := range def.Members {
		n := b.get(m)
		switch {
		case n == nil:
			return b.fail("group %s: unknown member %d", def.Name, m)
		case seen[m]:
			return b.fail("group %s: %s listed twice", def.Name, n.key)
		case n.parent != None:
			return b.fail("group %s: %s already belongs to another group", def.Name, n.key)
		}
		seen[m] = true
	}
	for _, m := range def.Members {
		b.get(m).parent = id
	}

	return b.push(node{
		kind:     KindGroup,
		key:      def.Name,
		name:     def.Name,
		desc:     def.Desc,
		required: lo > 0,
		members:  slices.Clone(def.Members),
		min:      lo,
		max:      def.Max,
	})
}

func (b *Builder) withChildren(n node, children NodeID) NodeID {
	if children != None {
		c := b.get(children)
		switch {
		case c == nil || c.kind != KindGroup:
			return b.fail("%s: children must be a group", n.key)
		case c.parent != None:
			return b.fail("%s: group %s already has an owner", n.key, c.name)
		}
		n.child = children
	}
	id := b.push(n)
	if children != None {
		b.get(children).parent = id
	}
	return id
}

// Build validates the tree rooted at the group root and returns the grammar.
func (b *Builder) Build(root NodeID) (*Grammar, error) {
	if b.err != nil {
		return nil, b.err
	}
	r := b.get(root)
	if r == nil || r.kind != KindGroup {
		return nil, getopt.InvalidOptionError("grammar root must be a group")
	}
	if r.parent != None {
		return nil, getopt.InvalidOptionError("grammar root " + r.name + " is owned by another node")
	}
	for i := range b.nodes {
		id := NodeID(i + 1)
		if id != root && b.nodes[i].parent == None {
			return nil, getopt.InvalidOptionError(b.nodes[i].key + " is not reachable from the root group")
		}
	}

	g := &Grammar{
		name:  b.name,
		nodes: make([]node, len(b.nodes)),
		root:  root,
	}
	for i, n := range b.nodes {
		n.triggers = slices.Clone(n.triggers)
		n.members = slices.Clone(n.members)
		g.nodes[i] = n
	}
	if err := g.index(); err != nil {
		return nil, err
	}
	return g, nil
}

// MustBuild is Build for static grammars; it panics on definition errors.
func (b *Builder) MustBuild(root NodeID) *Grammar {
	g, err := b.Build(root)
	if err != nil {
		panic(err)
	}
	return g
}

func checkArg(a *ArgDef) error {
	switch {
	case a.Min < 0:
		return fmt.Errorf("negative minimum")
	case a.Max == 0 || a.Max < getopt.Unlimited:
		return fmt.Errorf("argument %s accepts no values", a.Name)
	case a.Max != getopt.Unlimited && a.Max < a.Min:
		return fmt.Errorf("maximum %d below minimum %d", a.Max, a.Min)
	}
	return nil
}

func checkWord(w string) error {
	if w == "" {
		return fmt.Errorf("empty name")
	}
	if strings.HasPrefix(w, "-") || strings.HasPrefix(w, "+") {
		return fmt.Errorf("name %s must not start with a dash or plus", w)
	}
	for _, r := range w {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return fmt.Errorf("name %q contains an illegal character", w)
		}
	}
	return nil
}

func displayName(short, long string) string {
	if short != "" {
		return "-" + short
	}
	return "--" + long
}
