package getopt

import (
	"strings"

	"github.com/dzonerzy/go-getopt/internal/fuzzy"
)

// suggestDistance is the edit distance used for "did you mean" hints.
const suggestDistance = 2

// Registry is the set of options a Parser recognizes. Build it once, then
// share it: parsing never mutates a Registry, so concurrent parses are safe.
type Registry struct {
	options   []*Option
	short     map[string]*Option
	long      map[string]*Option
	longNames []string // long names and long aliases in insertion order
	groups    []*Group
	groupOf   map[*Option]*Group
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		short:   make(map[string]*Option),
		long:    make(map[string]*Option),
		groupOf: make(map[*Option]*Group),
	}
}

// Add registers options. Names must be unique across short names, long
// names and aliases.
func (r *Registry) Add(opts ...*Option) error {
	for _, o := range opts {
		if err := r.add(o); err != nil {
			return err
		}
	}
	return nil
}

// MustAdd is Add for static definitions; it panics on conflicts.
func (r *Registry) MustAdd(opts ...*Option) *Registry {
	if err := r.Add(opts...); err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) add(o *Option) error {
	if o == nil {
		return InvalidOptionError("nil option")
	}
	if r.contains(o) {
		return nil
	}
	if err := r.checkNames(o, nil); err != nil {
		return err
	}
	r.insert(o)
	return nil
}

// checkNames reports a name of o that is already registered or, when taken
// is non-nil, already claimed by another option being added in the same call.
func (r *Registry) checkNames(o *Option, taken map[string]*Option) error {
	names := []string{o.short, o.long}
	names = append(names, o.aliases...)
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := r.short[n]; ok {
			return InvalidOptionError("duplicate option name " + n)
		}
		if _, ok := r.long[n]; ok {
			return InvalidOptionError("duplicate option name " + n)
		}
		if taken == nil {
			continue
		}
		if other, ok := taken[n]; ok && other != o {
			return InvalidOptionError("duplicate option name " + n)
		}
		taken[n] = o
	}
	return nil
}

func (r *Registry) insert(o *Option) {
	if o.short != "" {
		r.short[o.short] = o
	}
	if o.long != "" {
		r.long[o.long] = o
		r.longNames = append(r.longNames, o.long)
	}
	for _, a := range o.aliases {
		if len([]rune(a)) == 1 {
			r.short[a] = o
			continue
		}
		r.long[a] = o
		r.longNames = append(r.longNames, a)
	}
	r.options = append(r.options, o)
}

func (r *Registry) contains(o *Option) bool {
	if o.short != "" {
		return r.short[o.short] == o
	}
	return r.long[o.long] == o
}

// AddGroup registers a group and its members. A member's own required flag
// is superseded by the group's. On error the registry is unchanged.
func (r *Registry) AddGroup(g *Group) error {
	if g == nil || len(g.members) == 0 {
		return InvalidOptionError("group needs at least one member")
	}
	taken := make(map[string]*Option)
	for _, m := range g.members {
		if m == nil {
			return InvalidOptionError("nil option")
		}
		if owner, ok := r.groupOf[m]; ok && owner != g {
			return InvalidOptionError("option " + m.Name() + " already belongs to group " + owner.Name())
		}
		if r.contains(m) {
			continue
		}
		if err := r.checkNames(m, taken); err != nil {
			return err
		}
	}
	for _, m := range g.members {
		if !r.contains(m) {
			r.insert(m)
		}
		r.groupOf[m] = g
	}
	for _, existing := range r.groups {
		if existing == g {
			return nil
		}
	}
	r.groups = append(r.groups, g)
	return nil
}

// MustAddGroup is AddGroup for static definitions; it panics on conflicts.
func (r *Registry) MustAddGroup(g *Group) *Registry {
	if err := r.AddGroup(g); err != nil {
		panic(err)
	}
	return r
}

// Options returns every option in insertion order.
func (r *Registry) Options() []*Option {
	out := make([]*Option, len(r.options))
	copy(out, r.options)
	return out
}

// Groups returns the registered groups in insertion order.
func (r *Registry) Groups() []*Group {
	out := make([]*Group, len(r.groups))
	copy(out, r.groups)
	return out
}

// GroupOf returns the group owning o, or nil.
func (r *Registry) GroupOf(o *Option) *Group {
	return r.groupOf[o]
}

// Required returns the required options outside groups, in insertion order.
func (r *Registry) Required() []*Option {
	var out []*Option
	for _, o := range r.options {
		if o.required && r.groupOf[o] == nil {
			out = append(out, o)
		}
	}
	return out
}

// RequiredGroups returns the required groups in insertion order.
func (r *Registry) RequiredGroups() []*Group {
	var out []*Group
	for _, g := range r.groups {
		if g.required {
			out = append(out, g)
		}
	}
	return out
}

// LongNames returns long names and long aliases in insertion order.
func (r *Registry) LongNames() []string {
	out := make([]string, len(r.longNames))
	copy(out, r.longNames)
	return out
}

// Option finds an option by short name, long name or alias, with or
// without leading dashes.
func (r *Registry) Option(name string) *Option {
	name = strings.TrimLeft(name, "-")
	if o := r.short[name]; o != nil {
		return o
	}
	return r.long[name]
}

// Has reports whether name identifies a registered option.
func (r *Registry) Has(name string) bool {
	return r.Option(name) != nil
}

// Resolve maps any name or trigger to the option key results are stored under.
func (r *Registry) Resolve(name string) (string, bool) {
	if o := r.Option(name); o != nil {
		return o.Key(), true
	}
	return "", false
}

// Lookup reports the arity of the option token invokes. It accepts exact
// triggers and unambiguous long prefixes and never returns an error.
func (r *Registry) Lookup(token string) (Arity, bool) {
	o := r.resolve(token)
	if o == nil {
		return Arity{}, false
	}
	return o.Arity(), true
}

func (r *Registry) resolve(token string) *Option {
	switch {
	case token == "-" || token == "--" || !strings.HasPrefix(token, "-"):
		return nil
	case strings.HasPrefix(token, "--"):
		name := token[2:]
		if o := r.long[name]; o != nil {
			return o
		}
		if opts, _ := r.prefixMatches(name); len(opts) == 1 {
			return opts[0]
		}
		return nil
	default:
		name := token[1:]
		if o := r.short[name]; o != nil {
			return o
		}
		return r.long[name]
	}
}

// Match resolves token to an option. Double-dash tokens match a long name
// exactly or by unambiguous prefix; single-dash tokens match a short name,
// falling back to an exact long name.
func (r *Registry) Match(token string) (*Option, error) {
	if token == "-" || token == "--" || !strings.HasPrefix(token, "-") {
		return nil, UnrecognizedOptionError(token, "")
	}

	if strings.HasPrefix(token, "--") {
		name := token[2:]
		if o := r.long[name]; o != nil {
			return o, nil
		}
		opts, names := r.prefixMatches(name)
		switch len(opts) {
		case 0:
			return nil, UnrecognizedOptionError(token, r.suggest(name))
		case 1:
			return opts[0], nil
		default:
			return nil, AmbiguousOptionError(token, names)
		}
	}

	name := token[1:]
	if o := r.short[name]; o != nil {
		return o, nil
	}
	if o := r.long[name]; o != nil {
		return o, nil
	}
	return nil, UnrecognizedOptionError(token, r.suggest(name))
}

// prefixMatches returns the distinct options whose long names strictly
// extend prefix, and the matching names, in insertion order.
func (r *Registry) prefixMatches(prefix string) ([]*Option, []string) {
	if prefix == "" {
		return nil, nil
	}
	var opts []*Option
	var names []string
	for _, n := range r.longNames {
		if len(n) <= len(prefix) || !strings.HasPrefix(n, prefix) {
			continue
		}
		names = append(names, n)
		o := r.long[n]
		dup := false
		for _, seen := range opts {
			if seen == o {
				dup = true
				break
			}
		}
		if !dup {
			opts = append(opts, o)
		}
	}
	return opts, names
}

func (r *Registry) suggest(name string) string {
	candidates := make([]string, 0, len(r.short)+len(r.long))
	for _, o := range r.options {
		candidates = append(candidates, o.Triggers()...)
	}
	for i, c := range candidates {
		candidates[i] = strings.TrimLeft(c, "-")
	}
	best := fuzzy.Suggest(name, candidates, suggestDistance)
	if best == "" {
		return ""
	}
	if _, ok := r.short[best]; ok {
		return "-" + best
	}
	return "--" + best
}
