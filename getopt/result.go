package getopt

import (
	"maps"
	"slices"
	"strings"
)

// Resolver maps a name or trigger to the key a Result stores values under.
// Registry implements it, as does grammar.Grammar.
type Resolver interface {
	Resolve(name string) (key string, ok bool)
}

// Result is the outcome of one parse. It is created fresh for every call and
// never shared with the schema it was parsed against.
//
// Accessors accept any name of an option: "v", "-v", "--verbose" or an alias.
type Result struct {
	resolver Resolver

	values   map[string][]string
	counts   map[string]int
	order    []string
	args     []string
	props    map[string]map[string]string
	switches map[string]bool
	selected map[*Group]string
}

// NewResult creates an empty result resolving names through res (may be nil).
func NewResult(res Resolver) *Result {
	return &Result{
		resolver: res,
		values:   make(map[string][]string),
		counts:   make(map[string]int),
		props:    make(map[string]map[string]string),
		switches: make(map[string]bool),
		selected: make(map[*Group]string),
	}
}

func (r *Result) key(name string) string {
	if r.resolver != nil {
		if k, ok := r.resolver.Resolve(name); ok {
			return k
		}
	}
	return strings.TrimLeft(name, "-+")
}

// AddOption records one occurrence of the option stored under key.
func (r *Result) AddOption(key string) {
	if r.counts[key] == 0 {
		r.order = append(r.order, key)
	}
	r.counts[key]++
	if _, ok := r.values[key]; !ok {
		r.values[key] = nil
	}
}

// AddValues appends values to key.
func (r *Result) AddValues(key string, values ...string) {
	r.values[key] = append(r.values[key], values...)
}

// AddArg appends positional arguments.
func (r *Result) AddArg(args ...string) {
	r.args = append(r.args, args...)
}

// SetProperty stores name=value in the property map of key.
func (r *Result) SetProperty(key, name, value string) {
	m := r.props[key]
	if m == nil {
		m = make(map[string]string)
		r.props[key] = m
	}
	m[name] = value
}

// SetSwitch sets the switch stored under key. A switch may be set once per
// parse; a second call fails with ErrSwitchAlreadySet.
func (r *Result) SetSwitch(key string, on bool) error {
	if _, ok := r.switches[key]; ok {
		return SwitchAlreadySetError(key)
	}
	r.switches[key] = on
	return nil
}

func (r *Result) setSelected(g *Group, key string) {
	r.selected[g] = key
}

// Has reports whether the option appeared at least once.
func (r *Result) Has(name string) bool {
	return r.counts[r.key(name)] > 0
}

// Count returns how many times the option appeared.
func (r *Result) Count(name string) int {
	return r.counts[r.key(name)]
}

// Value returns the first value of the option.
func (r *Result) Value(name string) (string, bool) {
	v := r.values[r.key(name)]
	if len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// ValueOr returns the first value of the option, or def.
func (r *Result) ValueOr(name, def string) string {
	if v, ok := r.Value(name); ok {
		return v
	}
	return def
}

// Values returns every value of the option across all occurrences.
// An option present without values yields an empty, non-nil slice, as does
// a property option: its pairs are only in Properties.
func (r *Result) Values(name string) []string {
	k := r.key(name)
	v, ok := r.values[k]
	if !ok {
		return nil
	}
	if v == nil {
		return []string{}
	}
	return slices.Clone(v)
}

// Args returns the positional arguments in order.
func (r *Result) Args() []string {
	return slices.Clone(r.args)
}

// Properties returns a copy of the property map of the option.
func (r *Result) Properties(name string) map[string]string {
	m := r.props[r.key(name)]
	if m == nil {
		return map[string]string{}
	}
	return maps.Clone(m)
}

// Property returns one property of the option.
func (r *Result) Property(name, prop string) (string, bool) {
	v, ok := r.props[r.key(name)][prop]
	return v, ok
}

// Switch returns the switch value and whether it was set.
func (r *Result) Switch(name string) (on, set bool) {
	on, set = r.switches[r.key(name)]
	return on, set
}

// Keys returns the keys of the options that appeared, in first-seen order.
func (r *Result) Keys() []string {
	return slices.Clone(r.order)
}

// Selected returns the key of the member chosen from g.
func (r *Result) Selected(g *Group) (string, bool) {
	k, ok := r.selected[g]
	return k, ok
}
