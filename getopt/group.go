package getopt

import (
	"strings"
)

// Group is a set of mutually exclusive options: at most one member may be
// given per parse. The member chosen during a parse is recorded in the
// Result, never on the Group.
type Group struct {
	name     string
	members  []*Option
	required bool
}

// NewGroup creates a group; name may be "" to derive one from the members.
func NewGroup(name string, members ...*Option) *Group {
	return &Group{name: name, members: members}
}

// SetRequired marks the group as requiring one selected member.
// Call it before adding the group to a Registry.
func (g *Group) SetRequired(required bool) *Group {
	g.required = required
	return g
}

// Required reports whether one member must be given.
func (g *Group) Required() bool { return g.required }

// Members returns the options in declaration order.
func (g *Group) Members() []*Option {
	out := make([]*Option, len(g.members))
	copy(out, g.members)
	return out
}

// Name returns the group name, or "[-a | -b]" built from its members.
func (g *Group) Name() string {
	if g.name != "" {
		return g.name
	}
	names := make([]string, len(g.members))
	for i, m := range g.members {
		names[i] = m.Name()
	}
	return "[" + strings.Join(names, " | ") + "]"
}

// Contains reports whether o is a member.
func (g *Group) Contains(o *Option) bool {
	for _, m := range g.members {
		if m == o {
			return true
		}
	}
	return false
}

func (g *Group) String() string {
	return g.Name()
}
