package grammar

import (
	"slices"
	"strings"

	"github.com/dzonerzy/go-getopt/getopt"
)

// Grammar is an immutable tree of options, commands, switches, properties
// and groups. Build one with a Builder; parse with Parse or ParseWith.
// A Grammar is safe for concurrent use.
type Grammar struct {
	name  string
	nodes []node
	root  NodeID

	exact map[string]NodeID // trigger -> first node declaring it
	names map[string]string // trigger or name -> result key
	longs []string          // "--name" triggers, declaration order
	props []NodeID
}

func (g *Grammar) node(id NodeID) *node {
	return &g.nodes[id-1]
}

func (g *Grammar) index() error {
	g.exact = make(map[string]NodeID)
	g.names = make(map[string]string)

	for i := range g.nodes {
		id := NodeID(i + 1)
		n := &g.nodes[i]
		if n.kind == KindGroup {
			continue
		}
		if _, ok := g.names[n.key]; !ok {
			g.names[n.key] = n.key
		}
		for _, t := range n.triggers {
			if _, ok := g.exact[t]; !ok {
				g.exact[t] = id
				if strings.HasPrefix(t, "--") {
					g.longs = append(g.longs, t)
				}
			}
			if _, ok := g.names[t]; !ok {
				g.names[t] = n.key
			}
			if bare := strings.TrimLeft(t, "-+"); bare != "" {
				if _, ok := g.names[bare]; !ok {
					g.names[bare] = n.key
				}
			}
		}
		if n.kind == KindProperty {
			g.props = append(g.props, id)
		}
	}

	for i := range g.nodes {
		if g.nodes[i].kind != KindGroup {
			continue
		}
		seen := make(map[string]bool)
		for _, t := range g.scopeTriggers(NodeID(i+1), nil) {
			if seen[t] {
				return getopt.InvalidOptionError("trigger " + t + " appears twice in group " + g.nodes[i].name)
			}
			seen[t] = true
		}
	}
	return nil
}

// scopeTriggers lists the triggers a group can match directly, descending
// into nested groups but not into the children of its members.
func (g *Grammar) scopeTriggers(gid NodeID, out []string) []string {
	for _, m := range g.node(gid).members {
		n := g.node(m)
		if n.kind == KindGroup {
			out = g.scopeTriggers(m, out)
			continue
		}
		out = append(out, n.triggers...)
	}
	return out
}

// Name returns the program name.
func (g *Grammar) Name() string { return g.name }

// Root returns the root group.
func (g *Grammar) Root() NodeID { return g.root }

// Node returns a read-only view of id.
func (g *Grammar) Node(id NodeID) (Node, bool) {
	if id <= None || int(id) > len(g.nodes) {
		return Node{}, false
	}
	n := g.node(id)
	return Node{
		ID:          id,
		Kind:        n.kind,
		Key:         n.key,
		Triggers:    slices.Clone(n.triggers),
		Description: n.desc,
		Required:    n.required,
		Arg:         n.arg.clone(),
		Child:       n.child,
		Option:      n.opt,
		Default:     cloneBool(n.def),
		Prefix:      n.prefix,
		Name:        n.name,
		Members:     slices.Clone(n.members),
		Min:         n.min,
		Max:         n.max,
	}, true
}

// Resolve maps a trigger or name to the key results are stored under.
func (g *Grammar) Resolve(name string) (string, bool) {
	if k, ok := g.names[name]; ok {
		return k, true
	}
	k, ok := g.names[strings.TrimLeft(name, "-+")]
	return k, ok
}

// Lookup implements getopt.Schema. It resolves exact option triggers,
// attached property tokens such as -Dkey=value, and unambiguous long
// prefixes. Command words are not options: a value may equal one.
func (g *Grammar) Lookup(token string) (getopt.Arity, bool) {
	id := g.lookup(token)
	if id == None {
		return getopt.Arity{}, false
	}
	return g.node(id).arg.arity(), true
}

func (g *Grammar) lookup(token string) NodeID {
	if token == "--" || !optionLike(token) {
		return None
	}
	if id, ok := g.exact[token]; ok {
		return id
	}
	for _, id := range g.props {
		if p := g.node(id).prefix; len(token) > len(p) && strings.HasPrefix(token, p) {
			return id
		}
	}
	if strings.HasPrefix(token, "--") {
		var found NodeID
		for _, l := range g.longs {
			if len(l) <= len(token) || !strings.HasPrefix(l, token) {
				continue
			}
			if id := g.exact[l]; found == None || found == id {
				found = id
				continue
			}
			return None
		}
		return found
	}
	return None
}

// triggers returns every trigger in the grammar, for suggestions.
func (g *Grammar) triggers() []string {
	out := make([]string, 0, len(g.exact))
	for i := range g.nodes {
		out = append(out, g.nodes[i].triggers...)
	}
	return out
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
