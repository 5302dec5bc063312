package grammar

import (
	"slices"
	"strings"

	"github.com/dzonerzy/go-getopt/getopt"
	"github.com/dzonerzy/go-getopt/internal/fuzzy"
)

// suggestDistance is the edit distance used for "did you mean" hints.
const suggestDistance = 2

// Parse parses args with POSIX flattening.
func (g *Grammar) Parse(args []string) (*getopt.Result, error) {
	return g.ParseWith(getopt.DialectPOSIX, args)
}

// ParseWith flattens args with dialect d and walks the tree from the root
// group. Each node consumes its trigger and values, then hands the stream to
// its child group, if any. Tokens no group claims become positional
// arguments when they are bare words and an UnrecognizedOption otherwise.
func (g *Grammar) ParseWith(d getopt.Dialect, args []string) (*getopt.Result, error) {
	p := &processor{
		g:      g,
		res:    getopt.NewResult(g),
		tokens: getopt.Flatten(d, g, args, false),
		seen:   make(map[NodeID]bool),
		chosen: make(map[NodeID][]NodeID),
	}
	if err := p.group(g.root, true); err != nil {
		return nil, err
	}
	if err := p.check(); err != nil {
		return nil, err
	}
	return p.res, nil
}

// processor holds the state of one parse.
type processor struct {
	g       *Grammar
	res     *getopt.Result
	tokens  []string
	pos     int
	seen    map[NodeID]bool     // nodes that appeared
	chosen  map[NodeID][]NodeID // group -> distinct members in first-seen order
	visited []NodeID            // groups entered, in order
}

func (p *processor) group(gid NodeID, root bool) error {
	if _, ok := p.chosen[gid]; !ok {
		p.chosen[gid] = nil
		p.visited = append(p.visited, gid)
	}

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		if tok == "--" {
			if root {
				p.res.AddArg(p.tokens[p.pos+1:]...)
				p.pos = len(p.tokens)
			}
			return nil
		}

		m, err := p.match(gid, tok)
		if err != nil {
			return err
		}
		if m == None {
			if !root {
				return nil
			}
			if optionLike(tok) {
				return p.unrecognized(tok)
			}
			p.res.AddArg(tok)
			p.pos++
			continue
		}

		if err := p.admit(gid, m); err != nil {
			return err
		}
		if p.g.node(m).kind == KindGroup {
			err = p.group(m, false)
		} else {
			err = p.process(m)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// admit records m as chosen from gid and enforces the group maximum.
func (p *processor) admit(gid, m NodeID) error {
	p.seen[m] = true
	chosen := p.chosen[gid]
	if slices.Contains(chosen, m) {
		return nil
	}
	gn := p.g.node(gid)
	if gn.max > 0 && len(chosen) >= gn.max {
		first, second := p.g.node(chosen[0]).key, p.g.node(m).key
		if gn.max == 1 {
			return getopt.AlreadySelectedError(gn.name, first, second)
		}
		return getopt.TooManyOptionsError(gn.name, first, second)
	}
	p.chosen[gid] = append(chosen, m)
	return nil
}

// process runs one occurrence of a leaf node: trigger, values, children.
func (p *processor) process(id NodeID) error {
	n := p.g.node(id)
	tok := p.tokens[p.pos]
	p.pos++
	p.res.AddOption(n.key)

	var err error
	switch n.kind {
	case KindSwitch:
		err = p.res.SetSwitch(n.key, tok[0] == '+')
	case KindProperty:
		err = p.property(n, tok)
	default:
		err = p.values(n)
	}
	if err != nil {
		return err
	}

	if n.child != None {
		return p.group(n.child, false)
	}
	return nil
}

func (p *processor) values(n *node) error {
	vals, next := getopt.Consume(p.g, p.tokens, p.pos, n.arg.arity())
	p.pos = next
	if n.arg == nil {
		return nil
	}

	if v := n.arg.Validate; v != nil {
		for _, val := range vals {
			if err := v(val); err != nil {
				return getopt.InvalidValueError(display(n), val, err)
			}
		}
	}
	if len(vals) == 0 && len(n.arg.Defaults) > 0 {
		vals = slices.Clone(n.arg.Defaults)
	}
	if len(vals) < n.arg.Min {
		return getopt.MissingArgumentError(display(n))
	}
	p.res.AddValues(n.key, vals...)
	return nil
}

// property handles "-D key=value", "-Dkey=value" and "-Dkey".
func (p *processor) property(n *node, tok string) error {
	arity := n.arg.arity()
	var vals []string
	if attached := tok[len(n.prefix):]; attached == "" {
		vals, p.pos = getopt.Consume(p.g, p.tokens, p.pos, arity)
	} else {
		stream := append([]string{attached}, p.tokens[p.pos:]...)
		var used int
		vals, used = getopt.Consume(p.g, stream, 0, arity)
		p.pos += max(used-1, 0)
	}

	switch len(vals) {
	case 0:
		return getopt.MissingArgumentError(n.prefix)
	case 1:
		p.res.SetProperty(n.key, vals[0], "true")
	default:
		p.res.SetProperty(n.key, vals[0], vals[1])
	}
	return nil
}

// check reports unmet requirements of every visited group, options first,
// then groups, and stores switch defaults.
func (p *processor) check() error {
	var opts, groups []string
	for _, gid := range p.visited {
		gn := p.g.node(gid)
		for _, m := range gn.members {
			n := p.g.node(m)
			if p.seen[m] {
				continue
			}
			if n.kind == KindSwitch && n.def != nil {
				// cannot fail: the switch was not seen
				_ = p.res.SetSwitch(n.key, *n.def)
				continue
			}
			if !n.required {
				continue
			}
			if n.kind == KindGroup {
				groups = append(groups, n.name)
			} else {
				opts = append(opts, n.key)
			}
		}
		if len(p.chosen[gid]) < gn.min {
			groups = append(groups, gn.name)
		}
	}
	if missing := append(opts, groups...); len(missing) > 0 {
		return getopt.MissingOptionError(missing)
	}
	return nil
}

// match returns the member of gid that can process tok: exact triggers
// first, then attached properties, then unambiguous long prefixes.
func (p *processor) match(gid NodeID, tok string) (NodeID, error) {
	if m := p.g.find(gid, func(n *node) bool { return slices.Contains(n.triggers, tok) }); m != None {
		return m, nil
	}
	if m := p.g.find(gid, func(n *node) bool {
		return n.kind == KindProperty && len(tok) > len(n.prefix) && strings.HasPrefix(tok, n.prefix)
	}); m != None {
		return m, nil
	}
	if !strings.HasPrefix(tok, "--") || len(tok) == 2 {
		return None, nil
	}

	var members, leaves []NodeID
	var names []string
	p.g.eachLeaf(gid, None, func(member, leaf NodeID) {
		for _, t := range p.g.node(leaf).triggers {
			if !strings.HasPrefix(t, "--") || len(t) <= len(tok) || !strings.HasPrefix(t, tok) {
				continue
			}
			names = append(names, t[2:])
			if !slices.Contains(leaves, leaf) {
				leaves = append(leaves, leaf)
				members = append(members, member)
			}
		}
	})
	switch len(leaves) {
	case 0:
		return None, nil
	case 1:
		return members[0], nil
	default:
		return None, getopt.AmbiguousOptionError(tok, names)
	}
}

func (p *processor) unrecognized(tok string) error {
	return getopt.UnrecognizedOptionError(tok, fuzzy.Suggest(tok, p.g.triggers(), suggestDistance))
}

// find returns the member of gid whose subtree holds a leaf matching pred.
// Nested groups are searched; children of members are not.
func (g *Grammar) find(gid NodeID, pred func(*node) bool) NodeID {
	for _, m := range g.node(gid).members {
		n := g.node(m)
		if n.kind == KindGroup {
			if g.find(m, pred) != None {
				return m
			}
			continue
		}
		if pred(n) {
			return m
		}
	}
	return None
}

// eachLeaf calls fn for every leaf in the scope of gid with the top-level
// member it belongs to.
func (g *Grammar) eachLeaf(gid, top NodeID, fn func(member, leaf NodeID)) {
	for _, m := range g.node(gid).members {
		owner := top
		if owner == None {
			owner = m
		}
		if g.node(m).kind == KindGroup {
			g.eachLeaf(m, owner, fn)
			continue
		}
		fn(owner, m)
	}
}

func display(n *node) string {
	if n.opt != nil {
		return n.opt.Name()
	}
	return n.triggers[0]
}

func optionLike(tok string) bool {
	return len(tok) > 1 && (tok[0] == '-' || tok[0] == '+')
}
