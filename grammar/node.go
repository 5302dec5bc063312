package grammar

import (
	"slices"

	"github.com/dzonerzy/go-getopt/getopt"
)

// NodeID identifies a node inside one Grammar. The zero value is None.
type NodeID int32

// None marks an absent node reference.
const None NodeID = 0

// Kind is the role a node plays in the tree.
type Kind int

const (
	KindOption   Kind = iota + 1 // -s / --long, optionally with values
	KindCommand                  // bare word such as "commit"
	KindSwitch                   // +name enables, -name disables
	KindProperty                 // -Dkey=value pairs
	KindGroup                    // container enforcing min/max over its members
)

func (k Kind) String() string {
	switch k {
	case KindOption:
		return "option"
	case KindCommand:
		return "command"
	case KindSwitch:
		return "switch"
	case KindProperty:
		return "property"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// ArgDef describes the values following a trigger.
type ArgDef struct {
	Name      string
	Min       int  // values required per occurrence
	Max       int  // values accepted per occurrence; getopt.Unlimited for no bound
	Separator rune // splits one token into several values, e.g. ','

	// Validate is called for every value; a non-nil error aborts the parse
	// with ErrInvalidValue.
	Validate func(string) error

	// Defaults are stored when the node appears without values.
	Defaults []string
}

func (a *ArgDef) arity() getopt.Arity {
	if a == nil {
		return getopt.Arity{}
	}
	return getopt.Arity{Min: a.Min, Max: a.Max, Separator: a.Separator}
}

func (a *ArgDef) clone() *ArgDef {
	if a == nil {
		return nil
	}
	c := *a
	c.Defaults = slices.Clone(a.Defaults)
	return &c
}

// node is one arena slot. Fields not meaningful for a kind stay zero.
type node struct {
	kind     Kind
	key      string
	triggers []string // full tokens, e.g. "-v", "--verbose", "commit", "+debug"
	desc     string
	required bool
	arg      *ArgDef
	child    NodeID // group processed after this node
	parent   NodeID // group or node owning this one

	opt *getopt.Option // option kind only

	// switch
	def *bool

	// property
	prefix string

	// group
	name    string
	members []NodeID
	min     int
	max     int
}

// Node is a read-only view of a grammar node for help renderers.
type Node struct {
	ID          NodeID
	Kind        Kind
	Key         string
	Triggers    []string
	Description string
	Required    bool
	Arg         *ArgDef
	Child       NodeID

	// Option is the underlying definition of option nodes.
	Option *getopt.Option

	Default *bool  // switch nodes
	Prefix  string // property nodes

	// Group nodes only.
	Name    string
	Members []NodeID
	Min     int
	Max     int // 0 means no limit
}
