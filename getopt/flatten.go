package getopt

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dzonerzy/go-getopt/internal/intern"
)

// Schema is what a flattener needs to know about the options it rewrites.
// Lookup receives a full token including its dashes ("-v", "--verbose") and
// reports the arity of the option it triggers.
type Schema interface {
	Lookup(token string) (Arity, bool)
}

// Flattener rewrites raw arguments into a canonical token stream: one option
// trigger per token, with attached values split into tokens of their own.
type Flattener interface {
	Flatten(s Schema, args []string, stopAtNonOption bool) []string
}

// Dialect selects the flattening strategy of a Parser.
type Dialect int

const (
	// DialectPOSIX bursts short option clusters: -abc is -a -b -c, and
	// -ofile is -o file when -o takes a value.
	DialectPOSIX Dialect = iota
	// DialectGNU splits a registered two-character prefix from its value:
	// -Dkey=value is -D key=value. Clusters are not burst.
	DialectGNU
	// DialectIdentity passes arguments through unchanged, for callers that
	// already split attached values.
	DialectIdentity
)

func (d Dialect) String() string {
	switch d {
	case DialectPOSIX:
		return "posix"
	case DialectGNU:
		return "gnu"
	case DialectIdentity:
		return "identity"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// ParseDialect converts "posix", "gnu" or "identity" to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "posix", "":
		return DialectPOSIX, nil
	case "gnu":
		return DialectGNU, nil
	case "identity", "basic":
		return DialectIdentity, nil
	default:
		return 0, fmt.Errorf("unknown dialect %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Dialect) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Dialect) UnmarshalText(text []byte) error {
	v, err := ParseDialect(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// IdentityFlattener returns its input unchanged.
type IdentityFlattener struct{}

// Flatten returns a copy of args.
func (IdentityFlattener) Flatten(_ Schema, args []string, _ bool) []string {
	return slices.Clone(args)
}

// GNUFlattener splits attached values off registered options without
// bursting clusters.
type GNUFlattener struct{}

// Flatten rewrites args GNU style. After "--", or after an unrecognized
// option when stopAtNonOption is set, the remaining args are copied verbatim.
func (GNUFlattener) Flatten(s Schema, args []string, stopAtNonOption bool) []string {
	out := make([]string, 0, len(args)+2)
	for i, arg := range args {
		switch {
		case arg == "--":
			return append(out, args[i:]...)
		case arg == "-" || !strings.HasPrefix(arg, "-"):
			out = append(out, arg)
		case isKnown(s, arg):
			out = append(out, arg)
		case strings.HasPrefix(arg, "--"):
			if name, value, ok := strings.Cut(arg, "="); ok && takesValues(s, name) {
				out = append(out, intern.Long(name[2:]), value)
				continue
			}
			out = append(out, arg)
			if stopAtNonOption {
				return append(out, args[i+1:]...)
			}
		default:
			_, size := utf8.DecodeRuneInString(arg[1:])
			if head := arg[:1+size]; len(arg) > len(head) && isKnown(s, head) {
				out = append(out, head, arg[len(head):])
				continue
			}
			out = append(out, arg)
			if stopAtNonOption {
				return append(out, args[i+1:]...)
			}
		}
	}
	return out
}

// POSIXFlattener bursts short option clusters. It keeps scratch state
// between tokens of one call and resets it at the start of every call, so a
// value may be reused sequentially but not by concurrent callers.
type POSIXFlattener struct {
	tokens  []string
	current Arity
	pending bool // current may still take a value
	taken   int
	eatRest bool
}

func (f *POSIXFlattener) reset() {
	clear(f.tokens)
	f.tokens = f.tokens[:0]
	f.current = Arity{}
	f.pending = false
	f.taken = 0
	f.eatRest = false
}

// Flatten rewrites args POSIX style.
func (f *POSIXFlattener) Flatten(s Schema, args []string, stopAtNonOption bool) []string {
	f.reset()
	for i, tok := range args {
		if f.eatRest {
			f.tokens = append(f.tokens, args[i:]...)
			break
		}
		switch {
		case tok == "--":
			f.emit(tok)
			f.eatRest = true
		case strings.HasPrefix(tok, "--"):
			f.long(s, tok, stopAtNonOption)
		case tok == "-":
			f.value(tok)
		case strings.HasPrefix(tok, "-"):
			if utf8.RuneCountInString(tok) == 2 || isKnown(s, tok) {
				f.option(s, tok, stopAtNonOption)
			} else {
				f.burst(s, tok, stopAtNonOption)
			}
		default:
			f.nonOption(tok, stopAtNonOption)
		}
	}
	return slices.Clone(f.tokens)
}

func (f *POSIXFlattener) emit(tok string) {
	f.tokens = append(f.tokens, tok)
}

func (f *POSIXFlattener) setCurrent(a Arity) {
	f.current = a
	f.pending = a.TakesValues()
	f.taken = 0
}

func (f *POSIXFlattener) clearCurrent() {
	f.current = Arity{}
	f.pending = false
	f.taken = 0
}

func (f *POSIXFlattener) value(tok string) {
	f.emit(tok)
	if f.pending {
		f.taken++
		f.pending = !f.current.Full(f.taken)
	}
}

func (f *POSIXFlattener) long(s Schema, tok string, stop bool) {
	if a, ok := s.Lookup(tok); ok {
		f.emit(tok)
		f.setCurrent(a)
		return
	}
	// "--flag=x" stays whole when --flag takes no values; Match rejects it
	if name, value, ok := strings.Cut(tok, "="); ok {
		if a, known := s.Lookup(name); known && a.TakesValues() {
			f.emit(intern.Long(name[2:]))
			f.setCurrent(a)
			f.value(value)
			return
		}
	}
	f.emit(tok)
	f.clearCurrent()
	if stop {
		f.eatRest = true
	}
}

func (f *POSIXFlattener) option(s Schema, tok string, stop bool) {
	if a, ok := s.Lookup(tok); ok {
		f.emit(tok)
		f.setCurrent(a)
		return
	}
	if f.pending {
		// an unregistered "-x" may be a value such as a negative number
		f.value(tok)
		return
	}
	f.emit(tok)
	if stop {
		f.eatRest = true
	}
}

func (f *POSIXFlattener) burst(s Schema, tok string, stop bool) {
	body := tok[1:]
	for i, r := range body {
		short := intern.Short(r)
		a, ok := s.Lookup(short)
		if ok && r >= utf8.RuneSelf {
			short = intern.Intern(short)
		}
		if !ok {
			switch {
			case i == 0 && f.pending:
				f.value(tok)
			case i == 0:
				f.emit(tok)
				f.eatRest = stop
			case stop:
				f.nonOption(body[i:], true)
			default:
				f.emit(short)
				f.clearCurrent()
			}
			return
		}

		f.emit(short)
		f.setCurrent(a)
		if rest := body[i+utf8.RuneLen(r):]; a.TakesValues() && rest != "" {
			f.value(rest)
			return
		}
	}
}

func (f *POSIXFlattener) nonOption(tok string, stop bool) {
	if f.pending {
		f.value(tok)
		return
	}
	if stop {
		f.eatRest = true
		f.emit("--")
	}
	f.emit(tok)
}

func isKnown(s Schema, tok string) bool {
	_, ok := s.Lookup(tok)
	return ok
}

func takesValues(s Schema, tok string) bool {
	a, ok := s.Lookup(tok)
	return ok && a.TakesValues()
}
