package getopt

import (
	"strings"

	"github.com/dzonerzy/go-getopt/internal/pool"
)

// posixFlatteners hands out scratch state so concurrent parses never share a
// POSIXFlattener.
var posixFlatteners = pool.New(func() *POSIXFlattener {
	return &POSIXFlattener{tokens: make([]string, 0, 16)}
})

// Parser turns argument slices into Results. A Parser holds configuration
// only; one value can be shared by any number of goroutines.
type Parser struct {
	dialect         Dialect
	stopAtNonOption bool
	suggestions     bool
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithDialect selects how raw arguments are flattened. The default is POSIX.
func WithDialect(d Dialect) ParserOption {
	return func(p *Parser) { p.dialect = d }
}

// WithStopAtNonOption makes the first bare word, or the first unrecognized
// option, end option processing. It and everything after it become
// positional arguments.
func WithStopAtNonOption(stop bool) ParserOption {
	return func(p *Parser) { p.stopAtNonOption = stop }
}

// WithSuggestions toggles "did you mean" hints on unrecognized options.
// They are on by default.
func WithSuggestions(on bool) ParserOption {
	return func(p *Parser) { p.suggestions = on }
}

// NewParser creates a parser.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{dialect: DialectPOSIX, suggestions: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// Parse parses args against r with a default POSIX parser.
func Parse(r *Registry, args []string) (*Result, error) {
	return defaultParser.Parse(r, args)
}

// Dialect returns the configured dialect.
func (p *Parser) Dialect() Dialect { return p.dialect }

// StopAtNonOption reports whether option processing ends at the first bare word.
func (p *Parser) StopAtNonOption() bool { return p.stopAtNonOption }

// Flatten rewrites args into canonical tokens for s using the parser's dialect.
func (p *Parser) Flatten(s Schema, args []string) []string {
	return Flatten(p.dialect, s, args, p.stopAtNonOption)
}

// Flatten rewrites args with the flattener of dialect d. POSIX scratch state
// comes from a pool, so Flatten is safe for concurrent use.
func Flatten(d Dialect, s Schema, args []string, stopAtNonOption bool) []string {
	switch d {
	case DialectGNU:
		return GNUFlattener{}.Flatten(s, args, stopAtNonOption)
	case DialectIdentity:
		return IdentityFlattener{}.Flatten(s, args, stopAtNonOption)
	default:
		f := posixFlatteners.Get()
		defer posixFlatteners.Put(f)
		return f.Flatten(s, args, stopAtNonOption)
	}
}

// Parse parses args against r. On success every required option and group
// is satisfied; on failure the Result is nil and the error is a *ParseError.
func (p *Parser) Parse(r *Registry, args []string) (*Result, error) {
	tokens := p.Flatten(r, args)
	res := NewResult(r)
	v := newValidator(r)

	for i := 0; i < len(tokens); {
		tok := tokens[i]
		switch {
		case tok == "--":
			res.AddArg(tokens[i+1:]...)
			i = len(tokens)

		case tok == "-" || !strings.HasPrefix(tok, "-"):
			res.AddArg(tok)
			i++
			if p.stopAtNonOption {
				res.AddArg(tokens[i:]...)
				i = len(tokens)
			}

		default:
			o, err := r.Match(tok)
			if err != nil {
				if p.stopAtNonOption && TypeOf(err) == ErrorTypeUnrecognizedOption {
					res.AddArg(tokens[i:]...)
					i = len(tokens)
					continue
				}
				return nil, p.finish(err)
			}
			next, err := handleOption(r, res, v, o, tokens, i+1)
			if err != nil {
				return nil, err
			}
			i = next
		}
	}

	if err := v.check(); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Parser) finish(err error) error {
	if pe, ok := err.(*ParseError); ok && !p.suggestions {
		pe.Suggestion = ""
	}
	return err
}

// handleOption consumes the values of o starting at pos, validates the
// occurrence and records it in res.
func handleOption(r *Registry, res *Result, v *validator, o *Option, tokens []string, pos int) (int, error) {
	arity := o.Arity()
	values, next := Consume(r, tokens, pos, arity)
	if len(values) < arity.Min {
		return 0, MissingArgumentError(o.Name())
	}
	if err := v.observe(res, o); err != nil {
		return 0, err
	}

	key := o.Key()
	res.AddOption(key)
	if !o.IsProperty() {
		res.AddValues(key, values...)
		return next, nil
	}
	switch len(values) {
	case 2:
		res.SetProperty(key, values[0], values[1])
	case 1:
		res.SetProperty(key, values[0], "true")
	}
	return next, nil
}
