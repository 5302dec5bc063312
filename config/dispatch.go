package config

import (
	"fmt"
	"maps"
	"slices"

	"github.com/dzonerzy/go-getopt/getopt"
	optio "github.com/dzonerzy/go-getopt/io"
	"github.com/dzonerzy/go-getopt/middleware"
)

// Listener handles one matched option and every value it received. A
// property option receives its pairs as key, value, ... sorted by key.
type Listener func(opt *getopt.Option, values []string) error

// ArgsListener receives the positional arguments.
type ArgsListener func(args []string) error

// Dispatcher invokes listeners for the options of a parse result, in the
// order the options first appeared, then the ArgsListener. Listener errors
// stop dispatching.
type Dispatcher struct {
	reg       *getopt.Registry
	listeners map[string]Listener
	fallback  Listener
	args      ArgsListener
	chain     middleware.MiddlewareChain
	log       *optio.Logger
	err       error
}

// NewDispatcher creates a dispatcher for results parsed against reg.
func NewDispatcher(reg *getopt.Registry) *Dispatcher {
	return &Dispatcher{reg: reg, listeners: make(map[string]Listener)}
}

// On registers l for the option called name (any of its names). An unknown
// name is reported by Dispatch.
func (d *Dispatcher) On(name string, l Listener) *Dispatcher {
	key, ok := d.reg.Resolve(name)
	if !ok {
		if d.err == nil {
			d.err = getopt.InvalidOptionError("no option named " + name)
		}
		return d
	}
	d.listeners[key] = l
	return d
}

// OnAny registers l for options without their own listener.
func (d *Dispatcher) OnAny(l Listener) *Dispatcher {
	d.fallback = l
	return d
}

// OnArgs registers the positional argument listener.
func (d *Dispatcher) OnArgs(l ArgsListener) *Dispatcher {
	d.args = l
	return d
}

// Use wraps every listener call in mw.
func (d *Dispatcher) Use(mw ...middleware.Middleware) *Dispatcher {
	d.chain = d.chain.Use(mw...)
	return d
}

// WithLogger traces dispatching at debug level.
func (d *Dispatcher) WithLogger(l *optio.Logger) *Dispatcher {
	d.log = l
	return d
}

// Dispatch calls the listeners for res.
func (d *Dispatcher) Dispatch(res *getopt.Result) error {
	if d.err != nil {
		return d.err
	}
	for _, key := range res.Keys() {
		l := d.listeners[key]
		if l == nil {
			l = d.fallback
		}
		if l == nil {
			d.debug("no listener for %s", key)
			continue
		}
		opt := d.reg.Option(key)
		ev := middleware.Event{Option: opt, Key: key, Values: valuesOf(res, opt, key)}
		d.debug("dispatch %s %q", ev.Name(), ev.Values)
		h := d.chain.Apply(func(ev middleware.Event) error { return l(ev.Option, ev.Values) })
		if err := h(ev); err != nil {
			return fmt.Errorf("listener for %s: %w", ev.Name(), err)
		}
	}

	if d.args == nil {
		return nil
	}
	ev := middleware.Event{Values: res.Args()}
	d.debug("dispatch args %q", ev.Values)
	h := d.chain.Apply(func(ev middleware.Event) error { return d.args(ev.Values) })
	if err := h(ev); err != nil {
		return fmt.Errorf("args listener: %w", err)
	}
	return nil
}

// Run parses args with p and dispatches the result. Parse errors are
// returned unwrapped.
func (d *Dispatcher) Run(p *getopt.Parser, args []string) (*getopt.Result, error) {
	res, err := p.Parse(d.reg, args)
	if err != nil {
		return nil, err
	}
	return res, d.Dispatch(res)
}

func valuesOf(res *getopt.Result, opt *getopt.Option, key string) []string {
	if opt == nil || !opt.IsProperty() {
		return res.Values(key)
	}
	props := res.Properties(key)
	names := slices.Sorted(maps.Keys(props))
	values := make([]string, 0, 2*len(names))
	for _, n := range names {
		values = append(values, n, props[n])
	}
	return values
}

func (d *Dispatcher) debug(format string, args ...any) {
	if d.log != nil {
		d.log.Debug(format, args...)
	}
}

// Dispatch is a one-shot NewDispatcher with listeners keyed by option name.
func Dispatch(reg *getopt.Registry, res *getopt.Result, listeners map[string]Listener, args ArgsListener) error {
	d := NewDispatcher(reg).OnArgs(args)
	for name, l := range listeners {
		d.On(name, l)
	}
	return d.Dispatch(res)
}
