//nolint:testpackage // using package name 'benchmark' to access unexported fields for testing
package benchmark

import (
	"testing"
	"time"

	"github.com/dzonerzy/go-getopt/config"
	"github.com/dzonerzy/go-getopt/getopt"
	mw "github.com/dzonerzy/go-getopt/middleware"
)

// Category: middleware

func BenchmarkMiddlewareChain(b *testing.B) {
	opt := getopt.NewOption("v", "verbose").MustBuild()
	h := mw.Chain(mw.Logger(), mw.Recovery(), mw.Timeout(10*time.Millisecond)).
		Apply(func(mw.Event) error { return nil })
	ev := mw.Event{Option: opt, Key: "v"}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = h(ev)
	}
}

func BenchmarkDispatch(b *testing.B) {
	reg := buildTarRegistry()
	res, err := getopt.Parse(reg, []string{"-xvf", "a.tar", "-Dk=v", "src"})
	if err != nil {
		b.Fatal(err)
	}
	noop := func(*getopt.Option, []string) error { return nil }
	d := config.NewDispatcher(reg).
		Use(mw.Recovery(mw.WithStackTrace(false))).
		OnAny(noop).
		OnArgs(func([]string) error { return nil })

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := d.Dispatch(res); err != nil {
			b.Fatal(err)
		}
	}
}
