//nolint:testpackage // using package name 'benchmark' to access unexported fields for testing
package benchmark

import (
	"testing"

	"github.com/dzonerzy/go-getopt/getopt"
	"github.com/dzonerzy/go-getopt/grammar"
)

// Category: parser

func buildTarRegistry() *getopt.Registry {
	x := getopt.NewOption("x", "extract").MustBuild()
	c := getopt.NewOption("c", "create").MustBuild()
	return getopt.NewRegistry().
		MustAdd(
			getopt.NewOption("f", "file").Arg("archive").Required().MustBuild(),
			getopt.NewOption("v", "verbose").MustBuild(),
			getopt.NewOption("I", "include").UnlimitedArgs().ValueSeparator(',').MustBuild(),
			getopt.NewProperty("D").MustBuild(),
			x, c,
		).
		MustAddGroup(getopt.NewGroup("mode", x, c).SetRequired(true))
}

func BenchmarkParserSimple(b *testing.B) {
	reg := buildTarRegistry()
	p := getopt.NewParser()
	args := []string{"-x", "-f", "a.tar"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := p.Parse(reg, args)
		if err != nil || res == nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParserComplex(b *testing.B) {
	reg := buildTarRegistry()
	p := getopt.NewParser()
	args := []string{"-xvf", "a.tar", "--include", "a,b,c", "-Dkey=value", "-Dother=1", "src", "--", "-rest"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := p.Parse(reg, args)
		if err != nil || res == nil {
			b.Fatal(err)
		}
		if v, ok := res.Property("D", "key"); !ok || v != "value" {
			b.Fatalf("property not parsed")
		}
	}
}

func BenchmarkParserDialects(b *testing.B) {
	reg := buildTarRegistry()
	args := []string{"-x", "--file=a.tar", "-Dkey=value", "src"}
	for _, d := range []getopt.Dialect{getopt.DialectPOSIX, getopt.DialectGNU} {
		p := getopt.NewParser(getopt.WithDialect(d))
		b.Run(d.String(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := p.Parse(reg, args); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkFlatten(b *testing.B) {
	reg := buildTarRegistry()
	args := []string{"-xvf", "a.tar", "--include=a,b", "-Dk=v", "src"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = getopt.Flatten(getopt.DialectPOSIX, reg, args, false)
	}
}

func BenchmarkParserErrors(b *testing.B) {
	reg := buildTarRegistry()
	p := getopt.NewParser()
	args := []string{"-x", "--fil", "a.tar", "--verbse"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Parse(reg, args); err == nil {
			b.Fatal("expected unrecognized option")
		}
	}
}

func BenchmarkParserParallel(b *testing.B) {
	reg := buildTarRegistry()
	p := getopt.NewParser()
	args := []string{"-xvf", "a.tar", "-Dk=v", "src"}
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := p.Parse(reg, args); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

func BenchmarkGrammarParse(b *testing.B) {
	off := false
	gb := grammar.NewBuilder("git")
	verbose := gb.Option(grammar.OptionDef{Short: "v", Long: "verbose"})
	debug := gb.Switch(grammar.SwitchDef{Name: "debug", Default: &off})
	props := gb.Property(grammar.PropertyDef{})
	msg := gb.Option(grammar.OptionDef{Short: "m", Long: "message", Required: true, Arg: &grammar.ArgDef{Name: "msg", Min: 1, Max: 1}})
	all := gb.Option(grammar.OptionDef{Short: "a", Long: "all"})
	commit := gb.Command(grammar.CommandDef{Name: "commit", Children: gb.Group(grammar.GroupDef{Members: []grammar.NodeID{msg, all}})})
	add := gb.Command(grammar.CommandDef{Name: "add", Arg: &grammar.ArgDef{Name: "file", Min: 1, Max: getopt.Unlimited}})
	commands := gb.Group(grammar.GroupDef{Name: "command", Members: []grammar.NodeID{commit, add}, Max: 1})
	g := gb.MustBuild(gb.Group(grammar.GroupDef{Name: "git", Members: []grammar.NodeID{verbose, debug, props, commands}}))

	args := []string{"-v", "+debug", "-Duser.name=me", "commit", "-am", "fix"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := g.Parse(args)
		if err != nil || !res.Has("commit") {
			b.Fatal(err)
		}
	}
}
