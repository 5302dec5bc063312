package benchmark_test

import (
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/urfave/cli/v2"

	"github.com/dzonerzy/go-getopt/getopt"
	"github.com/dzonerzy/go-getopt/grammar"
)

// Benchmark simple command lines with an int-like value and a boolean.
// getopt and pflag only parse; cobra and urfave also dispatch a command,
// which is their normal mode of use.

func BenchmarkSimpleCLI_Getopt(b *testing.B) {
	reg := getopt.NewRegistry().MustAdd(
		getopt.NewOption("p", "port").Arg("port").MustBuild(),
		getopt.NewOption("v", "verbose").MustBuild(),
	)
	p := getopt.NewParser()
	args := []string{"--port", "9000", "--verbose"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		res, err := p.Parse(reg, args)
		if err != nil || !res.Has("verbose") {
			b.Fatal(err)
		}
	}
}

func BenchmarkSimpleCLI_Pflag(b *testing.B) {
	args := []string{"--port", "9000", "--verbose"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		fs := pflag.NewFlagSet("bench", pflag.ContinueOnError)
		fs.IntP("port", "p", 8080, "Server port")
		fs.BoolP("verbose", "v", false, "Verbose output")
		if err := fs.Parse(args); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSimpleCLI_Cobra(b *testing.B) {
	args := []string{"run", "--port", "9000", "--verbose"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{Use: "bench"}
		runCmd := &cobra.Command{
			Use: "run",
			Run: func(_ *cobra.Command, _ []string) {},
		}
		runCmd.Flags().IntP("port", "p", 8080, "Server port")
		runCmd.Flags().BoolP("verbose", "v", false, "Verbose output")
		rootCmd.AddCommand(runCmd)
		rootCmd.SetArgs(args)
		_ = rootCmd.Execute()
	}
}

func BenchmarkSimpleCLI_Urfave(b *testing.B) {
	args := []string{"bench", "run", "--port", "9000", "--verbose"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli.App{
			Name: "bench",
			Commands: []*cli.Command{
				{
					Name: "run",
					Flags: []cli.Flag{
						&cli.IntFlag{Name: "port", Value: 8080, Usage: "Server port"},
						&cli.BoolFlag{Name: "verbose", Usage: "Verbose output"},
					},
					Action: func(_ *cli.Context) error { return nil },
				},
			},
		}
		_ = app.Run(args)
	}
}

// Benchmark POSIX short option clusters: -xvf archive.

func BenchmarkShortCluster_Getopt(b *testing.B) {
	reg := getopt.NewRegistry().MustAdd(
		getopt.NewOption("x", "extract").MustBuild(),
		getopt.NewOption("v", "verbose").MustBuild(),
		getopt.NewOption("z", "gzip").MustBuild(),
		getopt.NewOption("f", "file").Arg("archive").MustBuild(),
	)
	p := getopt.NewParser()
	args := []string{"-xvzf", "archive.tar.gz", "dir1", "dir2"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		res, err := p.Parse(reg, args)
		if err != nil || res.ValueOr("f", "") != "archive.tar.gz" {
			b.Fatal(err)
		}
	}
}

func BenchmarkShortCluster_Pflag(b *testing.B) {
	args := []string{"-xvzf", "archive.tar.gz", "dir1", "dir2"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		fs := pflag.NewFlagSet("bench", pflag.ContinueOnError)
		fs.SetOutput(io.Discard)
		fs.BoolP("extract", "x", false, "")
		fs.BoolP("verbose", "v", false, "")
		fs.BoolP("gzip", "z", false, "")
		file := fs.StringP("file", "f", "", "")
		if err := fs.Parse(args); err != nil || *file != "archive.tar.gz" {
			b.Fatal(err)
		}
	}
}

// Benchmark many flags (realistic CLI tool scenario).

var manyFlagArgs = []string{
	"--flag1", "test1",
	"--flag2", "test2",
	"--flag3", "test3",
	"--port", "9000",
	"--verbose",
	"--debug",
}

func BenchmarkManyFlags_Getopt(b *testing.B) {
	reg := getopt.NewRegistry().MustAdd(
		getopt.NewOption("", "flag1").Arg("v").MustBuild(),
		getopt.NewOption("", "flag2").Arg("v").MustBuild(),
		getopt.NewOption("", "flag3").Arg("v").MustBuild(),
		getopt.NewOption("", "flag4").Arg("v").MustBuild(),
		getopt.NewOption("", "flag5").Arg("v").MustBuild(),
		getopt.NewOption("p", "port").Arg("port").MustBuild(),
		getopt.NewOption("v", "verbose").MustBuild(),
		getopt.NewOption("", "debug").MustBuild(),
		getopt.NewOption("", "quiet").MustBuild(),
		getopt.NewOption("", "force").MustBuild(),
	)
	p := getopt.NewParser()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := p.Parse(reg, manyFlagArgs); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkManyFlags_Pflag(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		fs := pflag.NewFlagSet("bench", pflag.ContinueOnError)
		fs.String("flag1", "value1", "Flag 1")
		fs.String("flag2", "value2", "Flag 2")
		fs.String("flag3", "value3", "Flag 3")
		fs.String("flag4", "value4", "Flag 4")
		fs.String("flag5", "value5", "Flag 5")
		fs.IntP("port", "p", 8080, "Port")
		fs.BoolP("verbose", "v", false, "Verbose")
		fs.Bool("debug", false, "Debug")
		fs.Bool("quiet", false, "Quiet")
		fs.Bool("force", false, "Force")
		if err := fs.Parse(manyFlagArgs); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkManyFlags_Cobra(b *testing.B) {
	args := append([]string{"run"}, manyFlagArgs...)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{Use: "bench"}
		runCmd := &cobra.Command{
			Use: "run",
			Run: func(_ *cobra.Command, _ []string) {},
		}
		runCmd.Flags().String("flag1", "value1", "Flag 1")
		runCmd.Flags().String("flag2", "value2", "Flag 2")
		runCmd.Flags().String("flag3", "value3", "Flag 3")
		runCmd.Flags().String("flag4", "value4", "Flag 4")
		runCmd.Flags().String("flag5", "value5", "Flag 5")
		runCmd.Flags().IntP("port", "p", 8080, "Port")
		runCmd.Flags().BoolP("verbose", "v", false, "Verbose")
		runCmd.Flags().Bool("debug", false, "Debug")
		runCmd.Flags().Bool("quiet", false, "Quiet")
		runCmd.Flags().Bool("force", false, "Force")
		rootCmd.AddCommand(runCmd)
		rootCmd.SetArgs(args)
		_ = rootCmd.Execute()
	}
}

func BenchmarkManyFlags_Urfave(b *testing.B) {
	args := append([]string{"bench", "run"}, manyFlagArgs...)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli.App{
			Name: "bench",
			Commands: []*cli.Command{
				{
					Name: "run",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "flag1", Value: "value1", Usage: "Flag 1"},
						&cli.StringFlag{Name: "flag2", Value: "value2", Usage: "Flag 2"},
						&cli.StringFlag{Name: "flag3", Value: "value3", Usage: "Flag 3"},
						&cli.StringFlag{Name: "flag4", Value: "value4", Usage: "Flag 4"},
						&cli.StringFlag{Name: "flag5", Value: "value5", Usage: "Flag 5"},
						&cli.IntFlag{Name: "port", Value: 8080, Usage: "Port"},
						&cli.BoolFlag{Name: "verbose", Usage: "Verbose"},
						&cli.BoolFlag{Name: "debug", Usage: "Debug"},
						&cli.BoolFlag{Name: "quiet", Usage: "Quiet"},
						&cli.BoolFlag{Name: "force", Usage: "Force"},
					},
					Action: func(_ *cli.Context) error { return nil },
				},
			},
		}
		_ = app.Run(args)
	}
}

// Benchmark nested subcommands with a global flag.

func BenchmarkSubcommands_Grammar(b *testing.B) {
	gb := grammar.NewBuilder("bench")
	global := gb.Option(grammar.OptionDef{Long: "global"})
	port := gb.Option(grammar.OptionDef{Short: "p", Long: "port", Arg: &grammar.ArgDef{Name: "port", Min: 1, Max: 1}})
	host := gb.Option(grammar.OptionDef{Long: "host", Arg: &grammar.ArgDef{Name: "host", Min: 1, Max: 1}})
	serveOpts := gb.Group(grammar.GroupDef{Name: "serve options", Members: []grammar.NodeID{port, host}})
	serve := gb.Command(grammar.CommandDef{Name: "serve", Children: serveOpts})
	commands := gb.Group(grammar.GroupDef{Name: "command", Members: []grammar.NodeID{serve}, Max: 1})
	g := gb.MustBuild(gb.Group(grammar.GroupDef{Name: "bench", Members: []grammar.NodeID{global, commands}}))

	args := []string{"--global", "serve", "--port", "9000", "--host", "0.0.0.0"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		res, err := g.Parse(args)
		if err != nil || !res.Has("serve") {
			b.Fatal(err)
		}
	}
}

func BenchmarkSubcommands_Cobra(b *testing.B) {
	args := []string{"--global", "serve", "--port", "9000", "--host", "0.0.0.0"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rootCmd := &cobra.Command{Use: "bench"}
		rootCmd.PersistentFlags().Bool("global", false, "Global flag")

		serveCmd := &cobra.Command{
			Use: "serve",
			Run: func(_ *cobra.Command, _ []string) {},
		}
		serveCmd.Flags().IntP("port", "p", 8080, "Server port")
		serveCmd.Flags().String("host", "localhost", "Server host")
		rootCmd.AddCommand(serveCmd)

		rootCmd.SetArgs(args)
		_ = rootCmd.Execute()
	}
}

func BenchmarkSubcommands_Urfave(b *testing.B) {
	args := []string{"bench", "--global", "serve", "--port", "9000", "--host", "0.0.0.0"}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		app := &cli.App{
			Name: "bench",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "global", Usage: "Global flag"},
			},
			Commands: []*cli.Command{
				{
					Name: "serve",
					Flags: []cli.Flag{
						&cli.IntFlag{Name: "port", Value: 8080, Usage: "Server port"},
						&cli.StringFlag{Name: "host", Value: "localhost", Usage: "Server host"},
					},
					Action: func(_ *cli.Context) error { return nil },
				},
			},
		}
		_ = app.Run(args)
	}
}
