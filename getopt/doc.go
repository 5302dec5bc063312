// Package getopt parses command-line arguments against a declared set of
// options.
//
// Options are built once and registered in a Registry:
//
//	verbose := getopt.NewOption("v", "verbose").Desc("talk more").MustBuild()
//	output := getopt.NewOption("o", "output").Arg("file").Required().MustBuild()
//	define := getopt.NewProperty("D").Desc("set a property").MustBuild()
//
//	reg := getopt.NewRegistry().MustAdd(verbose, output, define)
//	res, err := getopt.Parse(reg, os.Args[1:])
//
// Parsing runs in four stages. A Flattener rewrites the raw arguments into
// one token per trigger (-abc becomes -a -b -c, --out=x becomes --out x).
// Registry.Match resolves each option token, accepting unambiguous long
// prefixes. Consume collects the values that follow. A validator enforces
// mutually exclusive groups as it goes and reports every missing required
// option at the end.
//
// Registries and Parsers are never modified by parsing and may be shared
// between goroutines. Every call returns a fresh Result.
//
// Errors are *ParseError values; compare them with errors.Is against the
// Err sentinels or switch on TypeOf(err).
package getopt
