// Command getopt parses command lines against option files written in YAML,
// TOML or JSON and prints the result or the generated help.
//
//	getopt parse --spec tar.yaml -- -xf archive.tar
//	getopt help --spec tar.yaml
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
