// Package logveil provides the command-line interface for the LogVeil tool.
// It configures subcommands (sanitize, serve, patterns, etc.), parses flags,
// and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/logveil/logveil/cmd/logveil"
//	func main() { logveil.Execute() }
package logveil
