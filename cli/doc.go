// Package cli implements the lexenv command-line interface.
//
// The CLI is declared as a kong grammar with three commands: eval runs a
// script from a file or stdin, repl starts an interactive session, and
// dump prints the bindings of the standard scope. Logging and profiling
// flag groups apply to every command.
//
// Configuration is resolved, lowest precedence first, from a YAML config
// file in the user config directory, then environment, then command-line
// flags.
package cli
