// Package cmd provides the eval, repl, and dump subcommands of the
// lexenv command-line interface.
package cmd

// CacheIdentifier is the kong variable identifier containing the path to
// the runtime cache directory.
const CacheIdentifier = "cache"
