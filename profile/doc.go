// Package profile provides optional runtime profiling for the lexenv
// application.
//
// Profiling integrates [github.com/pkg/profile] and is enabled at build
// time with the "pprof" build tag. Without the tag every operation is a
// no-op with zero runtime overhead.
//
// With the tag, the CLI exposes profiling flags:
//
//	# CPU profile written to the default cache directory
//	lexenv --pprof-mode cpu eval script.lx
//
//	# Heap profile with a custom output directory
//	lexenv --pprof-mode heap --pprof-dir ./profiles eval script.lx
//
// Use [Modes] to retrieve the supported modes programmatically, and
// analyze the output with go tool pprof.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
