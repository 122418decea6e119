// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured at creation time using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithCaller(true))
//
// Attributes can be attached for inclusion in every subsequent message:
//
//	logger = logger.With(slog.String("component", "interp"))
//
// Each level has a context-aware and a context-unaware variant; the
// context-unaware variants delegate using [DefaultContextProvider]. The
// package also maintains a default logger for top-level use, reconfigured
// with [Config].
//
// A Trace level below [slog.LevelDebug] is supported for high-volume
// diagnostics such as per-statement evaluation traces.
package log
