// Package log provides ilogger's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// simple Field type for structured context. Internally it is backed by Go's
// standard library slog via a custom handler that preserves the
// formatter/outputs pipeline, so callers get consistent output while the
// slog ecosystem remains reachable.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("store"), log.Str("key", "default"))
//	l.Info("flush complete", log.Int("records", 12))
//
// Loggers are constructed and passed explicitly; there is no process-global
// default. Components that accept a Logger should fall back to NewLogger()
// when handed nil.
package log
