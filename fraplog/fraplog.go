// Package fraplog provides the structured logging used for FRAP's
// optional debug traces, per spec.md §7: "Nothing is logged from the hot
// path except optional debug traces in the scheduler hook."
//
// It wraps github.com/joeycumines/logiface, using
// github.com/joeycumines/izerolog (github.com/rs/zerolog) as the event
// backend, the same facade/backend pairing the teacher repo uses for its
// own logging (see logiface-zerolog).
package fraplog

import (
	"os"

	"github.com/joeycumines/izerolog"
	"github.com/joeycumines/logiface"
	"github.com/rs/zerolog"
)

// Logger is the concrete logiface logger type used throughout frap.
type Logger = logiface.Logger[*izerolog.Event]

// Disabled returns a Logger that drops everything, at zero cost beyond
// the level check. This is the default attached by frap.SetLogger(nil).
func Disabled() *Logger {
	return logiface.New[*izerolog.Event]()
}

// NewZerolog returns a Logger backed by a zerolog.Logger writing to w at
// or above minLevel, suitable for wiring into frap.SetLogger.
func NewZerolog(w zerolog.Logger, minLevel logiface.Level) *Logger {
	return logiface.New[*izerolog.Event](
		izerolog.WithZerolog(w),
		logiface.WithLevel[*izerolog.Event](minLevel),
	)
}

// NewConsole is a convenience for ad-hoc debugging: a human-readable
// zerolog console writer on stderr, at LevelDebug.
func NewConsole() *Logger {
	return NewZerolog(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger(), logiface.LevelDebug)
}
