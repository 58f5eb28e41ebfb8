package frap

import "github.com/frapsched/frap/fraplog"

// log is the package-wide debug-trace sink, defaulting to disabled. It is
// a package variable, in the style of catrate's timeNow/timeNewTicker
// (go-utilpkg/catrate/limiter.go), so hosts can wire it once at startup
// and tests can swap it, without threading a logger through every call.
var log = fraplog.Disabled()

// SetLogger installs l as the destination for FRAP's debug traces. The
// only trace is the cancellation trace in OnPreempt; misuse paths return
// errors or panic without logging. Passing nil restores the disabled
// logger.
func SetLogger(l *fraplog.Logger) {
	if l == nil {
		l = fraplog.Disabled()
	}
	log = l
}
