package frap

import "time"

// timeNow is overridable for tests, in the style of catrate's
// timeNow/timeNewTicker package variables (go-utilpkg/catrate/limiter.go).
var timeNow = time.Now

// waitClockNow/holdClockNow/recordWait/recordHold implement the optional
// contention-telemetry hook described in SPEC_FULL.md. They are no-ops
// whenever a Resource has no Recorder attached, keeping Lock/Unlock's hot
// path cost unaffected by default (mirrors spec.md §7's "nothing is
// logged from the hot path" applied to telemetry).
func waitClockNow() time.Time {
	return timeNow()
}

func holdClockNow() time.Time {
	return timeNow()
}

func recordWait(r *Resource, since time.Time) {
	if r.Recorder == nil {
		return
	}
	r.Recorder.RecordWait(timeNow().Sub(since).Nanoseconds())
}

func recordHold(r *Resource, since time.Time) {
	if r.Recorder == nil {
		return
	}
	r.Recorder.RecordHold(timeNow().Sub(since).Nanoseconds())
}
