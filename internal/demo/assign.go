package demo

import "github.com/frapsched/frap"

// Row is one line of a generated spin-priority table: the offline
// ordinal assigned to a worker before any real task exists (pid_hint, in
// the original's terms), the resource it applies to, and the spin
// priority to install via frap.SetSpinPrio before that worker locks that
// resource.
type Row struct {
	PidHint  int
	Worker   string
	Resource int
	SpinPrio frap.Priority
}

// AssignSpinPriorities computes a deterministic stand-in for "Alg.2" from
// the paper referenced by spec.md: the spin priority for worker i on
// resource k is the highest base priority among every worker that can
// contend for k, including i itself (so the result is never below i's own
// base priority, satisfying Lock's ErrSpinPrioTooLow check by
// construction).
func AssignSpinPriorities(workers []Worker) []Row {
	contenders := make([][]int, NumResources) // resource -> worker indices
	for i, w := range workers {
		for _, a := range w.Accesses {
			contenders[a.Resource] = append(contenders[a.Resource], i)
		}
	}

	var rows []Row
	for i, w := range workers {
		for _, a := range w.Accesses {
			ceiling := w.BasePrio
			for _, j := range contenders[a.Resource] {
				if p := workers[j].BasePrio; p > ceiling {
					ceiling = p
				}
			}
			rows = append(rows, Row{
				PidHint:  i,
				Worker:   w.Name,
				Resource: a.Resource,
				SpinPrio: ceiling,
			})
		}
	}
	return rows
}
