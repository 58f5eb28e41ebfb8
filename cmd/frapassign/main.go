// Command frapassign is a deterministic, offline stand-in for the "Alg.2"
// spin-priority assignment algorithm referenced by spec.md. It prints the
// (pid_hint, resid, spin_prio) table frapdemo_main.c would otherwise load
// from a generated frap_table_generated.h, computed from the fixed demo
// topology in package demo.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/frapsched/frap/internal/demo"
)

func main() {
	rows := demo.AssignSpinPriorities(demo.Workers)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "pid_hint\tworker\tresid\tspin_prio")
	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", r.PidHint, r.Worker, r.Resource, r.SpinPrio)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, "frapassign:", err)
		os.Exit(1)
	}
}
