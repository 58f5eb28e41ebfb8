// Command frapdemo runs the fixed demo workload translated from
// frapdemo_main.c against the frapsim reference scheduler: 8 workers,
// pinned across 3 simulated CPUs, contending for 4 global FRAP resources
// at the spin priorities computed by cmd/frapassign's algorithm.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/frapsched/frap"
	"github.com/frapsched/frap/fraplog"
	"github.com/frapsched/frap/frapsim"
	"github.com/frapsched/frap/internal/demo"
	"github.com/frapsched/frap/telemetry"
	"go.uber.org/automaxprocs/maxprocs"
)

func main() {
	if _, err := maxprocs.Set(); err != nil {
		log.Printf("frapdemo: maxprocs.Set: %v (continuing with default GOMAXPROCS)", err)
	}

	if os.Getenv("FRAPDEMO_DEBUG") != "" {
		frap.SetLogger(fraplog.NewConsole())
	}

	resources := make([]frap.Resource, demo.NumResources)
	recorders := make([]*telemetry.Recorder, demo.NumResources)
	for i := range resources {
		if err := frap.InitResource(&resources[i], uint32(i), true); err != nil {
			log.Fatalf("frapdemo: InitResource(%d): %v", i, err)
		}
		recorders[i] = telemetry.NewRecorder(nil)
		resources[i].Recorder = recorders[i]
	}
	resourcePtrs := make([]*frap.Resource, len(resources))
	for i := range resources {
		resourcePtrs[i] = &resources[i]
	}
	if err := frap.ValidateAll(resourcePtrs); err != nil {
		log.Fatalf("frapdemo: ValidateAll: %v", err)
	}

	spinPrio := buildSpinTable(demo.AssignSpinPriorities(demo.Workers))

	scheduler := frapsim.NewScheduler(&frapsim.Config{NumCPUs: demo.NumCPUs})

	tasks := make([]*frapsim.SimTask, len(demo.Workers))
	fns := make([]frapsim.WorkerFunc, len(demo.Workers))
	for i, w := range demo.Workers {
		tasks[i] = scheduler.NewTask(w.Name, w.CPU, w.BasePrio)
		fns[i] = workerBody(w, resources, spinPrio[w.Name])
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := scheduler.RunWorkers(ctx, tasks, fns); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Fatalf("frapdemo: RunWorkers: %v", err)
	}

	for i, r := range recorders {
		snap := r.Snapshot()
		fmt.Printf("R%d: waits=%d mean_wait=%s holds=%d mean_hold=%s\n",
			i, snap.WaitSamples, snap.MeanWait, snap.HoldSamples, snap.MeanHold)
	}
}

func buildSpinTable(rows []demo.Row) map[string]map[int]frap.Priority {
	table := make(map[string]map[int]frap.Priority, len(rows))
	for _, row := range rows {
		if table[row.Worker] == nil {
			table[row.Worker] = make(map[int]frap.Priority)
		}
		table[row.Worker][row.Resource] = row.SpinPrio
	}
	return table
}

// workerBody returns a frapsim.WorkerFunc that repeats w.Iterations times:
// simulate non-critical work, then enter each of w.Accesses in turn at
// its assigned spin priority.
func workerBody(w demo.Worker, resources []frap.Resource, spinPrio map[int]frap.Priority) frapsim.WorkerFunc {
	return func(h frap.Host) error {
		for iter := 0; iter < w.Iterations; iter++ {
			time.Sleep(w.Work)

			for _, a := range w.Accesses {
				if err := frap.SetSpinPrio(h, spinPrio[a.Resource]); err != nil {
					return fmt.Errorf("%s: SetSpinPrio(R%d): %w", w.Name, a.Resource, err)
				}
				if err := frap.Lock(h, &resources[a.Resource]); err != nil {
					return fmt.Errorf("%s: Lock(R%d): %w", w.Name, a.Resource, err)
				}
				time.Sleep(a.Hold)
				frap.Unlock(h, &resources[a.Resource])
			}
		}
		return nil
	}
}
