// Package demo holds the fixed workload translated from the original
// frapdemo_main.c: a handful of workers pinned across a few simulated
// CPUs, contending for a small set of global resources with distinct
// priorities, access patterns and timing. It is shared by cmd/frapassign
// (which only needs the topology to compute spin priorities offline) and
// cmd/frapdemo (which actually runs it).
package demo

import (
	"time"

	"github.com/frapsched/frap"
)

// NumResources is the number of global resources the demo contends over,
// matching frapdemo_main.c's R0..R3.
const NumResources = 4

// NumCPUs is the number of simulated CPUs the workers are pinned across.
const NumCPUs = 3

// Access describes one critical section a worker enters during each
// iteration of its loop: which resource, and how long it holds it.
type Access struct {
	Resource int
	Hold     time.Duration
}

// Worker describes one simulated task: its CPU affinity, base priority,
// and the loop of non-critical work and resource accesses it repeats.
type Worker struct {
	Name       string
	CPU        int
	BasePrio   frap.Priority
	Work       time.Duration
	Accesses   []Access
	Iterations int
}

// Workers is the demo's fixed topology: 8 workers pinned across 3 CPUs,
// with base priorities (240, 238, 200, 190, 120, 110, 115, 60) matching
// frapdemo_main.c's hot0, hot1, mid0, mid1, remoteA0, remoteA1, remoteB0
// and background tasks respectively.
var Workers = []Worker{
	{
		Name: "hot0", CPU: 0, BasePrio: 240,
		Work:       time.Millisecond,
		Accesses:   []Access{{Resource: 0, Hold: 2 * time.Millisecond}},
		Iterations: 4,
	},
	{
		Name: "hot1", CPU: 0, BasePrio: 238,
		Work: time.Millisecond,
		Accesses: []Access{
			{Resource: 0, Hold: time.Millisecond},
			{Resource: 1, Hold: time.Millisecond},
		},
		Iterations: 4,
	},
	{
		Name: "mid0", CPU: 1, BasePrio: 200,
		Work:       2 * time.Millisecond,
		Accesses:   []Access{{Resource: 1, Hold: 3 * time.Millisecond}},
		Iterations: 3,
	},
	{
		Name: "mid1", CPU: 1, BasePrio: 190,
		Work:       2 * time.Millisecond,
		Accesses:   []Access{{Resource: 2, Hold: 2 * time.Millisecond}},
		Iterations: 3,
	},
	{
		Name: "remoteA0", CPU: 2, BasePrio: 120,
		Work: 3 * time.Millisecond,
		Accesses: []Access{
			{Resource: 2, Hold: 2 * time.Millisecond},
			{Resource: 3, Hold: 2 * time.Millisecond},
		},
		Iterations: 2,
	},
	{
		Name: "remoteA1", CPU: 2, BasePrio: 110,
		Work:       3 * time.Millisecond,
		Accesses:   []Access{{Resource: 3, Hold: 2 * time.Millisecond}},
		Iterations: 2,
	},
	{
		Name: "remoteB0", CPU: 2, BasePrio: 115,
		Work:       3 * time.Millisecond,
		Accesses:   []Access{{Resource: 0, Hold: time.Millisecond}},
		Iterations: 2,
	},
	{
		Name: "background", CPU: 2, BasePrio: 60,
		Work:       5 * time.Millisecond,
		Accesses:   []Access{{Resource: 3, Hold: time.Millisecond}},
		Iterations: 1,
	},
}
