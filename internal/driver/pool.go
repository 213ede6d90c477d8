package driver

import (
	"runtime"

	"github.com/pbnjay/memory"
)

// memoryPerWorker is a conservative per-document working-set estimate
// (the document's char stream, block list, raw-ref list, and parsed-ref
// list resident at once, per spec.md §5) used to cap worker count on
// memory-constrained hosts.
const memoryPerWorker = 256 * 1024 * 1024

// WorkerCount picks the batch-mode concurrency: capped by available
// CPUs (runtime.NumCPU()), and further capped by total RAM divided by
// memoryPerWorker so a large batch doesn't over-commit memory on a
// small host. requested, when > 0, is an explicit override that still
// gets clamped to both limits.
func WorkerCount(requested int) int {
	cpuCap := runtime.NumCPU()
	if cpuCap < 1 {
		cpuCap = 1
	}

	memCap := cpuCap
	if total := memory.TotalMemory(); total > 0 {
		if byMem := int(total / memoryPerWorker); byMem < memCap {
			memCap = byMem
		}
	}
	if memCap < 1 {
		memCap = 1
	}

	n := requested
	if n < 1 {
		n = memCap
	}
	if n > cpuCap {
		n = cpuCap
	}
	if n > memCap {
		n = memCap
	}
	if n < 1 {
		n = 1
	}
	return n
}
