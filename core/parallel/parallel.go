// Package parallel provides helpers for splitting row-wise work across
// CPU cores. Callers must guarantee that the chunks are independent;
// the missingness transforms satisfy this because rows and columns
// carry no inter-dependency.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize divides items into per-core chunks and runs fn on each
// half-open range [start, end) concurrently. It returns after all
// chunks have completed.
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// ceiling division so the last worker is never starved
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially when items is at or
// below threshold, and in parallel otherwise. Small matrices are not
// worth the goroutine overhead.
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
