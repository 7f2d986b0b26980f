// Package parallel splits row ranges across CPU cores for elementwise
// evaluation over samples. Work within one range is sequential; callers must
// only write to indices inside the range they were given.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultThreshold is the number of rows below which work runs on the calling goroutine.
const DefaultThreshold = 4096

// chunks returns the [start, end) ranges used for items rows.
func chunks(items int) [][2]int {
	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}
	chunkSize := (items + numWorkers - 1) / numWorkers

	out := make([][2]int, 0, numWorkers)
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

// Parallelize divides items rows according to the number of CPU cores and
// runs fn on each range concurrently.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	var wg sync.WaitGroup
	for _, c := range chunks(items) {
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(c[0], c[1])
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially over [0, items) when items
// does not exceed threshold, and through Parallelize otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}

// SumWithThreshold evaluates fn over row ranges and adds the partial sums in
// range order, so the result does not depend on goroutine scheduling.
func SumWithThreshold(items int, threshold int, fn func(start, end int) float64) float64 {
	if items <= 0 {
		return 0
	}
	if items <= threshold {
		return fn(0, items)
	}

	cs := chunks(items)
	partial := make([]float64, len(cs))
	var wg sync.WaitGroup
	for i, c := range cs {
		wg.Add(1)
		go func(i, s, e int) {
			defer wg.Done()
			partial[i] = fn(s, e)
		}(i, c[0], c[1])
	}
	wg.Wait()

	var total float64
	for _, p := range partial {
		total += p
	}
	return total
}
