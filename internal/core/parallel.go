package core

import (
	"runtime"
	"sync"
)

// parallelChunkThreshold is the item count below which ParallelFor falls
// back to running sequentially on the calling goroutine: below this,
// goroutine and channel overhead dominates whatever is saved by fanning
// out, the same tradeoff ParallelBatchInversion makes.
const parallelChunkThreshold = 1000

// ParallelFor calls worker(i) once for every i in [0, n), fanned out across
// goroutines in contiguous chunks sized by runtime.NumCPU(). worker must be
// a pure function of i that only writes to index i of whatever output it
// closes over -- callers never touch the transcript or a Merkle tree from
// inside worker, so the result is identical to calling worker(i) for i in
// ascending order on a single goroutine. Errors from individual calls are
// collected and the first one (by index) is returned once every worker has
// finished.
func ParallelFor(n int, worker func(i int) error) error {
	if n <= 0 {
		return nil
	}
	if n < parallelChunkThreshold {
		for i := 0; i < n; i++ {
			if err := worker(i); err != nil {
				return err
			}
		}
		return nil
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > n {
		numWorkers = n
	}
	chunkSize := (n + numWorkers - 1) / numWorkers
	errs := make([]error, numWorkers)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(workerID, start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				if err := worker(i); err != nil {
					errs[workerID] = err
					return
				}
			}
		}(w, start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
