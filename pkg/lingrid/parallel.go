package lingrid

import (
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/beetlebugorg/lingrid/internal/accum"
	"github.com/beetlebugorg/lingrid/internal/parser"
)

// runParallel evaluates records with a worker pool.
//
// The stream is decoded by a single goroutine; each decoded record is owned by
// exactly one worker. Results are tagged with the record's position in the
// stream and committed to the accumulator strictly in that order, so rows and
// their order match a serial run. On the first error the remaining results are
// drained and discarded and no table is returned.
func (it *Intersector) runParallel(rd *parser.Reader) (*Table, error) {
	// Determine worker count
	workers := it.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type job struct {
		seq  int
		line *parser.Polyline
	}
	type evalResult struct {
		seq    int
		record int
		hits   []hit
	}

	jobs := make(chan job, workers*2)
	results := make(chan evalResult, workers*2)
	stop := make(chan struct{})

	// Start worker pool
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var scratch []int
			for j := range jobs {
				var hits []hit
				hits, scratch = it.evaluate(j.line, nil, scratch)
				results <- evalResult{seq: j.seq, record: j.line.Number, hits: hits}
			}
		}()
	}

	// Decode records and send jobs to workers
	var readErr error
	go func() {
		defer close(jobs)
		for seq := 0; ; seq++ {
			shape, err := rd.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				readErr = err
				return
			}
			select {
			case jobs <- job{seq: seq, line: shape.Line()}:
			case <-stop:
				return
			}
		}
	}()

	// Wait for workers to finish in a separate goroutine
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results, committing in stream order
	acc := accum.New(it.grid.IDs())
	waiting := make(map[int]evalResult)
	next := 0
	var commitErr error

	for res := range results {
		if commitErr != nil {
			continue
		}
		waiting[res.seq] = res

		for {
			ready, ok := waiting[next]
			if !ok {
				break
			}
			delete(waiting, next)

			if err := commit(acc, ready.record, ready.hits); err != nil {
				commitErr = err
				close(stop)
				break
			}
			next++
			if it.opts.Progress != nil {
				it.opts.Progress(next)
			}
		}
	}

	// readErr is visible here: it is written before jobs is closed, and results
	// is only closed after every worker has seen that.
	if readErr != nil {
		return nil, readErr
	}
	if commitErr != nil {
		return nil, commitErr
	}
	if len(waiting) != 0 {
		return nil, fmt.Errorf("%d evaluated records were never committed", len(waiting))
	}

	return newTable(acc, next), nil
}
