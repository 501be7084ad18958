package extraction

import (
	"fmt"
	"log/slog"
	"sync"
)

const (
	// DefaultConcurrency is how many documents are extracted in
	// parallel; the vision API tolerates a handful of in-flight
	// requests per key.
	DefaultConcurrency = 5

	// MaxBatchFiles caps one batch request.
	MaxBatchFiles = 200
)

// Extractor turns one document file into a record. *Client satisfies
// it; tests substitute a stub.
type Extractor interface {
	ExtractDocument(path string) (*Record, error)
}

// BatchResult is the outcome for one file in a batch. Failed files
// carry Err and a nil Record; the batch itself never aborts on
// per-file failures.
type BatchResult struct {
	Path   string
	Record *Record
	Err    error
}

// ProcessBatch extracts up to MaxBatchFiles documents with a bounded
// worker pool, preserving input order in the results.
func ProcessBatch(extractor Extractor, paths []string, concurrency int) ([]BatchResult, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if len(paths) > MaxBatchFiles {
		return nil, fmt.Errorf("batch of %d files exceeds the limit of %d", len(paths), MaxBatchFiles)
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if concurrency > len(paths) {
		concurrency = len(paths)
	}

	results := make([]BatchResult, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				record, err := extractor.ExtractDocument(paths[i])
				if err != nil {
					slog.Warn("document extraction failed", "path", paths[i], "error", err)
				}
				results[i] = BatchResult{Path: paths[i], Record: record, Err: err}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results, nil
}
