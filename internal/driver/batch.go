package driver

import (
	"context"
	"sync"

	"github.com/Osso/refextract/internal/kb"
	"github.com/Osso/refextract/internal/layout"
	"github.com/Osso/refextract/internal/model"
)

// DocumentResult pairs one input document with its outcome. Err is set
// exactly when the document failed in an isolated way (spec.md §7's
// "per-document char extraction failure" policy for batch mode); Refs
// is nil in that case.
type DocumentResult struct {
	Path string
	Refs []model.ParsedReference
	Err  error
}

// ProcessBatch runs ProcessDocument over every path, using up to
// workers goroutines (see WorkerCount), isolating per-document failures
// instead of aborting the batch. Results preserve the input order.
// Cancellation is cooperative: once ctx is done, documents not yet
// started are skipped and recorded with ctx.Err().
func ProcessBatch(
	ctx context.Context, provider layout.CharProvider, paths []string, kbase *kb.KB, opts Options, workers int,
	onProgress func(DocumentResult),
) []DocumentResult {
	if workers < 1 {
		workers = WorkerCount(0)
	}

	results := make([]DocumentResult, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res := DocumentResult{Path: paths[i]}
				if err := ctx.Err(); err != nil {
					res.Err = err
				} else {
					refs, err := ProcessDocument(ctx, provider, paths[i], kbase, opts)
					res.Refs, res.Err = refs, err
				}
				results[i] = res
				if onProgress != nil {
					onProgress(res)
				}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
