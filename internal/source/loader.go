package source

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/jdhollis/cquota/internal/model"
)

// LoadResult holds the output of the full transcript loading pass.
type LoadResult struct {
	Events      []model.UsageEvent
	TotalFiles  int
	ParsedFiles int
	ParseErrors int
	FileErrors  int
}

// LoadEvents discovers and parses every transcript under claudeDir using a
// bounded worker pool. Files that cannot be read are counted and skipped;
// partial availability never aborts the load.
func LoadEvents(claudeDir string) (*LoadResult, error) {
	files, err := ScanDir(claudeDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", claudeDir, err)
	}

	result := &LoadResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	results := parseAll(files)
	for _, pr := range results {
		collectResult(result, pr)
	}
	return result, nil
}

// parseAll fans parsing out over a bounded worker pool and returns results
// indexed like files.
func parseAll(files []string) []ParseResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]ParseResult, len(files))
	var wg sync.WaitGroup

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = ParseFile(files[idx])
			}
		}()
	}
	wg.Wait()

	return results
}

func collectResult(result *LoadResult, pr ParseResult) {
	if pr.Err != nil {
		result.FileErrors++
		return
	}
	result.ParsedFiles++
	result.ParseErrors += pr.ParseErrors
	result.Events = append(result.Events, pr.Events...)
}
