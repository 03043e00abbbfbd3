package source

import (
	"fmt"
	"os"

	"github.com/jdhollis/cquota/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
}

// LoadEventsCached diffs discovered transcripts against the cache by
// mtime and size, reparses only changed files, and returns the combined
// event list. Newly parsed files are written back to the cache.
func LoadEventsCached(claudeDir string, cache *store.Cache) (*CachedLoadResult, error) {
	files, err := ScanDir(claudeDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", claudeDir, err)
	}

	result := &CachedLoadResult{LoadResult: LoadResult{TotalFiles: len(files)}}
	if len(files) == 0 {
		return result, nil
	}

	tracked, err := cache.TrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	var toReparse []string
	unchanged := make(map[string]struct{})

	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			result.FileErrors++
			continue
		}
		cached, ok := tracked[path]
		if ok && cached.MtimeNs == info.ModTime().UnixNano() && cached.SizeBytes == info.Size() {
			unchanged[path] = struct{}{}
		} else {
			toReparse = append(toReparse, path)
		}
	}

	result.CacheHits = len(unchanged)
	result.Reparsed = len(toReparse)

	if len(unchanged) > 0 {
		cachedEvents, err := cache.LoadEvents()
		if err != nil {
			return nil, fmt.Errorf("loading cached events: %w", err)
		}
		for path := range unchanged {
			result.Events = append(result.Events, cachedEvents[path]...)
			result.ParsedFiles++
		}
	}

	if len(toReparse) > 0 {
		results := parseAll(toReparse)
		for i, pr := range results {
			collectResult(&result.LoadResult, pr)
			if pr.Err != nil {
				continue
			}
			info, err := os.Stat(toReparse[i])
			if err != nil {
				continue
			}
			_ = cache.SaveFileEvents(toReparse[i], info.ModTime().UnixNano(), info.Size(), pr.Events)
		}
	}

	return result, nil
}
