package source

import (
	"os"
	"path/filepath"
)

// ScanDir walks the Claude projects directory and returns every JSONL
// transcript path found. Unreadable entries are skipped so a permission
// error or a race with a concurrent writer never aborts the scan. A missing
// projects directory yields an empty result, not an error.
func ScanDir(claudeDir string) ([]string, error) {
	projectsDir := filepath.Join(claudeDir, "projects")

	info, err := os.Stat(projectsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(projectsDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() || filepath.Ext(path) != ".jsonl" {
			return nil
		}
		files = append(files, path)
		return nil
	})

	return files, err
}
