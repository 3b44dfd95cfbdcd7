package workspace

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// ScanFiles walks root collecting machine-definition files with the given
// extensions. Hidden directories and vendor are skipped, matching the
// watcher's coverage so a scanned workspace and a watched one agree.
func ScanFiles(root string, extensions []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || name == "vendor") {
				return filepath.SkipDir
			}
			return nil
		}
		for _, ext := range extensions {
			if strings.HasSuffix(name, ext) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	return files, err
}
