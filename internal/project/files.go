package project

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// SourceExt is the extension of compilable modules.
const SourceExt = ".at"

// ListSourceFiles returns every *.at file under dir, sorted for
// deterministic builds.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Generated output and editor litter never hold sources.
			if name := d.Name(); path != dir && strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
