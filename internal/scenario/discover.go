package scenario

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"

	"github.com/Iron-Ham/tessel/internal/errors"
)

// Discover expands paths into scenario files. Files are taken as given;
// directories are walked and their files kept when the base name matches
// the glob pattern. The result is sorted and free of duplicates.
func Discover(paths []string, pattern string) ([]string, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.NewValidationError("invalid match pattern").WithField("match").WithValue(pattern).WithCause(err)
	}

	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.NewNotFoundError("scenario path", root).WithCause(err)
		}
		if !info.IsDir() {
			add(filepath.Clean(root))
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && d.Name()[0] == '.' {
					return filepath.SkipDir
				}
				return nil
			}
			if g.Match(d.Name()) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to walk %s", root)
		}
	}

	sort.Strings(files)
	return files, nil
}
