package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// skipDirs are never descended into when expanding a directory argument.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
}

// expandPaths replaces each directory in paths with the source files
// beneath it. Hidden directories and skipDirs are skipped and only files
// with a known extension are kept. Plain files and "-" pass through
// unchanged. Duplicates are dropped by absolute path.
func expandPaths(paths []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)

	add := func(p string) {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			return
		}
		seen[abs] = true
		out = append(out, p)
	}

	for _, root := range paths {
		if root == "-" {
			out = append(out, root)
			continue
		}
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			// readSource reports missing files.
			add(root)
			continue
		}

		var found []string
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if path != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
					return filepath.SkipDir
				}
				return nil
			}
			if _, ok := languageByExt[strings.ToLower(filepath.Ext(path))]; ok {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}
	return out, nil
}
