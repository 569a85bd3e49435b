package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/dgallion1/routelens/internal/parser"
)

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	".gradle":      true,
	".idea":        true,
	"build":        true,
	"node_modules": true,
	"target":       true,
}

// discover expands paths into the supported source files they name. Files
// given explicitly are always kept; files found by walking a directory must
// match include, which is matched against the slash-separated path relative
// to that directory.
func discover(paths []string, include string) ([]string, error) {
	var g glob.Glob
	if include != "" {
		var err error
		if g, err = glob.Compile(include, '/'); err != nil {
			return nil, fmt.Errorf("invalid --include pattern %q: %w", include, err)
		}
	}

	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if !parser.IsSupportedExtension(path) {
				return nil
			}
			if g != nil && !matches(g, include, root, path) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	sort.Strings(out)
	return out, nil
}

// matches also tries a leading "**/" pattern against top-level files, so
// "**/*.java" matches both "A.java" and "pkg/A.java".
func matches(g glob.Glob, pattern, root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if g.Match(rel) {
		return true
	}
	if !strings.Contains(rel, "/") && strings.HasPrefix(pattern, "**/") {
		if sg, err := glob.Compile(strings.TrimPrefix(pattern, "**/"), '/'); err == nil {
			return sg.Match(rel)
		}
	}
	return false
}
