package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/semmap/rules"
)

// resolveInputs expands glob patterns to snapshot files. Plain paths are
// returned as given; patterns support ** for recursive matching. The
// result is sorted and free of duplicates.
func resolveInputs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		if !hasMeta(pattern) {
			if _, err := os.Stat(pattern); err != nil {
				return nil, fmt.Errorf("snapshot %s: %w", pattern, err)
			}
			if !seen[pattern] {
				seen[pattern] = true
				files = append(files, pattern)
			}
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob error: %w", err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no snapshot matches %s", pattern)
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			if !seen[match] {
				seen[match] = true
				files = append(files, match)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

func hasMeta(path string) bool {
	for _, c := range filepath.ToSlash(path) {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// loadSnapshot reads a snapshot file and converts its rows into rules.
func loadSnapshot(path string) (*rules.Snapshot, []rules.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read snapshot: %w", err)
	}
	snap, err := rules.DecodeSnapshot(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	rs, err := snap.ToRules()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, rs, nil
}
