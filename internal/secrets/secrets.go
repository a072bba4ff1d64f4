// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of files. Each
// regular file becomes one secret: the file name is the key and the
// trimmed contents are the value. The translate command expects its API
// key under "translator-api-key".
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads every regular file in dir into a map keyed by file name.
// A missing directory is not an error; it yields an empty map so
// commands that never touch external APIs run without a secrets setup.
// Dotfiles, subdirectories, and files that trim to empty are skipped.
// Unreadable files produce a warning on stderr rather than failing the
// whole load.
func Load(dir string) (map[string]string, error) {
	out := make(map[string]string)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping secret %s: %v\n", entry.Name(), err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value == "" {
			continue
		}
		out[entry.Name()] = value
	}

	return out, nil
}
