// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads API credentials from a directory of plain-text
// files, one secret per file: the filename is the key and the trimmed
// file contents are the value. research-mentor looks for openai-api-key,
// unpaywall-email, and openalex-email.
//
// Keeping secrets in individual files keeps them out of the config file
// and out of shell history; the directory is expected to be gitignored.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Load reads every regular file in dir into a key-to-value map. Dotfiles
// and files that are empty after trimming are skipped. A missing
// directory is not an error and yields an empty map; unreadable files
// are skipped with a note on stderr so one bad permission bit does not
// take down the whole run.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		value, err := readValue(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// readValue returns the trimmed contents of a single secret file.
func readValue(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Names returns the loaded key names in sorted order, for logging which
// secrets were found without logging their values.
func Names(secrets map[string]string) []string {
	names := make([]string, 0, len(secrets))
	for name := range secrets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
