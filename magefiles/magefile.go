//go:build mage

// Package main contains Mage build targets for research-mentor developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

const (
	binDir  = "bin"
	binName = "research-mentor"
	cmdPkg  = "./cmd/research-mentor"
)

// projectDirs lists the working directories the workflows expect.
var projectDirs = []string{
	"archive",
	"reports",
	".secrets",
}

// Init creates the project directory structure.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

// Build compiles the CLI binary into bin/, stamping the version from git.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)

	args := []string{"build", "-o", out}
	if v := gitVersion(); v != "" {
		args = append(args, "-ldflags", "-X main.version="+v)
	}
	args = append(args, cmdPkg)

	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Clean removes the compiled binary and the local archive database.
func Clean() error {
	for _, path := range []string{binDir, filepath.Join("archive", "archive.db")} {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		fmt.Println("removed", path)
	}
	return nil
}

// gitVersion returns the output of git describe, or "" when not in a
// git checkout.
func gitVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// pkgStats accumulates line counts for one top-level package.
type pkgStats struct {
	prod int
	test int
}

// Stats prints non-blank Go line counts per top-level package, with
// production and test code split out.
func Stats() error {
	byPkg := make(map[string]*pkgStats)

	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if name != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == binDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}

		lines, err := countNonBlank(path)
		if err != nil {
			return err
		}

		pkg := topLevel(path)
		st := byPkg[pkg]
		if st == nil {
			st = &pkgStats{}
			byPkg[pkg] = st
		}
		if strings.HasSuffix(path, "_test.go") {
			st.test += lines
		} else {
			st.prod += lines
		}
		return nil
	})
	if err != nil {
		return err
	}

	pkgs := make([]string, 0, len(byPkg))
	for pkg := range byPkg {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	var totalProd, totalTest int
	fmt.Printf("%-24s  %8s  %8s\n", "package", "prod", "test")
	for _, pkg := range pkgs {
		st := byPkg[pkg]
		fmt.Printf("%-24s  %8d  %8d\n", pkg, st.prod, st.test)
		totalProd += st.prod
		totalTest += st.test
	}
	fmt.Printf("%-24s  %8d  %8d\n", "total", totalProd, totalTest)
	return nil
}

// topLevel maps a file path to its reporting bucket: the first two path
// elements for cmd/ and internal/ trees, the first element otherwise.
func topLevel(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) >= 3 && (parts[0] == "cmd" || parts[0] == "internal" || parts[0] == "pkg") {
		return parts[0] + "/" + parts[1]
	}
	if len(parts) >= 2 {
		return parts[0]
	}
	return "."
}

// countNonBlank counts the non-blank lines in a file.
func countNonBlank(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	count := 0
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		if len(bytes.TrimSpace(scanner.Bytes())) > 0 {
			count++
		}
	}
	return count, scanner.Err()
}
