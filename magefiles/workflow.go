//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// run executes the built CLI binary with the given arguments.
func run(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("localize-engine %s: %w", args[0], err)
	}
	return nil
}

// Extract runs mapping validation followed by message extraction.
func Extract() error {
	mg.Deps(Build)
	if err := run("check"); err != nil {
		return err
	}
	return run("extract")
}

// Update merges the current template into every language catalog.
func Update() error {
	mg.Deps(Build)
	return run("update")
}

// Compile compiles every language catalog into loadable message files.
func Compile() error {
	mg.Deps(Build)
	return run("compile")
}

// Index rebuilds the searchable message index from the catalogs.
func Index() error {
	mg.Deps(Build)
	return run("index", "build")
}
