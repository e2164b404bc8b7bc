//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// run executes the built CLI with the given arguments.
func run(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Fetch pulls projects, publications, and the funder's graph listing.
func Fetch() error {
	mg.Deps(Build, Init)
	if err := run("fetch", "projects"); err != nil {
		return err
	}
	if err := run("fetch", "publications"); err != nil {
		return err
	}
	return run("fetch", "graph")
}

// Resolve runs the search-API lookups and the Horizon ID resolution.
func Resolve() error {
	mg.Deps(Build)
	if err := run("lookup"); err != nil {
		return err
	}
	return run("resolve")
}

// Reconcile computes open-access verdicts from the fetched publications.
func Reconcile() error {
	mg.Deps(Build)
	return run("openaccess", "reconcile")
}

// Test runs the full test suite.
func Test() error {
	cmd := exec.Command("go", "test", "./...")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
