// Package main provides build targets for the facet project using Mage.
//
// Usage:
//
//	mage build    Compile facet binary to bin/
//	mage test     Run all tests with race detection
//	mage cover    Run tests with a coverage profile
//	mage lint     Run go vet
//	mage clean    Remove build artifacts
//	mage install  Install facet to GOPATH/bin

//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "facet"
	cmdDir     = "./cmd/facet"
	binDir     = "bin"
)

// Build compiles the facet binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(binDir, binaryName)
	fmt.Println("Building", out)
	return sh.RunV("go", "build", "-o", out, cmdDir)
}

// Test runs all tests with race detection.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Cover runs tests with coverage and writes coverage.out.
func Cover() error {
	return sh.RunV("go", "test", "-coverprofile=coverage.out", "./...")
}

// Lint runs go vet across the module.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Install builds and installs the facet binary into GOPATH/bin.
func Install() error {
	mg.Deps(Lint)
	return sh.RunV("go", "install", cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binDir); err != nil {
		return err
	}
	return sh.Rm("coverage.out")
}
