//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "tarjama"

// Default target to run when none is specified
var Default = Build

// Build compiles the tarjama binary
func Build() error {
	return sh.RunV("go", "build", "-o", binary, "./cmd/tarjama")
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install installs tarjama into $GOPATH/bin
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "./cmd/tarjama")
}

// Clean removes the binary and leftover audio files
func Clean() error {
	if err := sh.Rm(binary); err != nil {
		return err
	}
	matches, _ := filepath.Glob(filepath.Join(os.TempDir(), "audio_*.mp3"))
	for _, m := range matches {
		if err := sh.Rm(m); err != nil {
			return err
		}
	}
	return nil
}
