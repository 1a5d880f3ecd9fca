//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "polaris"

type Build mg.Namespace

// Builds the polaris binary.
func (Build) Binary() error {
	fmt.Println("Building polaris...")
	return sh.RunV("go", "build", "-o", binary, ".")
}

// Removes build artifacts.
func (Build) Clean() error {
	return sh.Rm(binary)
}

type Check mg.Namespace

// Runs the test suite.
func (Check) Test() error {
	return sh.RunV("go", "test", "./...")
}

// Runs the test suite with the race detector enabled.
func (Check) Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Runs go vet.
func (Check) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Runs vet and the test suite.
func (Check) All() {
	mg.SerialDeps(Check.Vet, Check.Test)
}
