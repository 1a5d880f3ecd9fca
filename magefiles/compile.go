//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Scenes mg.Namespace

// Compiles every wavefront scene under the scenes directory.
func (Scenes) Compile() error {
	mg.Deps(Build.Binary)

	sources, err := filepath.Glob(filepath.Join("scenes", "*.obj"))
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return nil
	}

	args := append([]string{"compile", "--out-dir", filepath.Join("scenes", "compiled")}, sources...)
	return sh.RunV("./"+binary, args...)
}
