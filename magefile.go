//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified.
var Default = Build

func Build() error {
	mg.Deps(BuildClusterize)
	fmt.Println("Compilation finished")
	return nil
}

func BuildClusterize() error {
	fmt.Println("Building clusterize executable...")
	cmd := exec.Command("go", "build", "-o", "./bin/clusterize", "./cmd/clusterize")
	cmd.Env = os.Environ()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Test runs the package test suite.
func Test() error {
	cmd := exec.Command("go", "test", "./...")
	cmd.Env = os.Environ()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
