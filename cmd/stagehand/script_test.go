// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// binaryPath is the stagehand binary built once for the script tests.
var binaryPath string

func TestMain(m *testing.M) {
	binDir, err := os.MkdirTemp("", "stagehand-bin-")
	if err != nil {
		panic("failed to create bin directory: " + err.Error())
	}
	binaryPath = filepath.Join(binDir, "stagehand")

	// The module root is two levels up from cmd/stagehand.
	build := exec.CommandContext(context.Background(), "go", "build", "-o", binaryPath, "../..")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		panic("failed to build stagehand: " + err.Error())
	}

	code := m.Run()
	_ = os.RemoveAll(binDir)
	os.Exit(code)
}

// TestCLI runs every testscript under testdata/script.
func TestCLI(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: filepath.Join("testdata", "script"),
		Setup: func(env *testscript.Env) error {
			binDir := filepath.Dir(binaryPath)
			fakes := filepath.Join(env.WorkDir, "bin")
			env.Setenv("PATH", fakes+string(os.PathListSeparator)+binDir+string(os.PathListSeparator)+env.Getenv("PATH"))
			env.Setenv("STAGEHAND_LOG_LEVEL", "")
			return nil
		},
	})
}
