// Package exetest builds and runs executables for tests that read records
// through a symbol table.
//
// Binaries linked by "go test" and "go run" carry no symbol table, so a test
// cannot resolve records linked into itself. Instead, the records are linked
// into a separate program built with "go build", which keeps the table.
package exetest

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// Target selects the platform an executable is built for.
// The zero value builds for the host.
type Target struct {
	GOOS   string
	GOARCH string
}

// Build compiles a main package with "go build", run from within dir.
// args are passed to the build command and name the package or files to build,
// optionally preceded by build flags. Build returns the path of the executable.
func Build(t *testing.T, dir string, args ...string) string {
	t.Helper()
	return Target{}.Build(t, dir, args...)
}

// Build compiles a main package for the target, see Build.
func (target Target) Build(t *testing.T, dir string, args ...string) string {
	t.Helper()
	if testing.Short() {
		t.Skip("building executables in short mode")
	}
	if target.GOOS == "" && runtime.GOOS == "windows" {
		t.Skip("PE executables are not supported")
	}

	exe := filepath.Join(t.TempDir(), "test.exe")
	cmd := exec.Command(goTool(t), append([]string{"build", "-o", exe}, args...)...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	if target.GOOS != "" {
		cmd.Env = append(cmd.Env, "GOOS="+target.GOOS, "GOARCH="+target.GOARCH, "CGO_ENABLED=0")
	}
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "go build %v in %s:\n%s", args, dir, out)
	return exe
}

// Result is the outcome of running an executable.
type Result struct {
	Stdout []byte
	Stderr string
	Code   int
}

// Run executes exe with the given arguments and waits for it to exit.
func Run(t *testing.T, exe string, args ...string) Result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(exe, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		require.NoError(t, err, "run %s", exe)
	}
	return Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.String(),
		Code:   cmd.ProcessState.ExitCode(),
	}
}

// goTool returns the go command of the toolchain running the tests.
func goTool(t *testing.T) string {
	name := "go"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	if path := filepath.Join(runtime.GOROOT(), "bin", name); fileExists(path) {
		return path
	}
	path, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go command not found")
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
