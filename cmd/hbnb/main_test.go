// End-to-end tests that drive the built hbnb binary through its stdin.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// hbnbBin is the binary built by TestMain.
var hbnbBin string

// TestMain builds the hbnb binary once before running tests.
func TestMain(m *testing.M) {
	root, err := findProjectRoot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	tmpDir, err := os.MkdirTemp("", "hbnb-test-*")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	hbnbBin = filepath.Join(tmpDir, "hbnb")

	cmd := exec.Command("go", "build", "-o", hbnbBin, "./cmd/hbnb")
	cmd.Dir = root
	if output, err := cmd.CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "build hbnb: %v\n%s", err, output)
		os.RemoveAll(tmpDir)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// findProjectRoot walks up from the working directory to the go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found")
		}
		dir = parent
	}
}

type result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// runHbnb runs the binary in an isolated config and data directory.
func runHbnb(t *testing.T, dataDir, stdin string, args ...string) result {
	t.Helper()
	args = append([]string{"--config-dir", filepath.Join(dataDir, ".config"), "--data-dir", dataDir}, args...)
	cmd := exec.Command(hbnbBin, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := result{}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("run hbnb: %v", err)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	return res
}

func TestSessionExitsCleanlyOnEOF(t *testing.T) {
	dir := t.TempDir()
	res := runHbnb(t, dir, "create User\n")
	if res.ExitCode != 0 {
		t.Fatalf("exit code %d, stderr: %s", res.ExitCode, res.Stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, "file.json")); err != nil {
		t.Errorf("file.json not written: %v", err)
	}
}

func TestCreateUpdateShowAcrossProcesses(t *testing.T) {
	dir := t.TempDir()

	res := runHbnb(t, dir, "create User\nquit\n")
	lines := strings.Split(res.Stdout, "\n")
	id := strings.TrimSpace(strings.TrimPrefix(lines[0], "(hbnb) "))
	if id == "" {
		t.Fatalf("no id in output %q", res.Stdout)
	}

	runHbnb(t, dir, fmt.Sprintf("update User %s first_name \"Alice\"\n", id))

	res = runHbnb(t, dir, fmt.Sprintf("User.show(%q)\n", id))
	if !strings.Contains(res.Stdout, "'first_name': 'Alice'") {
		t.Errorf("show output missing first_name: %q", res.Stdout)
	}

	runHbnb(t, dir, fmt.Sprintf("destroy User %s\n", id))
	res = runHbnb(t, dir, fmt.Sprintf("show User %s\n", id))
	if !strings.Contains(res.Stdout, "** no instance found **") {
		t.Errorf("expected not-found after destroy, got %q", res.Stdout)
	}
}

func TestBadBackendExitsWithError(t *testing.T) {
	res := runHbnb(t, t.TempDir(), "", "--backend", "mongo")
	if res.ExitCode != 1 {
		t.Errorf("exit code %d, want 1", res.ExitCode)
	}
	if !strings.Contains(res.Stderr, "unknown backend") {
		t.Errorf("stderr %q does not name the problem", res.Stderr)
	}
}

func TestVersionCommand(t *testing.T) {
	res := runHbnb(t, t.TempDir(), "", "version")
	if res.ExitCode != 0 || !strings.HasPrefix(res.Stdout, "hbnb ") {
		t.Errorf("unexpected version output %q (exit %d)", res.Stdout, res.ExitCode)
	}
}
