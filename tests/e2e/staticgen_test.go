// Package e2e contains end-to-end tests for the staticgen CLI.
// It drives a built binary so it can run against pre-built release artifacts.
package e2e

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// getBinaryName returns the test binary name with platform-specific extension
func getBinaryName() string {
	if runtime.GOOS == "windows" {
		return "staticgen-test.exe"
	}
	return "staticgen-test"
}

// getBinaryPath returns the path to execute the test binary.
// STATICGEN_BINARY overrides it (for CI with pre-built binaries).
func getBinaryPath(t *testing.T) string {
	if path := os.Getenv("STATICGEN_BINARY"); path != "" {
		return path
	}
	return filepath.Join(getProjectRoot(t), getBinaryName())
}

// buildBinary builds the CLI unless a pre-built binary is provided.
func buildBinary(t *testing.T) {
	t.Helper()
	if os.Getenv("STATICGEN_E2E") != "1" {
		t.Skip("Skipping E2E test (set STATICGEN_E2E=1 to run)")
	}
	if os.Getenv("STATICGEN_BINARY") != "" {
		return
	}

	buildCmd := exec.Command("go", "build", "-o", getBinaryName(), "./cmd/staticgen")
	buildCmd.Dir = getProjectRoot(t)
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build CLI: %v\n%s", err, out)
	}
	t.Cleanup(func() {
		os.Remove(filepath.Join(getProjectRoot(t), getBinaryName()))
	})
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command(getBinaryPath(t), args...)
	cmd.Env = append(os.Environ(), "STATICGEN_WEB_ROOT=", "STATICGEN_SERVER_NAME=")
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<h1>%s</h1>", r.Host)
	})
	mux.HandleFunc("/docs/{page}/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<h1>%s</h1>", r.PathValue("page"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// TestPublishCommand publishes pages from a live server and deletes one.
func TestPublishCommand(t *testing.T) {
	buildBinary(t)
	server := newSite(t)
	root := t.TempDir()

	_, stderr, err := runCLI(t, "/docs/install/\n/docs/usage/\n",
		"publish",
		"--web-root", root,
		"--server-name", "docs.example",
		"--base-url", server.URL,
		"--from-file=-",
		"/",
	)
	if err != nil {
		t.Fatalf("Publish command failed: %v\nstderr: %s", err, stderr)
	}

	home, err := os.ReadFile(filepath.Join(root, "index.html"))
	if err != nil {
		t.Fatalf("Home page not found: %v", err)
	}
	if string(home) != "<h1>docs.example</h1>" {
		t.Errorf("Unexpected home page: %s", home)
	}
	info, err := os.Stat(filepath.Join(root, "docs", "install", "index.html"))
	if err != nil {
		t.Fatalf("Docs page not found: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0644 {
		t.Errorf("Unexpected mode: %v", info.Mode().Perm())
	}

	_, stderr, err = runCLI(t, "", "delete", "--web-root", root, "/docs/install/")
	if err != nil {
		t.Fatalf("Delete command failed: %v\nstderr: %s", err, stderr)
	}
	if _, err := os.Stat(filepath.Join(root, "docs", "install")); !os.IsNotExist(err) {
		t.Errorf("Expected the emptied directory to be pruned, stat error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "docs", "usage", "index.html")); err != nil {
		t.Errorf("Sibling page should remain: %v", err)
	}
}

// TestPublishCommandFailure checks the exit status of a failed render.
func TestPublishCommandFailure(t *testing.T) {
	buildBinary(t)
	server := newSite(t)
	root := t.TempDir()

	_, _, err := runCLI(t, "", "publish", "--web-root", root, "--base-url", server.URL, "/missing")
	if err == nil {
		t.Fatal("Expected publish of a missing page to fail")
	}
	if _, statErr := os.Stat(filepath.Join(root, "missing")); !os.IsNotExist(statErr) {
		t.Errorf("Failed render should leave no file, stat error: %v", statErr)
	}
}

// TestPublishWithChrome renders through the chrome fetcher.
func TestPublishWithChrome(t *testing.T) {
	buildBinary(t)
	if os.Getenv("CHROME_PATH") == "" {
		t.Skip("Skipping Chrome test (set CHROME_PATH to run)")
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p id="p"></p><script>document.getElementById("p").textContent = "from script";</script></body></html>`)
	}))
	defer server.Close()
	root := t.TempDir()

	_, stderr, err := runCLI(t, "", "publish", "--web-root", root,
		"--fetcher", "chrome", "--base-url", server.URL, "/")
	if err != nil {
		t.Fatalf("Publish command failed: %v\nstderr: %s", err, stderr)
	}

	page, err := os.ReadFile(filepath.Join(root, "index.html"))
	if err != nil {
		t.Fatalf("Page not found: %v", err)
	}
	if !strings.Contains(string(page), "from script") {
		t.Errorf("Expected rendered markup, got: %s", page)
	}
}

// TestVersionCommand tests the version subcommand
func TestVersionCommand(t *testing.T) {
	buildBinary(t)

	stdout, _, err := runCLI(t, "", "version")
	if err != nil {
		t.Fatalf("Version command failed: %v", err)
	}
	if !strings.Contains(stdout, "staticgen") {
		t.Errorf("Unexpected version output: %s", stdout)
	}
}

func getProjectRoot(t *testing.T) string {
	// Start from current working directory and find go.mod
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("Could not find project root (go.mod)")
		}
		dir = parent
	}
}
