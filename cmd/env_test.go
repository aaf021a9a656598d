// The cmd/ package tests exercise the built binary end to end: flag
// parsing, configuration, the extensions and the engine, against an
// in-process fake WordPress.

package cmd

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Dyc3r/docs2cms/internal/wordpress/wptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the d2cms binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "d2cms-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "d2cms"
		if os.PathSeparator == '\\' {
			binaryName = "d2cms.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		wd, err := os.Getwd()
		if err != nil {
			buildErr = err
			return
		}

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = filepath.Dir(wd)
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

// testEnv is a docs directory, a fake WordPress and an isolated HOME.
type testEnv struct {
	t      *testing.T
	binary string
	docs   string // docs root
	work   string // working directory of the process
	home   string
	srv    *wptest.Server
	env    map[string]string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	e := &testEnv{
		t:      t,
		binary: buildBinary(t),
		docs:   t.TempDir(),
		work:   t.TempDir(),
		home:   t.TempDir(),
		srv:    wptest.New(t),
	}
	e.env = map[string]string{
		"D2CMS_DOCS_DIR":    e.docs,
		"D2CMS_WP_API_ROOT": e.srv.URL(),
		"D2CMS_WP_API_USER": "editor",
		"D2CMS_WP_API_KEY":  "app-password-1234",
		"D2CMS_AUTH_MODE":   "basic",
	}
	return e
}

// environ returns the process environment with every D2CMS_ variable
// replaced by the test's own.
func (e *testEnv) environ() []string {
	var env []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "D2CMS_") || strings.HasPrefix(kv, "HOME=") {
			continue
		}
		env = append(env, kv)
	}
	env = append(env, "HOME="+e.home)
	for k, v := range e.env {
		env = append(env, k+"="+v)
	}
	return env
}

// run executes d2cms and returns combined output, failing the test on error.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	require.NoError(e.t, err, "d2cms %v\noutput: %s", args, out)
	return out
}

// runErr executes d2cms and returns combined output and the exit error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()
	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.work
	cmd.Env = e.environ()
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// stdout executes d2cms and returns stdout only, for JSON parsing.
func (e *testEnv) stdout(args ...string) (string, error) {
	e.t.Helper()
	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.work
	cmd.Env = e.environ()
	var buf bytes.Buffer
	cmd.Stdout = &buf
	err := cmd.Run()
	return buf.String(), err
}

// write creates a document below the docs root.
func (e *testEnv) write(rel, content string) string {
	e.t.Helper()
	path := filepath.Join(e.docs, filepath.FromSlash(rel))
	require.NoError(e.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (e *testEnv) read(rel string) string {
	e.t.Helper()
	data, err := os.ReadFile(filepath.Join(e.docs, filepath.FromSlash(rel)))
	require.NoError(e.t, err)
	return string(data)
}

func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}
