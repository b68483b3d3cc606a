//go:build integration

package integration

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cualquiercosa327/robot-odyssey-rewired/cmd/rosave/cli"
	"github.com/cualquiercosa327/robot-odyssey-rewired/cmd/rosave/cli/codec/codectest"
)

// TestEnv is a save directory with an archive and a set of game assets.
type TestEnv struct {
	t       *testing.T
	SaveDir string
	Assets  string
}

// NewTestEnv creates an empty save directory and writes stand-in assets.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	return &TestEnv{
		t:       t,
		SaveDir: t.TempDir(),
		Assets:  codectest.WriteAssets(t),
	}
}

// RunCLI runs rosave against the environment's save directory and assets.
func (e *TestEnv) RunCLI(args ...string) (stdout, stderr string, err error) {
	e.t.Helper()
	cmd := cli.NewRootCmd()
	cmd.SetArgs(append([]string{"--dir", e.SaveDir, "--assets", e.Assets}, args...))

	outBuf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)

	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

// Init runs rosave init and fails the test on error.
func (e *TestEnv) Init() {
	e.t.Helper()
	if _, stderr, err := e.RunCLI("init"); err != nil {
		e.t.Fatalf("init: %v (stderr: %s)", err, stderr)
	}
}

func assertQueryContains(t *testing.T, env *TestEnv, query, want string) {
	t.Helper()
	stdout, stderr, err := env.RunCLI("query", query)
	if err != nil {
		t.Fatalf("query %q: %v (stderr: %s)", query, err, stderr)
	}
	if !strings.Contains(stdout, want) {
		t.Errorf("query %q: expected %s in %q", query, want, stdout)
	}
}
