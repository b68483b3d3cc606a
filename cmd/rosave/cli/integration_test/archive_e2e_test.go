//go:build integration

package integration

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cualquiercosa327/robot-odyssey-rewired/cmd/rosave/cli/codec"
	"github.com/cualquiercosa327/robot-odyssey-rewired/cmd/rosave/cli/codec/codectest"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestArchive_E2E_FullPipeline(t *testing.T) {
	env := NewTestEnv(t)
	env.Init()

	save := filepath.Join(env.SaveDir, "GAME1.GSV")
	first := codectest.SaveFile(9000)
	writeFile(t, save, first)

	// --- First checkpoint ---

	stdout, stderr, err := env.RunCLI("checkpoint", "game1", save)
	if err != nil {
		t.Fatalf("checkpoint: %v (stderr: %s)", err, stderr)
	}
	firstID := strings.Fields(stdout)[0]

	assertQueryContains(t, env, "SELECT count(*) AS n FROM snapshots", `"n":1`)
	assertQueryContains(t, env, "SELECT version FROM snapshots", `"version":17`)
	assertQueryContains(t, env, "SELECT plain_size FROM snapshots", `"plain_size":9000`)
	assertQueryContains(t, env, "SELECT count(*) AS n FROM snapshots WHERE blob_size < plain_size", `"n":1`)

	// --- Idempotency: same save is not stored twice ---

	stdout, _, err = env.RunCLI("checkpoint", "game1", save)
	if err != nil {
		t.Fatalf("checkpoint idempotent: %v", err)
	}
	if !strings.Contains(stdout, "unchanged") {
		t.Errorf("expected unchanged, got %q", stdout)
	}
	assertQueryContains(t, env, "SELECT count(*) AS n FROM snapshots", `"n":1`)

	// --- Second checkpoint after the game moved on ---

	second := append(bytes.Clone(first), []byte("ROOM,63,ROBOT,2,9,CHIP,WALLHUG.CHP\n")...)
	writeFile(t, save, second)
	stdout, _, err = env.RunCLI("checkpoint", "game1", save)
	if err != nil {
		t.Fatalf("checkpoint 2: %v", err)
	}
	secondID := strings.Fields(stdout)[0]

	// A second slot.
	other := filepath.Join(env.SaveDir, "GAME2.GSV")
	writeFile(t, other, codectest.SaveFile(100))
	if _, _, err := env.RunCLI("checkpoint", "game2", other); err != nil {
		t.Fatalf("checkpoint game2: %v", err)
	}

	assertQueryContains(t, env, "SELECT count(*) AS n FROM snapshots", `"n":3`)
	assertQueryContains(t, env, "SELECT count(DISTINCT dict_fingerprint) AS n FROM snapshots", `"n":1`)

	// --- Log filters by slot, newest first ---

	stdout, _, err = env.RunCLI("log", "--slot", "game1")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 game1 snapshots, got:\n%s", stdout)
	}
	if !strings.HasPrefix(lines[0], secondID) || !strings.HasPrefix(lines[1], firstID) {
		t.Errorf("log not newest first:\n%s", stdout)
	}

	// --- Restore both versions ---

	for id, want := range map[string][]byte{firstID: first, secondID: second} {
		out := filepath.Join(env.SaveDir, id+".GSV")
		if _, stderr, err := env.RunCLI("restore", id, out); err != nil {
			t.Fatalf("restore %s: %v (stderr: %s)", id, err, stderr)
		}
		got, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("restore %s: content differs", id)
		}
	}
}

func TestArchive_E2E_PackMatchesCheckpoint(t *testing.T) {
	env := NewTestEnv(t)
	env.Init()

	save := filepath.Join(env.SaveDir, "GAME.GSV")
	writeFile(t, save, codectest.SaveFile(4000))
	blob := filepath.Join(env.SaveDir, "GAME.RSV")

	if _, _, err := env.RunCLI("pack", save, blob); err != nil {
		t.Fatalf("pack: %v", err)
	}
	if _, _, err := env.RunCLI("checkpoint", "game", save); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}

	packed, err := os.ReadFile(blob)
	if err != nil {
		t.Fatal(err)
	}
	if packed[0] != codec.SaveVersion {
		t.Fatalf("version byte 0x%02x", packed[0])
	}
	// Compression is deterministic, so the archived blob has the same size.
	assertQueryContains(t, env, "SELECT blob_size FROM snapshots", `"blob_size":`+strconv.Itoa(len(packed)))
}

func TestArchive_E2E_Reinit(t *testing.T) {
	env := NewTestEnv(t)
	env.Init()

	save := filepath.Join(env.SaveDir, "GAME.GSV")
	writeFile(t, save, codectest.SaveFile(500))
	if _, _, err := env.RunCLI("checkpoint", "game", save); err != nil {
		t.Fatalf("checkpoint: %v", err)
	}

	env.Init()
	assertQueryContains(t, env, "SELECT count(*) AS n FROM snapshots", `"n":0`)
}
