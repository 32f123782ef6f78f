package cli

import (
	"bytes"
	"encoding/json"
	"testing"
)

// Every JSON-producing command emits the {"data": ..., "meta": ...}
// envelope, so scripts can rely on .data unconditionally.
func TestOutputContract_JSONEnvelope_DefaultSuite(t *testing.T) {
	isolateEnv(t)

	b := newFakeBackend(t)
	b.docs = seedDocs(9)
	b.users = seedUsers()

	mustEnv := func(args ...string) map[string]any {
		t.Helper()
		base := []string{"--api-url", b.URL(), "--token", testToken}
		stdout, stderr, err := runCLI(t, append(base, args...))
		if err != nil {
			t.Fatalf("command failed: smartdoc-admin %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
		}
		var env map[string]any
		if err := json.Unmarshal(stdout, &env); err != nil {
			t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
		}
		if _, ok := env["data"]; !ok {
			t.Fatalf("expected JSON envelope to contain data key; got: %v\nstdout:\n%s", env, string(stdout))
		}
		if meta, ok := env["meta"]; ok && meta != nil {
			if _, ok := meta.(map[string]any); !ok {
				t.Fatalf("expected meta to be object; got %T", meta)
			}
		}
		return env
	}

	mustEnv("ping")
	mustEnv("documents", "list")
	mustEnv("documents", "list", "--all")
	mustEnv("documents", "list", "--search", "file", "--page", "2")
	mustEnv("users", "list")
	mustEnv("users", "delete", "2", "--yes")
	mustEnv("documents", "delete", "3")
	mustEnv("stats")
}

func TestOutputContract_PrettyPrintsIndented(t *testing.T) {
	isolateEnv(t)

	b := newFakeBackend(t)
	b.docs = seedDocs(2)

	out, errOut, err := runCLI(t, []string{"--api-url", b.URL(), "--token", testToken, "--pretty", "documents", "list"})
	if err != nil {
		t.Fatalf("documents list --pretty: %v\nstderr:\n%s", err, errOut)
	}
	if !bytes.Contains(out, []byte("\n  \"data\"")) {
		t.Fatalf("expected indented output; got:\n%s", string(out))
	}
}
