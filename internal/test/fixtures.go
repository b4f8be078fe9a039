// Package test holds shared test fixtures: on-disk kubeconfig files and fake
// exec credential plugins.
package test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteKubeconfig writes content as a kubeconfig file under dir and returns
// its path.
func WriteKubeconfig(t *testing.T, dir string, content string) string {
	t.Helper()

	path := filepath.Join(dir, "config")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing kubeconfig fixture: %v", err)
	}
	return path
}

// FakeExecPlugin writes an executable shell script under dir that prints
// stdout and exits with exitCode, returning its path.
func FakeExecPlugin(t *testing.T, dir string, name string, stdout string, exitCode int) string {
	t.Helper()

	script := fmt.Sprintf("#!/bin/sh\ncat <<'EOF'\n%s\nEOF\nexit %d\n", stdout, exitCode)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("writing fake plugin: %v", err)
	}
	return path
}

// FakeEnvEchoPlugin writes an executable shell script that emits a valid
// v1beta1 credential whose token is the value of the given environment
// variable, for asserting environment injection.
func FakeEnvEchoPlugin(t *testing.T, dir string, name string, envVar string) string {
	t.Helper()

	script := fmt.Sprintf(`#!/bin/sh
printf '{"kind":"ExecCredential","apiVersion":"client.authentication.k8s.io/v1beta1","status":{"token":"%%s"}}' "$%s"
`, envVar)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("writing fake plugin: %v", err)
	}
	return path
}
