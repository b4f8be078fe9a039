package execplugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/GlintPay/gkcc/kubeconfig"
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/rs/zerolog/log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedVersion - the plugin answered with an apiVersion outside the supported set
	ErrUnsupportedVersion = errors.New("unsupported exec credential api version")
	// ErrVersionMismatch - the plugin answered with a supported apiVersion that differs from the declared one
	ErrVersionMismatch = errors.New("exec credential api version mismatch")
	// ErrNoToken - the plugin response carried no status.token
	ErrNoToken = errors.New("exec credential response contains no token")
)

// SupportedVersions are the only `client.authentication.k8s.io` versions a
// plugin response may carry.
var SupportedVersions = []string{
	"client.authentication.k8s.io/v1alpha1",
	"client.authentication.k8s.io/v1beta1",
	"client.authentication.k8s.io/v1",
}

// Credentials is the JSON structure a plugin writes to stdout.
type Credentials struct {
	Kind       string `json:"kind"`
	APIVersion string `json:"apiVersion"`
	Status     Status `json:"status"`
}

type Status struct {
	Token               string `json:"token"`
	ExpirationTimestamp string `json:"expirationTimestamp,omitempty"`
}

// ProcessError - the plugin could not be launched or exited non-zero. It
// carries the configured install hint as remediation guidance, plus whatever
// the plugin wrote to stderr.
type ProcessError struct {
	Command     string
	InstallHint string
	Stderr      string
	Err         error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("exec plugin %s: %v", e.Command, e.Err)
	if e.Stderr != "" {
		msg += ": " + strings.TrimSpace(e.Stderr)
	}
	if e.InstallHint != "" {
		msg += "\n" + e.InstallHint
	}
	return msg
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// FetchToken runs the configured credential plugin once and returns the token
// from its response. There is no caching and no retry; every resolution pass
// re-runs the plugin. The subprocess is the only step that can block for
// unbounded time, so callers needing bounded latency should pass a ctx with a
// deadline.
//
// kubeconfigDir is the directory containing the kubeconfig that declared the
// plugin; relative commands containing a path separator resolve against it
// rather than the process working directory.
func FetchToken(ctx context.Context, cfg *kubeconfig.ExecConfig, kubeconfigDir string) (string, error) {
	command := resolveCommand(cfg.Command, kubeconfigDir)
	log.Debug().Str("command", command).Msg("Invoking exec credential plugin")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, command, cfg.Args...)
	cmd.Env = buildEnv(os.Environ(), cfg.Env)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &ProcessError{
			Command:     command,
			InstallHint: cfg.InstallHint,
			Stderr:      stderr.String(),
			Err:         err,
		}
	}

	var creds Credentials
	if e := json.Unmarshal(stdout.Bytes(), &creds); e != nil {
		return "", fmt.Errorf("parsing exec plugin response: %w", e)
	}

	if err := checkVersion(creds.APIVersion, cfg.APIVersion); err != nil {
		return "", err
	}

	if creds.Status.Token == "" {
		return "", ErrNoToken
	}
	return creds.Status.Token, nil
}

// resolveCommand anchors relative commands that contain a path separator to
// the kubeconfig's own directory. Bare names stay as-is for PATH lookup.
func resolveCommand(command string, kubeconfigDir string) string {
	if filepath.IsAbs(command) || !strings.ContainsRune(command, filepath.Separator) {
		return command
	}
	return filepath.Join(kubeconfigDir, command)
}

// buildEnv overlays the configured env entries onto the parent environment,
// preserving declaration order and deduplicating by name.
func buildEnv(parent []string, entries []kubeconfig.EnvVar) []string {
	merged := linkedhashmap.New()
	for _, kv := range parent {
		if name, value, ok := strings.Cut(kv, "="); ok {
			merged.Put(name, value)
		}
	}
	for _, e := range entries {
		merged.Put(e.Name, e.Value)
	}

	result := make([]string, 0, merged.Size())
	merged.Each(func(name any, value any) {
		result = append(result, fmt.Sprintf("%s=%s", name, value))
	})
	return result
}

func checkVersion(got string, declared string) error {
	supported := false
	for _, v := range SupportedVersions {
		if got == v {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: %s", ErrUnsupportedVersion, got)
	}

	if got != declared {
		return fmt.Errorf("%w: plugin returned %s, exec config declared %s", ErrVersionMismatch, got, declared)
	}
	return nil
}
