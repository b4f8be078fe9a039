package kubeconfig

import (
	"errors"
	"fmt"
	"github.com/caarlos0/env/v6"
	"github.com/rs/zerolog/log"
	"os"
	"path/filepath"
	"sigs.k8s.io/yaml"
)

// ErrNotFound covers every failed lookup on the resolution path: no
// kubeconfig file, or a named context/cluster/user missing from it.
var ErrNotFound = errors.New("not found")

type environ struct {
	Kubeconfig string `env:"KUBECONFIG"`
}

// Locate determines the kubeconfig path: an explicit override wins, then the
// KUBECONFIG environment variable, then `<home>/.kube/config`. When the home
// directory is unknown too, there is nothing left to try.
func Locate(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	var e environ
	if err := env.Parse(&e); err != nil {
		return "", fmt.Errorf("environment: %w", err)
	}
	if e.Kubeconfig != "" {
		log.Debug().Str("path", e.Kubeconfig).Msg("Using KUBECONFIG")
		return e.Kubeconfig, nil
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", fmt.Errorf("no KUBECONFIG set and home directory unknown: %w", ErrNotFound)
	}
	return filepath.Join(home, ".kube", "config"), nil
}

// Load parses the kubeconfig file at path. The model is parsed fresh on every
// call; nothing is cached.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("kubeconfig %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("reading kubeconfig %s: %w", path, err)
	}

	var config Config
	if e := yaml.Unmarshal(data, &config); e != nil {
		return nil, fmt.Errorf("parsing kubeconfig %s: %w", path, e)
	}

	config.Path = path
	return &config, nil
}
