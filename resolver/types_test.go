package resolver

import (
	"github.com/GlintPay/gkcc/keysource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/url"
	"testing"
)

func clusterConfigForHost(t *testing.T, rawURL string) ClusterConfig {
	t.Helper()
	host, err := url.Parse(rawURL)
	require.NoError(t, err)

	return ClusterConfig{
		Host:           host,
		Authentication: ServiceAccountToken{Token: keysource.Literal{Value: "abc"}},
		Client:         ClientConfig{ServerCertificate: Insecure{}},
	}
}

func TestDropTrailingDot(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected string
	}{
		{name: "strips trailing dot", host: "https://k8s.example.com.:6443", expected: "https://k8s.example.com:6443"},
		{name: "strips without port", host: "https://k8s.example.com.", expected: "https://k8s.example.com"},
		{name: "no-op without trailing dot", host: "https://k8s.example.com:6443", expected: "https://k8s.example.com:6443"},
		{name: "path preserved", host: "https://k8s.example.com./api", expected: "https://k8s.example.com/api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dropped := clusterConfigForHost(t, tt.host).DropTrailingDot()
			assert.Equal(t, tt.expected, dropped.Host.String())
		})
	}
}

func TestDropTrailingDotIdempotent(t *testing.T) {
	once := clusterConfigForHost(t, "https://k8s.example.com.:6443").DropTrailingDot()
	twice := once.DropTrailingDot()

	assert.Equal(t, once.Host.String(), twice.Host.String())
}

func TestDropTrailingDotCopies(t *testing.T) {
	original := clusterConfigForHost(t, "https://k8s.example.com.:6443")
	dropped := original.DropTrailingDot()

	assert.Equal(t, "https://k8s.example.com.:6443", original.Host.String())
	assert.NotSame(t, original.Host, dropped.Host)
	assert.Equal(t, original.Authentication, dropped.Authentication)
	assert.Equal(t, original.Client, dropped.Client)
}
