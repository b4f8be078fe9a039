package restconfig

import (
	"encoding/base64"
	"github.com/GlintPay/gkcc/keysource"
	"github.com/GlintPay/gkcc/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/url"
	"testing"
)

func descriptor(auth resolver.Authentication, cert resolver.ServerCertificate) *resolver.ClusterConfig {
	return &resolver.ClusterConfig{
		Host:           &url.URL{Scheme: "https", Host: "k8s.example.com:6443"},
		Authentication: auth,
		Client:         resolver.ClientConfig{ServerCertificate: cert},
	}
}

func TestNewWithBearerTokenFile(t *testing.T) {
	restConfig, err := New(descriptor(
		resolver.ServiceAccountToken{Token: keysource.File{Path: "/var/run/token"}},
		resolver.Insecure{},
	))

	require.NoError(t, err)
	assert.Equal(t, "https://k8s.example.com:6443", restConfig.Host)
	assert.Equal(t, "/var/run/token", restConfig.BearerTokenFile)
	assert.Empty(t, restConfig.BearerToken)
	assert.True(t, restConfig.TLSClientConfig.Insecure)
}

func TestNewWithLiteralToken(t *testing.T) {
	restConfig, err := New(descriptor(
		resolver.ServiceAccountToken{Token: keysource.Literal{Value: "abc123"}},
		resolver.Insecure{},
	))

	require.NoError(t, err)
	assert.Equal(t, "abc123", restConfig.BearerToken)
	assert.Empty(t, restConfig.BearerTokenFile)
}

func TestNewWithBasicAuth(t *testing.T) {
	restConfig, err := New(descriptor(
		resolver.BasicAuth{Username: "admin", Password: "hunter2"},
		resolver.Insecure{},
	))

	require.NoError(t, err)
	assert.Equal(t, "admin", restConfig.Username)
	assert.Equal(t, "hunter2", restConfig.Password)
}

func TestNewWithClientCertificates(t *testing.T) {
	certData := base64.StdEncoding.EncodeToString([]byte("cert-pem"))

	restConfig, err := New(descriptor(
		resolver.ClientCertificates{
			Certificate: keysource.Base64{Encoded: certData},
			Key:         keysource.File{Path: "/etc/k8s/client.key"},
		},
		resolver.Insecure{},
	))

	require.NoError(t, err)
	assert.Equal(t, []byte("cert-pem"), restConfig.TLSClientConfig.CertData)
	assert.Equal(t, "/etc/k8s/client.key", restConfig.TLSClientConfig.KeyFile)
}

func TestNewRejectsEncryptedKey(t *testing.T) {
	_, err := New(descriptor(
		resolver.ClientCertificates{
			Certificate: keysource.File{Path: "/etc/k8s/client.crt"},
			Key:         keysource.File{Path: "/etc/k8s/client.key"},
			Password:    "secret",
		},
		resolver.Insecure{},
	))

	assert.ErrorContains(t, err, "encrypted client keys")
}

func TestNewWithSecureCA(t *testing.T) {
	tests := []struct {
		name   string
		source keysource.Source
		check  func(t *testing.T, caFile string, caData []byte)
	}{
		{
			name:   "file CA",
			source: keysource.File{Path: "/etc/k8s/ca.crt"},
			check: func(t *testing.T, caFile string, caData []byte) {
				assert.Equal(t, "/etc/k8s/ca.crt", caFile)
				assert.Empty(t, caData)
			},
		},
		{
			name:   "inline CA",
			source: keysource.Base64{Encoded: base64.StdEncoding.EncodeToString([]byte("ca-pem"))},
			check: func(t *testing.T, caFile string, caData []byte) {
				assert.Empty(t, caFile)
				assert.Equal(t, []byte("ca-pem"), caData)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restConfig, err := New(descriptor(
				resolver.BasicAuth{Username: "admin", Password: "pw"},
				resolver.Secure{Certificate: tt.source},
			))

			require.NoError(t, err)
			assert.False(t, restConfig.TLSClientConfig.Insecure)
			tt.check(t, restConfig.TLSClientConfig.CAFile, restConfig.TLSClientConfig.CAData)
		})
	}
}

func TestNewRejectsHostnameVerificationBypass(t *testing.T) {
	_, err := New(descriptor(
		resolver.BasicAuth{Username: "admin", Password: "pw"},
		resolver.Secure{
			Certificate:                 keysource.File{Path: "/etc/k8s/ca.crt"},
			DisableHostnameVerification: true,
		},
	))

	assert.ErrorContains(t, err, "hostname verification")
}
