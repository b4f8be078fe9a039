package resolver

import (
	"github.com/GlintPay/gkcc/keysource"
	"net/url"
	"strings"
)

// Authentication is how requests to the API server are signed. The variant
// set is closed: ServiceAccountToken, BasicAuth and ClientCertificates are
// the only implementations, so consumers can switch exhaustively.
type Authentication interface {
	sealedAuthentication()
}

// ServiceAccountToken - a bearer token, whether from a static kubeconfig
// field, an exec plugin, or the in-cluster mount.
type ServiceAccountToken struct {
	Token keysource.Source
}

// BasicAuth - username/password request signing.
type BasicAuth struct {
	Username string
	Password string
}

// ClientCertificates - mutual TLS with a client certificate and key.
// Password is only set for encrypted keys.
type ClientCertificates struct {
	Certificate keysource.Source
	Key         keysource.Source
	Password    string
}

func (ServiceAccountToken) sealedAuthentication() {}
func (BasicAuth) sealedAuthentication()           {}
func (ClientCertificates) sealedAuthentication()  {}

// ServerCertificate is the TLS trust policy for the API server connection.
// Closed variant set: Insecure or Secure.
type ServerCertificate interface {
	sealedServerCertificate()
}

// Insecure - no server certificate verification at all.
type Insecure struct{}

// Secure - verify against the given CA material.
type Secure struct {
	Certificate                 keysource.Source
	DisableHostnameVerification bool
}

func (Insecure) sealedServerCertificate() {}
func (Secure) sealedServerCertificate()   {}

// ClientConfig carries per-connection client behaviour.
type ClientConfig struct {
	Debug             bool
	ServerCertificate ServerCertificate
}

// ClusterConfig is the terminal, immutable cluster-connection descriptor:
// everything an HTTP/TLS transport needs to reach one API server. Key
// material stays as opaque Source descriptors; nothing is materialized here.
type ClusterConfig struct {
	Host           *url.URL
	Authentication Authentication
	Client         ClientConfig
}

// DropTrailingDot returns a copy with a trailing dot stripped from the URI
// hostname, preserving any port. Works around TLS hostname-verification
// mismatches against certificates issued without the root dot. No-op when
// the hostname has no trailing dot.
func (c ClusterConfig) DropTrailingDot() ClusterConfig {
	hostname := c.Host.Hostname()
	if !strings.HasSuffix(hostname, ".") {
		return c
	}

	rewritten := *c.Host
	rewritten.Host = strings.TrimSuffix(hostname, ".")
	if port := c.Host.Port(); port != "" {
		rewritten.Host += ":" + port
	}

	c.Host = &rewritten
	return c
}
