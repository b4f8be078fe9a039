// Package restconfig maps a resolved cluster-connection descriptor onto a
// client-go rest.Config, for callers wiring the descriptor into the standard
// Kubernetes HTTP transport.
package restconfig

import (
	"fmt"
	"github.com/GlintPay/gkcc/keysource"
	"github.com/GlintPay/gkcc/resolver"
	"k8s.io/client-go/rest"
)

func New(clusterConfig *resolver.ClusterConfig) (*rest.Config, error) {
	restConfig := &rest.Config{
		Host: clusterConfig.Host.String(),
	}

	if err := applyAuthentication(restConfig, clusterConfig.Authentication); err != nil {
		return nil, err
	}
	if err := applyServerCertificate(restConfig, clusterConfig.Client.ServerCertificate); err != nil {
		return nil, err
	}

	return restConfig, nil
}

func applyAuthentication(restConfig *rest.Config, authentication resolver.Authentication) error {
	switch auth := authentication.(type) {
	case resolver.ServiceAccountToken:
		// File-based tokens stay file-based so client-go can re-read rotated
		// in-cluster mounts; anything else is materialized once.
		if file, ok := auth.Token.(keysource.File); ok {
			restConfig.BearerTokenFile = file.Path
			return nil
		}
		token, err := keysource.Text(auth.Token)
		if err != nil {
			return fmt.Errorf("bearer token: %w", err)
		}
		restConfig.BearerToken = token
		return nil

	case resolver.BasicAuth:
		restConfig.Username = auth.Username
		restConfig.Password = auth.Password
		return nil

	case resolver.ClientCertificates:
		if auth.Password != "" {
			return fmt.Errorf("encrypted client keys are not supported by the client-go transport")
		}
		if file, ok := auth.Certificate.(keysource.File); ok {
			restConfig.TLSClientConfig.CertFile = file.Path
		} else {
			data, err := keysource.Bytes(auth.Certificate)
			if err != nil {
				return fmt.Errorf("client certificate: %w", err)
			}
			restConfig.TLSClientConfig.CertData = data
		}
		if file, ok := auth.Key.(keysource.File); ok {
			restConfig.TLSClientConfig.KeyFile = file.Path
		} else {
			data, err := keysource.Bytes(auth.Key)
			if err != nil {
				return fmt.Errorf("client key: %w", err)
			}
			restConfig.TLSClientConfig.KeyData = data
		}
		return nil

	default:
		return fmt.Errorf("unhandled authentication variant %T", authentication)
	}
}

func applyServerCertificate(restConfig *rest.Config, serverCertificate resolver.ServerCertificate) error {
	switch cert := serverCertificate.(type) {
	case resolver.Insecure:
		restConfig.TLSClientConfig.Insecure = true
		return nil

	case resolver.Secure:
		if cert.DisableHostnameVerification {
			// client-go cannot relax hostname verification alone; use
			// ClusterConfig.DropTrailingDot for the trailing-dot case instead.
			return fmt.Errorf("hostname verification cannot be selectively disabled for the client-go transport")
		}
		if file, ok := cert.Certificate.(keysource.File); ok {
			restConfig.TLSClientConfig.CAFile = file.Path
		} else {
			data, err := keysource.Bytes(cert.Certificate)
			if err != nil {
				return fmt.Errorf("certificate authority: %w", err)
			}
			restConfig.TLSClientConfig.CAData = data
		}
		return nil

	default:
		return fmt.Errorf("unhandled server certificate variant %T", serverCertificate)
	}
}
