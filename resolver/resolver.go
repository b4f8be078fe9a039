package resolver

import (
	"context"
	"errors"
	"fmt"
	"github.com/GlintPay/gkcc/config"
	"github.com/GlintPay/gkcc/execplugin"
	"github.com/GlintPay/gkcc/keysource"
	"github.com/GlintPay/gkcc/kubeconfig"
	gotel "github.com/GlintPay/gkcc/otel"
	"github.com/rs/zerolog/log"
	"net/url"
	"path/filepath"
)

var (
	// ErrMissingPassword - a username was configured without a password
	ErrMissingPassword = errors.New("username provided without password")
	// ErrAmbiguousCredentials - both a token and a username were configured
	ErrAmbiguousCredentials = errors.New("both token and username provided")
)

// Fixed in-cluster service-account mount paths.
const (
	InClusterTokenPath = "/var/run/secrets/kubernetes.io/serviceaccount/token"
	InClusterCAPath    = "/var/run/secrets/kubernetes.io/serviceaccount/ca.crt"
)

// Resolve is the default chain: full kubeconfig resolution first, and on ANY
// failure in that path - not discriminated by cause - the in-cluster
// service-account fallback. The kubeconfig error is discarded when the
// fallback engages, so callers get no diagnostic identifying which stage
// failed. The fallback itself only constructs descriptors; missing mount
// files surface later, when key material is materialized.
func Resolve(ctx context.Context, opts config.Options) *ClusterConfig {
	clusterConfig, err := FromKubeconfig(ctx, opts)
	if err != nil {
		log.Debug().Err(err).Msg("Kubeconfig resolution failed, falling back to in-cluster service account")
		return InCluster(opts)
	}
	return clusterConfig
}

// InCluster builds the descriptor for a client running as a workload inside
// the cluster, against the fixed service-account mounts.
func InCluster(opts config.Options) *ClusterConfig {
	log.Info().Msg("Using in-cluster service account authentication")

	return &ClusterConfig{
		Host: &url.URL{Scheme: "https", Host: "kubernetes.default.svc"},
		Authentication: ServiceAccountToken{
			Token: keysource.File{Path: InClusterTokenPath},
		},
		Client: ClientConfig{
			Debug: opts.Debug,
			ServerCertificate: Secure{
				Certificate: keysource.File{Path: InClusterCAPath},
			},
		},
	}
}

// FromKubeconfig performs one full kubeconfig resolution pass: locate, parse,
// select context, resolve cluster and user, derive authentication and TLS
// policy. Each step fails independently; the first unmet precondition is
// returned. The file is re-read and re-parsed on every call.
func FromKubeconfig(ctx context.Context, opts config.Options) (*ClusterConfig, error) {
	if opts.EnableTrace {
		_, span := gotel.GetTracer(ctx).Start(ctx, "resolveClusterConfig", gotel.ClientOptions)
		defer span.End()
	}

	path, err := kubeconfig.Locate(opts.Kubeconfig)
	if err != nil {
		return nil, err
	}

	kubeConfig, err := kubeconfig.Load(path)
	if err != nil {
		return nil, err
	}

	contextName := opts.Context
	if contextName == "" {
		contextName = kubeConfig.CurrentContext
	}

	kubeContext, ok := kubeConfig.Context(contextName)
	if !ok {
		return nil, fmt.Errorf("context %q: %w", contextName, kubeconfig.ErrNotFound)
	}

	cluster, ok := kubeConfig.Cluster(kubeContext.Cluster)
	if !ok {
		return nil, fmt.Errorf("cluster %q: %w", kubeContext.Cluster, kubeconfig.ErrNotFound)
	}

	user, ok := kubeConfig.User(kubeContext.User)
	if !ok {
		return nil, fmt.Errorf("user %q: %w", kubeContext.User, kubeconfig.ErrNotFound)
	}

	host, err := parseServer(cluster.Server)
	if err != nil {
		return nil, err
	}

	authentication, err := deriveAuthentication(ctx, user, filepath.Dir(path))
	if err != nil {
		return nil, err
	}

	serverCertificate, err := deriveServerCertificate(cluster)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("context", contextName).Str("host", host.String()).Msg("Resolved cluster config")

	return &ClusterConfig{
		Host:           host,
		Authentication: authentication,
		Client: ClientConfig{
			Debug:             opts.Debug,
			ServerCertificate: serverCertificate,
		},
	}, nil
}

func parseServer(server string) (*url.URL, error) {
	host, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("parsing cluster server %q: %w", server, err)
	}
	if !host.IsAbs() || host.Host == "" {
		return nil, fmt.Errorf("cluster server %q is not an absolute URI", server)
	}
	return host, nil
}

// deriveAuthentication turns a user entry into one Authentication variant.
// The token is resolved first - static field, or a fresh exec-plugin
// invocation - so a successfully obtained exec token routes through the
// token case.
func deriveAuthentication(ctx context.Context, user kubeconfig.User, kubeconfigDir string) (Authentication, error) {
	token := user.Token
	if token == "" && user.Exec != nil {
		execToken, err := execplugin.FetchToken(ctx, user.Exec, kubeconfigDir)
		if err != nil {
			return nil, err
		}
		token = execToken
	}

	switch {
	case token != "" && user.Username != "":
		return nil, ErrAmbiguousCredentials

	case token != "":
		return ServiceAccountToken{Token: keysource.Literal{Value: token}}, nil

	case user.Username != "":
		if user.Password == "" {
			return nil, ErrMissingPassword
		}
		return BasicAuth{Username: user.Username, Password: user.Password}, nil

	default:
		certificate, err := keysource.From(user.ClientCertificate, user.ClientCertificateData)
		if err != nil {
			return nil, fmt.Errorf("client certificate: %w", err)
		}
		key, err := keysource.From(user.ClientKey, user.ClientKeyData)
		if err != nil {
			return nil, fmt.Errorf("client key: %w", err)
		}
		return ClientCertificates{Certificate: certificate, Key: key}, nil
	}
}

func deriveServerCertificate(cluster kubeconfig.Cluster) (ServerCertificate, error) {
	if cluster.InsecureSkipTLSVerify {
		return Insecure{}, nil
	}

	certificate, err := keysource.From(cluster.CertificateAuthority, cluster.CertificateAuthorityData)
	if err != nil {
		return nil, fmt.Errorf("certificate authority: %w", err)
	}
	return Secure{Certificate: certificate}, nil
}
