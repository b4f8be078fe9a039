package main

import (
	"fmt"
	"github.com/GlintPay/gkcc/config"
	"github.com/GlintPay/gkcc/keysource"
	"github.com/GlintPay/gkcc/logging"
	"github.com/GlintPay/gkcc/resolver"
	"github.com/spf13/cobra"
	"os"
	"sigs.k8s.io/yaml"
)

var opts config.Options
var inCluster bool

func main() {
	rootCmd := &cobra.Command{
		Use:          "gkcc",
		Short:        "Resolve and display the Kubernetes cluster connection for the current environment",
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVar(&opts.Kubeconfig, "kubeconfig", "", "explicit kubeconfig path")
	rootCmd.Flags().StringVar(&opts.Context, "context", "", "kubeconfig context override")
	rootCmd.Flags().BoolVar(&inCluster, "in-cluster", false, "use the in-cluster service account")
	rootCmd.Flags().BoolVar(&opts.Debug, "debug", false, "debug logging")
	rootCmd.Flags().BoolVar(&opts.EnableTrace, "trace", false, "emit OpenTelemetry spans")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	logging.Setup(os.Stderr, opts.Debug)

	var clusterConfig *resolver.ClusterConfig
	switch {
	case inCluster:
		clusterConfig = resolver.InCluster(opts)
	case opts.Kubeconfig != "" || opts.Context != "":
		// Explicit inputs get strict resolution: no silent fallback
		resolved, err := resolver.FromKubeconfig(cmd.Context(), opts)
		if err != nil {
			return err
		}
		clusterConfig = resolved
	default:
		clusterConfig = resolver.Resolve(cmd.Context(), opts)
	}

	out, err := yaml.Marshal(describe(clusterConfig))
	if err != nil {
		return err
	}

	fmt.Print(string(out))
	return nil
}

type description struct {
	Host           string `json:"host"`
	Authentication string `json:"authentication"`
	Detail         string `json:"detail,omitempty"`
	ServerTrust    string `json:"serverTrust"`
}

// describe summarises a resolved config with all secret material redacted.
func describe(clusterConfig *resolver.ClusterConfig) description {
	d := description{Host: clusterConfig.Host.String()}

	switch auth := clusterConfig.Authentication.(type) {
	case resolver.ServiceAccountToken:
		d.Authentication = "bearer-token"
		d.Detail = describeSource(auth.Token)
	case resolver.BasicAuth:
		d.Authentication = "basic"
		d.Detail = auth.Username
	case resolver.ClientCertificates:
		d.Authentication = "client-certificates"
		d.Detail = fmt.Sprintf("cert=%s key=%s", describeSource(auth.Certificate), describeSource(auth.Key))
	}

	switch cert := clusterConfig.Client.ServerCertificate.(type) {
	case resolver.Insecure:
		d.ServerTrust = "insecure"
	case resolver.Secure:
		d.ServerTrust = "ca " + describeSource(cert.Certificate)
	}

	return d
}

func describeSource(src keysource.Source) string {
	switch s := src.(type) {
	case keysource.File:
		return "file:" + s.Path
	case keysource.Base64:
		return "base64:REDACTED"
	default:
		return "REDACTED"
	}
}
