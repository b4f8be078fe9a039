package config

// Options control a single resolution pass. The zero value resolves the
// ambient environment: KUBECONFIG (or <home>/.kube/config) and the file's own
// current-context.
type Options struct {
	Kubeconfig  string // Explicit kubeconfig path (empty = KUBECONFIG / home discovery)
	Context     string // Context override (empty = the file's current-context)
	Debug       bool   // Propagated into the resolved client config
	EnableTrace bool
}
