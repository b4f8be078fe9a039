package kubeconfig

// Config is the parsed kubeconfig model. Field names follow the on-disk file
// structure; tags must be the full hyphenated names for `sigs.k8s.io/yaml`.
type Config struct {
	CurrentContext string         `json:"current-context"`
	Clusters       []ClusterEntry `json:"clusters"`
	Contexts       []ContextEntry `json:"contexts"`
	Users          []UserEntry    `json:"users"`

	// Path is where this file was loaded from; relative exec-plugin commands
	// resolve against its directory.
	Path string `json:"-"`
}

type ClusterEntry struct {
	Name    string  `json:"name"`
	Cluster Cluster `json:"cluster"`
}

type Cluster struct {
	Server                   string `json:"server"`
	CertificateAuthority     string `json:"certificate-authority"`
	CertificateAuthorityData string `json:"certificate-authority-data"`
	InsecureSkipTLSVerify    bool   `json:"insecure-skip-tls-verify"`
}

type ContextEntry struct {
	Name    string  `json:"name"`
	Context Context `json:"context"`
}

type Context struct {
	Cluster   string `json:"cluster"`
	User      string `json:"user"`
	Namespace string `json:"namespace"`
}

type UserEntry struct {
	Name string `json:"name"`
	User User   `json:"user"`
}

type User struct {
	Token                 string      `json:"token"`
	Username              string      `json:"username"`
	Password              string      `json:"password"`
	ClientCertificate     string      `json:"client-certificate"`
	ClientCertificateData string      `json:"client-certificate-data"`
	ClientKey             string      `json:"client-key"`
	ClientKeyData         string      `json:"client-key-data"`
	Exec                  *ExecConfig `json:"exec"`
}

// ExecConfig describes an external credential plugin, per the portable
// `client.authentication.k8s.io` convention.
type ExecConfig struct {
	APIVersion  string   `json:"apiVersion"`
	Command     string   `json:"command"`
	Args        []string `json:"args"`
	Env         []EnvVar `json:"env"`
	InstallHint string   `json:"installHint"`
}

type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Cluster looks up a cluster entry by name.
func (c *Config) Cluster(name string) (Cluster, bool) {
	for _, each := range c.Clusters {
		if each.Name == name {
			return each.Cluster, true
		}
	}
	return Cluster{}, false
}

// Context looks up a context entry by name.
func (c *Config) Context(name string) (Context, bool) {
	for _, each := range c.Contexts {
		if each.Name == name {
			return each.Context, true
		}
	}
	return Context{}, false
}

// User looks up a user entry by name.
func (c *Config) User(name string) (User, bool) {
	for _, each := range c.Users {
		if each.Name == name {
			return each.User, true
		}
	}
	return User{}, false
}
