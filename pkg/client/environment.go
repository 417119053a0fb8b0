package client

import (
	"net/url"
	"strings"
)

// EnvironmentKey identifies one of the two API deployments.
type EnvironmentKey string

const (
	// Production is the live API deployment and the default for any unrecognized label.
	Production EnvironmentKey = "production"
	// Integration is the sandbox API deployment.
	Integration EnvironmentKey = "integration"
)

const (
	// ProductionBaseURL is the API base url of the production environment
	ProductionBaseURL = "https://api.bizbridge.io"
	// ProductionTokenURL is the token endpoint of the production environment
	ProductionTokenURL = "https://auth.bizbridge.io/connect/token"
	// IntegrationBaseURL is the API base url of the integration environment
	IntegrationBaseURL = "https://api-int.bizbridge.io"
	// IntegrationTokenURL is the token endpoint of the integration environment
	IntegrationTokenURL = "https://auth-int.bizbridge.io/connect/token"
)

// Environment is a fixed API deployment with its base url and token issuer.
type Environment struct {
	Key      EnvironmentKey
	BaseURL  string
	TokenURL string
}

// Environments holds the two known deployments. The zero value is not usable,
// use DefaultEnvironments.
type Environments struct {
	Production  Environment
	Integration Environment
}

// DefaultEnvironments returns the compiled-in production and integration deployments.
func DefaultEnvironments() Environments {
	return Environments{
		Production: Environment{
			Key:      Production,
			BaseURL:  ProductionBaseURL,
			TokenURL: ProductionTokenURL,
		},
		Integration: Environment{
			Key:      Integration,
			BaseURL:  IntegrationBaseURL,
			TokenURL: IntegrationTokenURL,
		},
	}
}

// ParseEnvironment maps a free-text label to an environment key. "integration",
// "int" and "test" (any case) select Integration, everything else selects Production.
func ParseEnvironment(label string) EnvironmentKey {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "integration", "int", "test":
		return Integration
	default:
		return Production
	}
}

// Get returns the environment for a key
func (e Environments) Get(key EnvironmentKey) Environment {
	if key == Integration {
		return e.Integration
	}

	return e.Production
}

// Resolve returns the environment selected by a caller supplied label.
func (e Environments) Resolve(label string) Environment {
	return e.Get(ParseEnvironment(label))
}

// BaseURL returns the API base url selected by a caller supplied label.
func (e Environments) BaseURL(label string) string {
	return e.Resolve(label).BaseURL
}

// ForURL infers the environment a fully formed request url targets. The url's
// host is compared against the integration host; anything else, including urls
// that fail to parse, is production.
func (e Environments) ForURL(rawURL string) Environment {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return e.Production
	}

	integration, err := url.Parse(e.Integration.BaseURL)
	if err != nil {
		return e.Production
	}

	if hostKey(u) == hostKey(integration) {
		return e.Integration
	}

	return e.Production
}

// hostKey normalizes a url's host to lowercase host:port with the scheme's
// default port filled in.
func hostKey(u *url.URL) string {
	port := u.Port()
	if port == "" {
		switch strings.ToLower(u.Scheme) {
		case "http":
			port = "80"
		default:
			port = "443"
		}
	}

	return strings.ToLower(u.Hostname()) + ":" + port
}
