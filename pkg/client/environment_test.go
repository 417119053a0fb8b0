package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		label string
		want  EnvironmentKey
	}{
		{label: "integration", want: Integration},
		{label: "INTEGRATION", want: Integration},
		{label: "Int", want: Integration},
		{label: "test", want: Integration},
		{label: " TeSt ", want: Integration},
		{label: "", want: Production},
		{label: "production", want: Production},
		{label: "prod", want: Production},
		{label: "staging", want: Production},
		{label: "integ", want: Production},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEnvironment(tt.label))
		})
	}
}

func TestEnvironments_BaseURL(t *testing.T) {
	envs := DefaultEnvironments()

	assert.Equal(t, IntegrationBaseURL, envs.BaseURL("int"))
	assert.Equal(t, IntegrationBaseURL, envs.BaseURL("Integration"))
	assert.Equal(t, ProductionBaseURL, envs.BaseURL(""))
	assert.Equal(t, ProductionBaseURL, envs.BaseURL("anything"))
}

func TestEnvironments_ForURL(t *testing.T) {
	envs := DefaultEnvironments()

	tests := []struct {
		name string
		url  string
		want EnvironmentKey
	}{
		{name: "integration host", url: "https://api-int.bizbridge.io/v1/contacts", want: Integration},
		{name: "integration host upper case", url: "https://API-INT.bizbridge.io/v1/contacts?x=1", want: Integration},
		{name: "integration host explicit port", url: "https://api-int.bizbridge.io:443/v1", want: Integration},
		{name: "production host", url: "https://api.bizbridge.io/v1/contacts", want: Production},
		{name: "integration host in path", url: "https://api.bizbridge.io/api-int.bizbridge.io", want: Production},
		{name: "integration host as subdomain prefix", url: "https://api-int.bizbridge.io.evil.example/v1", want: Production},
		{name: "different port", url: "https://api-int.bizbridge.io:8443/v1", want: Production},
		{name: "unparseable", url: "://nope", want: Production},
		{name: "relative", url: "/v1/contacts", want: Production},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, envs.ForURL(tt.url).Key)
		})
	}
}
