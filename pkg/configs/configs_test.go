package configs

import (
	"net/http"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bizbridge/bizbridge/pkg/client"
)

func TestLoad(t *testing.T) {
	v := viper.New()
	v.Set("api.client-id", "id")
	v.Set("api.client-secret", "secret")
	v.Set("api.app-key", "key")
	v.Set("api.timeout", "15s")
	v.Set("api.download-timeout", time.Minute)
	v.Set("api.default-environment", "int")
	v.Set("mcp.listen", "127.0.0.1:9000")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, client.Credentials{ClientID: "id", ClientSecret: "secret"}, cfg.API.Credentials())
	assert.Equal(t, "key", cfg.API.AppKey)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, time.Minute, cfg.API.DownloadTimeout)
	assert.Equal(t, "int", cfg.API.DefaultEnvironment)
	assert.Equal(t, "127.0.0.1:9000", cfg.MCP.Listen)
	assert.NoError(t, cfg.Validate())
}

func TestConfigs_Validate(t *testing.T) {
	valid := func() Configs {
		return Configs{
			API: APIConfig{Timeout: time.Second, DownloadTimeout: time.Second},
			MCP: MCPConfig{Listen: ":3001"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Configs)
		wantErr error
	}{
		{name: "defaults without credentials", mutate: func(*Configs) {}},
		{
			name:   "full credentials",
			mutate: func(c *Configs) { c.API.ClientID, c.API.ClientSecret = "id", "secret" },
		},
		{
			name:    "id without secret",
			mutate:  func(c *Configs) { c.API.ClientID = "id" },
			wantErr: ErrIncompleteCredentials,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Configs) { c.API.Timeout = 0 },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "missing listen",
			mutate:  func(c *Configs) { c.MCP.Listen = "" },
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestAPIConfig_ToClient(t *testing.T) {
	cfg := APIConfig{Timeout: time.Second, DownloadTimeout: time.Second}

	c := cfg.ToClient(&http.Client{}, zap.NewNop())
	require.NotNil(t, c)
	assert.Equal(t, client.IntegrationBaseURL, c.BaseURL("test"))
}
