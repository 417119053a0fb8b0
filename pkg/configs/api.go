package configs

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/bizbridge/bizbridge/pkg/client"
)

const (
	// DefaultAPITimeout is the timeout of json requests
	DefaultAPITimeout = 30 * time.Second
	// DefaultDownloadTimeout is the timeout of recording and voicemail downloads
	DefaultDownloadTimeout = 60 * time.Second
)

// AddAPIFlags adds the business API client flags to the given FlagSet
func AddAPIFlags(flags *pflag.FlagSet) {
	flags.String("api-client-id", "", "OAuth2 client id for the business API")
	viperBindFlag("api.client-id", flags.Lookup("api-client-id"))
	flags.String("api-client-secret", "", "OAuth2 client secret for the business API")
	viperBindFlag("api.client-secret", flags.Lookup("api-client-secret"))
	flags.String("api-app-key", "", "optional application key sent with every request")
	viperBindFlag("api.app-key", flags.Lookup("api-app-key"))
	flags.String("api-user-agent", client.DefaultUserAgent, "user agent sent with every request")
	viperBindFlag("api.user-agent", flags.Lookup("api-user-agent"))
	flags.Duration("api-timeout", DefaultAPITimeout, "timeout for json requests to the business API")
	viperBindFlag("api.timeout", flags.Lookup("api-timeout"))
	flags.Duration("api-download-timeout", DefaultDownloadTimeout, "timeout for binary downloads from the business API")
	viperBindFlag("api.download-timeout", flags.Lookup("api-download-timeout"))
	flags.String("api-default-environment", string(client.Production), "environment used when a tool call does not name one")
	viperBindFlag("api.default-environment", flags.Lookup("api-default-environment"))
}

// APIConfig holds the business API client configuration.
type APIConfig struct {
	ClientID           string        `mapstructure:"client-id"`
	ClientSecret       string        `mapstructure:"client-secret"`
	AppKey             string        `mapstructure:"app-key"`
	UserAgent          string        `mapstructure:"user-agent"`
	Timeout            time.Duration `mapstructure:"timeout"`
	DownloadTimeout    time.Duration `mapstructure:"download-timeout"`
	DefaultEnvironment string        `mapstructure:"default-environment"`
}

// Credentials returns the client credentials
func (c *APIConfig) Credentials() client.Credentials {
	return client.Credentials{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
	}
}

// ToClient builds an API client from the config. Missing credentials are not an
// error, the client then sends unauthenticated requests.
func (c *APIConfig) ToClient(httpClient *http.Client, logger *zap.Logger, opts ...client.Option) *client.Client {
	if !c.Credentials().Complete() {
		logger.Warn("api client credentials are not configured, requests will be unauthenticated")
	}

	base := []client.Option{
		client.WithCredentials(c.Credentials()),
		client.WithAppKey(c.AppKey),
		client.WithLogger(logger.With(zap.String("component", "api-client"))),
	}

	if c.Timeout > 0 {
		base = append(base, client.WithTimeout(c.Timeout))
	}

	if c.DownloadTimeout > 0 {
		base = append(base, client.WithDownloadTimeout(c.DownloadTimeout))
	}

	if httpClient != nil {
		base = append(base, client.WithHTTPClient(httpClient))
	}

	if c.UserAgent != "" {
		base = append(base, client.WithUserAgent(c.UserAgent))
	}

	return client.NewClient(append(base, opts...)...)
}

// Validate validates the API configuration.
func (c *APIConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: api timeout must be positive", ErrInvalidConfig)
	}

	if c.DownloadTimeout <= 0 {
		return fmt.Errorf("%w: api download timeout must be positive", ErrInvalidConfig)
	}

	if (c.ClientID == "") != (c.ClientSecret == "") {
		return fmt.Errorf("%w: client id and secret must be set together", ErrIncompleteCredentials)
	}

	return nil
}
