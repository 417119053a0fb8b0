package configs

import (
	"fmt"

	"github.com/spf13/pflag"
)

// AddMCPFlags adds the tool server flags to the given FlagSet
func AddMCPFlags(flags *pflag.FlagSet) {
	flags.String("mcp-listen", "0.0.0.0:3001", "address the MCP server listens on")
	viperBindFlag("mcp.listen", flags.Lookup("mcp-listen"))
	flags.Bool("mcp-metrics", true, "expose prometheus metrics on /metrics")
	viperBindFlag("mcp.metrics", flags.Lookup("mcp-metrics"))
}

// MCPConfig holds the tool server configuration.
type MCPConfig struct {
	Listen  string `mapstructure:"listen"`
	Metrics bool   `mapstructure:"metrics"`
}

// Validate validates the MCP configuration.
func (c *MCPConfig) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("%w: mcp listen address is required", ErrInvalidConfig)
	}

	return nil
}
