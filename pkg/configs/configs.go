package configs

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// viperBindFlag provides a wrapper around the viper bindings that handles error checks
func viperBindFlag(name string, flag *pflag.Flag) {
	err := viper.BindPFlag(name, flag)
	if err != nil {
		panic(err)
	}
}

// Configs holds the configuration for the application.
type Configs struct {
	API APIConfig `mapstructure:"api"`
	MCP MCPConfig `mapstructure:"mcp"`
}

// AddFlags adds all the flags for the configuration.
func AddFlags(flags *pflag.FlagSet) {
	AddAPIFlags(flags)
	AddMCPFlags(flags)
}

// Load reads the configuration from viper
func Load(v *viper.Viper) (*Configs, error) {
	var cfg Configs

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates all the configs
func (cfg *Configs) Validate() error {
	if err := cfg.API.Validate(); err != nil {
		return err
	}

	if err := cfg.MCP.Validate(); err != nil {
		return err
	}

	return nil
}
