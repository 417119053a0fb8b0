package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bizbridge/bizbridge/pkg/client"
)

const tokenTruncateLen = 12

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "acquires an access token for an environment and prints its metadata",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := cmd.Flags().GetString("environment")
		if err != nil {
			return err
		}

		return printToken(cmd.Context(), cmd, env)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringP("environment", "e", "production", "environment label (production, integration, int, test)")
}

func printToken(ctx context.Context, cmd *cobra.Command, label string) error {
	logger := logger.Desugar()
	cfg := loadConfigs()

	if !cfg.API.Credentials().Complete() {
		return ErrMissingCredentials
	}

	api := cfg.API.ToClient(&http.Client{CheckRedirect: client.NoRedirect}, logger)
	env := api.Environments().Resolve(label)

	if _, ok := api.Tokens().Get(ctx, env); !ok {
		logger.Error("token acquisition failed", zap.String("environment", string(env.Key)))
		return fmt.Errorf("%w: %s", ErrTokenUnavailable, env.TokenURL)
	}

	entry, _ := api.Tokens().Peek(env.Key)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "environment: %s\n", entry.Environment)
	fmt.Fprintf(out, "base url:    %s\n", env.BaseURL)
	fmt.Fprintf(out, "token:       %s...\n", truncate(entry.Token, tokenTruncateLen))
	fmt.Fprintf(out, "expires:     %s (in %s)\n", entry.Expiry.Format(time.RFC3339), time.Until(entry.Expiry).Round(time.Second))

	return nil
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}

	return s[:length]
}
