package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	endee "github.com/itspunkaj/endee-go"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "endee",
		Short:         "CLI for the Endee vector-search service",
		Long:          `Create and manage Endee indexes and vectors from the command line.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.PersistentFlags().String("config", DefaultConfigPath(), "Config file path")
	rootCmd.PersistentFlags().String("token", "", "API token (overrides config)")
	rootCmd.PersistentFlags().String("url", "", "API base URL (overrides config and token routing)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log API calls")

	rootCmd.AddCommand(
		NewCreateCmd(),
		NewListCmd(),
		NewDropCmd(),
		NewUpsertCmd(),
		NewQueryCmd(),
		NewGetCmd(),
		NewDeleteCmd(),
	)
	return rootCmd
}

// newClient builds an endee.Client from flags layered over the config file.
func newClient(cmd *cobra.Command) (*endee.Client, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if token, _ := cmd.Flags().GetString("token"); token != "" {
		cfg.Token = token
	}
	if url, _ := cmd.Flags().GetString("url"); url != "" {
		cfg.BaseURL = url
	}

	var opts []endee.Option
	if cfg.BaseURL != "" {
		opts = append(opts, endee.WithBaseURL(cfg.BaseURL))
	}
	if cfg.EncryptionKey != "" {
		opts = append(opts, endee.WithEncryptionKey(cfg.EncryptionKey))
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		opts = append(opts, endee.WithLogger(logger))
	}
	return endee.NewClient(cfg.Token, opts...)
}
