// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuGH/ffplan/internal/config"
	"github.com/ManuGH/ffplan/internal/log"
	"github.com/ManuGH/ffplan/internal/version"
)

// commandContext is shared by all subcommands.
type commandContext struct {
	configPath string
	logLevel   string

	loader *config.Loader
	cfg    config.AppConfig
}

func (c *commandContext) ensureConfig() (config.AppConfig, error) {
	if c.loader != nil {
		return c.cfg, nil
	}
	loader := config.NewLoader(c.configPath, version.Version)
	cfg, err := loader.Load()
	if err != nil {
		return cfg, err
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	log.Reconfigure(log.Config{Level: cfg.LogLevel, Version: version.Version})
	c.loader = loader
	c.cfg = cfg
	return cfg, nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "ffplan",
		Short:         "Plan ffmpeg video pipelines for the available hardware",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configPath, "config", "c", "", "Configuration file path (YAML)")
	rootCmd.PersistentFlags().StringVar(&ctx.logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(newPlanCommand(ctx))
	rootCmd.AddCommand(newCapsCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return err
		},
	}
}
