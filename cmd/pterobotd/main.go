package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LukePamlerr/ptero-discord-bot/internal/config"
	"github.com/LukePamlerr/ptero-discord-bot/internal/daemon"
	"github.com/LukePamlerr/ptero-discord-bot/internal/version"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "pterobotd",
		Short:         "Panel control daemon - encrypted credential store and admin API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	rootCmd.Version = version.FormatVersion(version.String())
	rootCmd.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML configuration file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	d, err := daemon.New(cfg)
	if err != nil {
		return err
	}
	return d.Run()
}
