package main

import (
	"context"
	"fmt"

	"github.com/planejaedu/identity/internal/engine/bootstrap"
	"github.com/planejaedu/identity/pkg/version"
	"github.com/spf13/cobra"
)

/**
 * @file: main.go
 * @description: identity service entrypoint
 */

var configFile string

var rootCmd = &cobra.Command{
	Use:          "identity",
	Short:        "identity serves authentication, invitations and account management",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Bootstrap 初始化应用
		app, cleanup, err := bootstrap.Bootstrap(configFile, initApp)
		if err != nil {
			return err
		}

		// 启动应用并等待退出信号
		bootstrap.Run(app, cleanup)
		return nil
	},
}

// seedCmd applies migrations and the bootstrap section, then exits.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the configured tenants and platform ADMIN",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := initApp(configFile)
		if err != nil {
			return err
		}
		defer cleanup()
		if err := app.Seeder.Seed(context.Background()); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		app.Logger.Log.Info("seed complete")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "conf", "c", "conf.d/config.toml", "conf file path, e.g. -c ./conf.d/config.toml")
	rootCmd.AddCommand(seedCmd, version.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
