package cmd

import (
	"github.com/GoPolymarket/liqwatch/internal/config"
	"github.com/GoPolymarket/liqwatch/internal/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	version = "dev"
)

func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:           "liqwatch",
	Short:         "Watch a leveraged position's liquidation price against the live market",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command. Called once by main.main().
func Execute() error {
	rootCmd.Version = version
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml or ./configs/config.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Log.Level)
	return cfg, nil
}
