// Package cmd implements the sbwatch CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/sb-price-watch/internal/api/client"
	"github.com/donaldgifford/sb-price-watch/internal/config"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "sbwatch",
		Short: "Watch Hetzner Server Bourse auctions for price changes",
		Long: "sbwatch polls the Hetzner Server Bourse feed, tracks a watch list of\n" +
			"auction IDs and posts a Discord message when a watched server gets\n" +
			"more expensive or disappears from the auction.",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initClientConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", config.DefaultPath, "service config file path")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(reconcileCmd())
	rootCmd.AddCommand(priceCmd())
	rootCmd.AddCommand(versionCmd())
}

// initClientConfig reads client defaults from $HOME/.sbwatch.yaml and
// SBWATCH_* environment variables.
func initClientConfig() {
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.SetConfigType("yaml")
	viper.SetConfigName(".sbwatch")

	viper.SetEnvPrefix("SBWATCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"))
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
