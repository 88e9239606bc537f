// Package cmd implements the CLI commands for device-grader.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/device-grader/internal/api/client"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "device-grader",
	Short: "Grade and price second-hand devices from inspection results",
	Long: "device-grader turns audit wizard answers into a canonical inspection,\n" +
		"assigns a cosmetic grade, resolves a price from local tables or the\n" +
		"remote valuation service and records the finished audit.",
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().
		String("server", "", "API server URL; commands run locally when empty")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())
	rootCmd.AddCommand(gradeCommand())
	rootCmd.AddCommand(priceTableCommand())
	rootCmd.AddCommand(auditsCommand())
	rootCmd.AddCommand(versionCommand())
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	// A .env file is optional; values already in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "loading .env:", err)
	}

	viper.SetEnvPrefix("DG")
	viper.AutomaticEnv()
}

const defaultServer = "http://localhost:8080"

func serverURL() string {
	return viper.GetString("server")
}

// newClient talks to --server, or to a local server when it is unset.
func newClient() *apiclient.Client {
	if u := serverURL(); u != "" {
		return apiclient.New(u)
	}
	return apiclient.New(defaultServer)
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
