package cmd

import (
	"strings"

	"github.com/Iron-Ham/tessel/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "tessel",
	Short: "Shell surface lifecycle simulator for a tiling compositor",
	Long: `Tessel models how a tiling compositor adopts client surfaces: a surface is
created, mapped into the container tree, committed, unmapped and destroyed,
while focus and damage follow along.

Scenarios are YAML files listing the signals a client sends. Replay them to
check the resulting tree, focus and damage, or step through one
interactively.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/tessel/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TESSEL")
	// Replace dots with underscores for nested keys in env vars
	// e.g., TESSEL_OUTPUT_WIDTH for output.width
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
