// Package cli provides the command-line interface for Tickbridge
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	verbosity string
	version   string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tickbridge",
	Short: "Frame-driven completion dispatcher for engine-hosted async work",
	Long: `Tickbridge bridges callback-based async operations into continuations
fired on an engine's designated goroutine, one batch per frame. The CLI
ships a simulated engine loop so the dispatcher can be exercised and
profiled without a host engine.`,

	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("tickbridge v%s\n", version)
			return
		}
		cmd.Help()
	},
}

// Execute runs the CLI
func Execute(v string) error {
	version = v

	initializeRootCommand()

	return rootCmd.Execute()
}

// initializeRootCommand sets up the root command and its flags.
// Initialization is explicit rather than in init() so tests can
// rebuild the tree.
func initializeRootCommand() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: tickbridge.config.json)")
	rootCmd.PersistentFlags().StringVarP(&verbosity, "verbosity", "v", "info", "log level (debug, info, warn, error)")

	rootCmd.Flags().Bool("version", false, "Print version information and quit")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("tickbridge.config")
		viper.SetConfigType("json")
	}

	viper.SetEnvPrefix("TICKBRIDGE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbosity == "debug" {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tickbridge v%s\n", version)
		},
	}
}

// Helper functions

func printSuccess(message string) {
	fmt.Printf("%s %s\n", color.GreenString("[Tickbridge]"), message)
}

func printError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("[Tickbridge]"), message)
}

func printInfo(message string) {
	fmt.Printf("%s %s\n", color.CyanString("[Tickbridge]"), message)
}
