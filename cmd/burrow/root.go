package main

import (
	"fmt"
	"os"

	"github.com/jamesainslie/burrow/pkg/burrow/config"
	"github.com/jamesainslie/burrow/pkg/burrow/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "burrow [path]",
		Short: "Browse directories and see what takes up space",
		Long: `Burrow is an interactive file browser. Each directory you enter is scanned
in parallel: every entry gets its size (directories are summed recursively),
its kind and your effective permissions.

By default burrow starts a full-screen shell. With --no-interactive, or when
standard input is not a terminal, commands are read line by line instead.

Examples:
  burrow                     # Browse your home directory
  burrow /var/log            # Browse a specific directory
  burrow -n < commands.txt   # Run commands from a file
  burrow ls -o json ~/src    # Print one listing and exit
  burrow config init         # Write a default configuration file`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runBrowse,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/burrow/config.yaml)")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "override scan worker count (0=auto)")
	rootCmd.PersistentFlags().BoolP("no-interactive", "n", false, "read commands from stdin instead of the TUI")
	rootCmd.PersistentFlags().StringP("output", "o", "", "listing format: table, plain, json, yaml")
	rootCmd.PersistentFlags().String("sort", "", "listing order: name, size, none")
	rootCmd.PersistentFlags().Bool("trash", false, "move deleted objects to the system trash")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output on stderr")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")

	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("no_interactive", rootCmd.PersistentFlags().Lookup("no-interactive"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("sort", rootCmd.PersistentFlags().Lookup("sort"))
	_ = viper.BindPFlag("delete.use_trash", rootCmd.PersistentFlags().Lookup("trash"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration file, environment and flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// initLogging starts file logging. Outside the TUI, --verbose mirrors
// debug records to stderr.
func initLogging(cfg *config.Config, tui bool) error {
	console := ""
	if getVerbose() && !getQuiet() {
		console = "debug"
	}
	if err := logging.Init(cfg.LoggingOptions(console, tui)); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	return nil
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...any) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...any) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}
