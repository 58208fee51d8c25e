package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/jamesainslie/burrow/pkg/burrow/config"
	"github.com/jamesainslie/burrow/pkg/burrow/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage burrow configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/burrow/config.yaml (if set)
  2. ~/.config/burrow/config.yaml

Environment variables override file settings using the BURROW_ prefix:
  BURROW_WORKERS=8
  BURROW_SORT=size
  BURROW_SCAN_MEMO=false`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after file, environment and flags.`,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a commented default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(w, "Config file: %s\n\n", used)
	} else {
		fmt.Fprintln(w, "Config file: (using defaults, no file found)")
		fmt.Fprintln(w)
	}

	printConfig(w, cfg)

	fmt.Fprintln(w, "\nEnvironment Overrides:")
	fmt.Fprintln(w, "----------------------")
	var overrides []string
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "BURROW_") {
			overrides = append(overrides, kv)
		}
	}
	slices.Sort(overrides)
	if len(overrides) == 0 {
		fmt.Fprintln(w, "(none)")
	}
	for _, kv := range overrides {
		fmt.Fprintln(w, kv)
	}
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	workers := fmt.Sprint(cfg.Workers)
	if cfg.Workers == 0 {
		workers = "0 (auto)"
	}
	logPath := cfg.Logging.Path
	if logPath == "" {
		logPath = logging.DefaultLogPath()
	}

	fmt.Fprintln(w, "Current Configuration:")
	fmt.Fprintln(w, "----------------------")
	fmt.Fprintf(w, "default_path:          %s\n", cfg.DefaultPath)
	fmt.Fprintf(w, "workers:               %s\n", workers)
	fmt.Fprintf(w, "sort:                  %s\n", cfg.Sort)
	fmt.Fprintf(w, "output:                %s\n", cfg.Output)
	fmt.Fprintf(w, "scan.memo:             %t\n", cfg.Scan.Memo)
	fmt.Fprintf(w, "scan.walk_workers:     %d\n", cfg.Scan.WalkWorkers)
	fmt.Fprintf(w, "delete.use_trash:      %t\n", cfg.Delete.UseTrash)
	fmt.Fprintf(w, "logging.level:         %s\n", cfg.Logging.Level)
	fmt.Fprintf(w, "logging.path:          %s\n", logPath)
	fmt.Fprintf(w, "logging.rotation:      %s, %d backups, %d days, daily=%t\n",
		cfg.Logging.Rotation.MaxSize, cfg.Logging.Rotation.MaxBackups,
		cfg.Logging.Rotation.MaxAge, cfg.Logging.Rotation.Daily)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := cfgFile
	if path == "" {
		path = config.Path()
	}

	written, err := config.WriteDefault(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	if !written {
		printInfo("Config file already exists: %s", path)
		return nil
	}
	printInfo("Created default config file: %s", path)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	path := config.Path()
	fmt.Fprintln(cmd.OutOrStdout(), path)

	if _, err := os.Stat(path); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}
	return nil
}
