package main

import (
	"bytes"
	"fmt"

	"github.com/jamesainslie/burrow/pkg/burrow/logging"
	"github.com/jamesainslie/burrow/pkg/burrow/output"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "Print one directory listing and exit",
	Long: `Scan a directory once and print its listing in the chosen format.

Examples:
  burrow ls                  # Listing of the start directory
  burrow ls -o json /srv     # JSON listing
  burrow ls --sort size .    # Largest entries first`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

func init() {
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initLogging(cfg, false); err != nil {
		return err
	}
	defer logging.Close()

	formatter, err := output.Get(cfg.Output)
	if err != nil {
		return fmt.Errorf("%w: available formats are %v", err, output.Available())
	}

	root, err := rootArg(args)
	if err != nil {
		return err
	}

	sess, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	res, err := sess.Open(cmd.Context(), root)
	if err != nil {
		return err
	}
	printVerbose("Scanned %s in %s (%d degraded)", res.Path, res.Elapsed, res.Degraded)

	var buf bytes.Buffer
	if err := formatter.Format(&buf, sess.List()); err != nil {
		return fmt.Errorf("format listing: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}
