package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jamesainslie/burrow/cmd/burrow/tui"
	"github.com/jamesainslie/burrow/pkg/burrow/config"
	"github.com/jamesainslie/burrow/pkg/burrow/logging"
	"github.com/jamesainslie/burrow/pkg/burrow/output"
	"github.com/jamesainslie/burrow/pkg/burrow/session"
	"github.com/jamesainslie/burrow/pkg/burrow/shell"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runBrowse is the root command handler: it opens a session on the given
// path and hands it to the TUI or the line shell.
func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	interactive := !viper.GetBool("no_interactive") && tui.Available()
	if err := initLogging(cfg, interactive); err != nil {
		return err
	}
	defer logging.Close()

	root, err := rootArg(args)
	if err != nil {
		return err
	}

	sess, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	formatter, err := output.Get(cfg.Output)
	if err != nil {
		return fmt.Errorf("%w: available formats are %v", err, output.Available())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if interactive {
		return tui.Run(ctx, tui.Options{
			Session:   sess,
			Root:      root,
			Formatter: formatter,
		})
	}
	return runLineShell(ctx, sess, root, formatter, cmd.InOrStdin(), cmd.OutOrStdout())
}

// rootArg returns the path argument with ~ expanded, or "" for the
// configured start path.
func rootArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	path, err := config.ExpandPath(args[0])
	if err != nil {
		return "", fmt.Errorf("expand path: %w", err)
	}
	return path, nil
}

func newSession(cfg *config.Config) (*session.Session, error) {
	opts, err := session.OptionsFrom(cfg)
	if err != nil {
		return nil, err
	}
	sess, err := session.New(opts)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	printVerbose("Workers: %d, memo: %t, sort: %s", sess.Workers(), opts.Memo, opts.Sort)
	return sess, nil
}

// runLineShell reads commands from in until exit or end of input.
// Command failures are reported and the loop continues; only a failure to
// open root ends it with an error.
func runLineShell(ctx context.Context, sess *session.Session, root string, f output.Formatter, in io.Reader, out io.Writer) error {
	res, err := sess.Open(ctx, root)
	if err != nil {
		return err
	}
	if res.Degraded > 0 {
		fmt.Fprintf(out, "%d entries could not be fully read\n", res.Degraded)
	}

	if !getQuiet() {
		fmt.Fprint(out, output.Menu())
	}

	sh := shell.New(sess)
	lines := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, sh.Prompt())
		if !lines.Scan() {
			fmt.Fprintln(out)
			break
		}

		resp := sh.Execute(ctx, lines.Text())
		if resp.Exit {
			return nil
		}
		writeResponse(out, resp, f)
	}

	if err := lines.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}
	return nil
}

func writeResponse(out io.Writer, resp shell.Response, f output.Formatter) {
	if resp.Err != nil {
		fmt.Fprintf(out, "Error: %v\n", resp.Err)
		return
	}
	if resp.Scan != nil && resp.Scan.Degraded > 0 {
		fmt.Fprintf(out, "%d entries could not be fully read\n", resp.Scan.Degraded)
	}

	text, err := resp.Render(f)
	if err != nil {
		fmt.Fprintf(out, "Error: format listing: %v\n", err)
		return
	}
	if text != "" {
		fmt.Fprintln(out, text)
	}
}
