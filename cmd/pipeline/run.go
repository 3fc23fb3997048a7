package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var quitWords = map[string]bool{"q": true, "quit": true, "exit": true}

func newRunCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run [url]",
		Short: "Process one URL, or read URLs from stdin until q/quit/exit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, *configPath, nil)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			if len(args) == 1 {
				return runOnce(ctx, a, cmd.OutOrStdout(), args[0])
			}
			return runInteractive(ctx, a, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runOnce(ctx context.Context, a *app, out io.Writer, url string) error {
	res, err := a.proc.Run(ctx, url)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Transcript: %s\n", res.TranscriptPath)
	fmt.Fprintf(out, "Summary:    %s\n\n", res.SummaryPath)
	fmt.Fprint(out, res.Digest)
	return nil
}

// runInteractive prompts for URLs until a quit word, EOF, or cancellation.
// A failed URL is reported and the loop continues. The scratch directory is
// removed on the way out.
func runInteractive(ctx context.Context, a *app, in io.Reader, out io.Writer) error {
	defer func() {
		if err := a.proc.Cleanup(context.WithoutCancel(ctx)); err != nil {
			a.log.Warn(ctx, "Failed to clean up: %v", err)
		}
	}()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Video URL (q to quit): ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if quitWords[strings.ToLower(line)] {
			return nil
		}
		if line == "" {
			continue
		}

		if err := runOnce(ctx, a, out, line); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}
