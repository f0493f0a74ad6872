package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/bep/debounce"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"
)

var (
	watchInterval time.Duration
	watchDebounce time.Duration
)

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 500*time.Millisecond, "how often to check the file")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", time.Second, "quiet period after a change before re-transcribing")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-prints the transcript whenever the file changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		enc, err := textEncoding()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return watch(ctx, cmd.OutOrStdout(), args[0], enc)
	},
}

func modTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func watch(ctx context.Context, w io.Writer, path string, enc encoding.Encoding) error {
	last, err := modTime(path)
	if err != nil {
		return err
	}

	run := func() {
		if err := transcribeFile(w, path, enc); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
	}
	run()

	debounced := debounce.New(watchDebounce)
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// drop a run still waiting out the debounce
			debounced(func() {})
			return nil
		case <-ticker.C:
			mt, err := modTime(path)
			if err != nil {
				logrus.WithError(err).Debug("stat failed, waiting")
				continue
			}
			if mt.Equal(last) {
				continue
			}
			last = mt
			debounced(run)
		}
	}
}
