package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/open-wander/tracks/internal/logformat"
	"github.com/open-wander/tracks/internal/tailer"
	"github.com/spf13/cobra"
)

var flagFromStart bool

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Follow a live access log and stream parsed records",
	Long: `Follow an access log as it is written and print each new line as a
JSON record. Survives log rotation. Without a file argument the
configured log_file is followed. By default only lines appended after
startup are emitted; --from-start replays the whole file first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&flagFromStart, "from-start", false, "replay existing content before following")
	watchCmd.Flags().BoolVar(&flagFriendlyNames, "friendly-names", false, "key fields by directive name instead of the raw token")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := cfg.LogFile
	if len(args) == 1 {
		path = args[0]
	}

	format, err := compileFormat(cfg.Format, flagFriendlyNames)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	lines := make(chan string, 1024)
	tailErr := make(chan error, 1)
	go func() {
		tailErr <- tailer.New(path, !flagFromStart).Run(ctx, lines)
	}()

	enc := json.NewEncoder(cmd.OutOrStdout())
	for {
		select {
		case err := <-tailErr:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case line := <-lines:
			rec, err := format.Parse(line)
			if err != nil {
				var perr *logformat.ParseError
				if errors.As(err, &perr) {
					log.Printf("watch: skipping unmatched line: %s", line)
					continue
				}
				return err
			}
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
	}
}
