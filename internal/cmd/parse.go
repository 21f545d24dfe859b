package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/open-wander/tracks/internal/logfile"
	"github.com/open-wander/tracks/internal/logformat"
	"github.com/spf13/cobra"
)

var flagFriendlyNames bool

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Parse access log lines into JSON records",
	Long: `Parse one or more access log files and print each line as a JSON
object, one per line. Pass "-" to read from stdin. With --friendly-names
the fields are keyed by directive name (remote_host, status, ...)
instead of the raw %-token.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&flagFriendlyNames, "friendly-names", false, "key fields by directive name instead of the raw token")
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := compileFormat(cfg.Format, flagFriendlyNames)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, path := range args {
		var r io.ReadCloser
		if path == "-" {
			r = os.Stdin
		} else {
			r, err = logfile.Open(path)
			if err != nil {
				return err
			}
		}
		err = parseStream(r, format, enc)
		if path != "-" {
			r.Close()
		}
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return nil
}

func parseStream(r io.Reader, format *logformat.CompiledFormat, enc *json.Encoder) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rec, err := format.Parse(line)
		if err != nil {
			var perr *logformat.ParseError
			if errors.As(err, &perr) {
				log.Printf("parse: skipping unmatched line: %s", line)
				continue
			}
			return err
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return scanner.Err()
}
