package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/open-wander/tracks/internal/db"
	"github.com/open-wander/tracks/internal/logfile"
	"github.com/open-wander/tracks/internal/processor"
	"github.com/open-wander/tracks/internal/resolver"
	"github.com/oschwald/geoip2-golang/v2"
	"github.com/spf13/cobra"
)

var (
	flagBandwidth    bool
	flagIPBandwidth  bool
	flagStatus       bool
	flagSetKeys      []string
	flagCountry      bool
	flagResolve      bool
	flagSmart        bool
	flagTop          int
	flagMinimumTotal float64
	flagScale        string
	flagDBPath       string
	flagRotated      bool
)

var processCmd = &cobra.Command{
	Use:   "process [files...]",
	Short: "Run aggregation passes over access log files",
	Long: `Process one or more access log files (plain or gzip-compressed) and
print the selected reports. Pass "-" to read from stdin.

Examples:
  tracks process --bandwidth access.log
  tracks process --ip-bandwidth --resolve --top 20 access.log access.log.1.gz
  tracks process --status --set '%h' -f common access.log`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(&flagBandwidth, "bandwidth", false, "report total transfer rate")
	processCmd.Flags().BoolVar(&flagIPBandwidth, "ip-bandwidth", false, "report per-client transfer rates")
	processCmd.Flags().BoolVar(&flagStatus, "status", false, "report status code / request crosstab")
	processCmd.Flags().StringSliceVar(&flagSetKeys, "set", nil, "collect distinct values of a directive (repeatable)")
	processCmd.Flags().BoolVar(&flagCountry, "country", false, "report requests by GeoIP country (needs a GeoIP database)")
	processCmd.Flags().BoolVar(&flagResolve, "resolve", false, "reverse-resolve the heaviest client IPs (with --ip-bandwidth)")
	processCmd.Flags().BoolVar(&flagSmart, "smart", true, "canonicalize well-known crawler hostnames when resolving")
	processCmd.Flags().IntVar(&flagTop, "top", 10, "number of clients to list and resolve")
	processCmd.Flags().Float64Var(&flagMinimumTotal, "minimum-total", 0, "stop resolving once the unresolved share drops below this fraction")
	processCmd.Flags().StringVar(&flagScale, "scale", "MB/month", "rate unit: "+strings.Join(processor.ScaleNames(), ", "))
	processCmd.Flags().StringVar(&flagDBPath, "db", "", "SQLite database for run history and the DNS cache")
	processCmd.Flags().BoolVar(&flagRotated, "rotated", false, "expand each file to its logrotate chain, oldest first")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if _, ok := processor.Scales[flagScale]; !ok {
		return fmt.Errorf("unknown scale %q (want one of %s)", flagScale, strings.Join(processor.ScaleNames(), ", "))
	}

	format, err := compileFormat(cfg.Format, false)
	if err != nil {
		return err
	}

	renderer, err := newRenderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	// Assemble processors
	var (
		procs []processor.Processor
		bw    *processor.Bandwidth
		ipbw  *processor.IPBandwidth
	)
	if flagBandwidth {
		bw = processor.NewBandwidth(flagScale)
		procs = append(procs, bw)
	}
	if flagIPBandwidth {
		ipbw = processor.NewIPBandwidth(flagScale, flagTop)
		procs = append(procs, ipbw)
	}
	if flagStatus {
		procs = append(procs, processor.NewStatus())
	}
	if len(flagSetKeys) > 0 {
		procs = append(procs, processor.NewSet(flagSetKeys...))
	}
	if flagCountry {
		if cfg.GeoIPPath == "" {
			return fmt.Errorf("--country needs a GeoIP database (set TRACKS_GEOIP_PATH or geoip_path)")
		}
		reader, err := geoip2.Open(cfg.GeoIPPath)
		if err != nil {
			return fmt.Errorf("open GeoIP database: %w", err)
		}
		defer reader.Close()
		procs = append(procs, processor.NewCountry(reader))
	}
	if len(procs) == 0 {
		// With no reports selected, still time the logs
		procs = append(procs, processor.NewLogTime())
	}

	files := args
	if flagRotated {
		files = nil
		for _, path := range args {
			chain, err := logfile.Rotated(path)
			if err != nil {
				return err
			}
			files = append(files, chain...)
		}
	}

	started := time.Now()
	var total processor.Result
	for _, path := range files {
		var r io.ReadCloser
		if path == "-" {
			r = os.Stdin
		} else {
			r, err = logfile.Open(path)
			if err != nil {
				return err
			}
		}
		res, err := processor.Run(r, format, procs)
		if path != "-" {
			r.Close()
		}
		if err != nil {
			return fmt.Errorf("process %s: %w", path, err)
		}
		total.Lines += res.Lines
		total.ParseErrors += res.ParseErrors
	}
	finished := time.Now()

	// Reverse DNS consolidation happens after all files are read so the
	// heaviest clients are known.
	if flagResolve && ipbw != nil {
		cache, closeCache, err := openDNSCache(flagDBPath)
		if err != nil {
			return err
		}
		res := resolver.New(cache, flagSmart, cfg.ResolveTimeout)
		ipbw.Resolve(context.Background(), res, flagTop, flagMinimumTotal)
		closeCache()
	}

	// Record the run
	if flagDBPath != "" {
		database, err := db.Open(flagDBPath)
		if err != nil {
			return err
		}
		_, err = db.RecordRun(database, db.Run{
			StartedAt:   started,
			FinishedAt:  finished,
			Files:       files,
			Format:      cfg.Format,
			Lines:       total.Lines,
			ParseErrors: total.ParseErrors,
		})
		database.Close()
		if err != nil {
			return err
		}
	}

	if total.ParseErrors > 0 {
		log.Printf("process: %d of %d lines did not match the format", total.ParseErrors, total.Lines)
	}

	for _, p := range procs {
		if rep, ok := p.(processor.Reporter); ok {
			if err := renderer.Render(rep.Report()); err != nil {
				return err
			}
		}
	}
	return nil
}

// openDNSCache backs the resolver with the SQLite cache when a database
// path is set, falling back to an in-memory cache otherwise.
func openDNSCache(dbPath string) (resolver.Cache, func(), error) {
	if dbPath == "" {
		return resolver.NewMemoryCache(), func() {}, nil
	}
	database, err := db.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}
	return db.NewDNSCache(database), func() { database.Close() }, nil
}
