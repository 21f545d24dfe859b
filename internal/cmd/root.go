// Package cmd wires the tracks subcommands together.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/open-wander/tracks/internal/config"
	"github.com/open-wander/tracks/internal/logformat"
	"github.com/open-wander/tracks/internal/output"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	formatArg string
	outputFmt string
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "tracks",
	Short: "Tracks — Apache access log analyzer",
	Long: `Tracks compiles Apache LogFormat directive strings into parsers and
runs aggregation passes over access logs: bandwidth totals, per-client
bandwidth with reverse DNS consolidation, status crosstabs, field
inventories, and GeoIP country breakdowns.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML, optional)")
	rootCmd.PersistentFlags().StringVarP(&formatArg, "format", "f", "", `log format: a preset name ("common", "vhcommon", "extended") or a literal directive string`)
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format: text, json")
}

// loadConfig reads the config file named by --config (if any) and lets
// command-line flags win over it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if formatArg != "" {
		cfg.Format = formatArg
	}
	return cfg, nil
}

// compileFormat resolves a preset name to its directive string, then
// compiles it.
func compileFormat(format string, friendlyNames bool) (*logformat.CompiledFormat, error) {
	if preset, ok := logformat.Formats[format]; ok {
		format = preset
	}
	return logformat.Compile(format, friendlyNames)
}

// newRenderer picks the report renderer selected by --output.
func newRenderer(w io.Writer) (output.Renderer, error) {
	switch outputFmt {
	case "text":
		return output.NewTextRenderer(w), nil
	case "json":
		return output.NewJSONRenderer(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text or json)", outputFmt)
	}
}
