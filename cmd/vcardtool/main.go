// Command vcardtool inspects, validates and re-encodes vCard files.
//
// Inputs are file paths or "-" for standard input. Files ending in .gz, .zst
// or .lz4 are decompressed on the fly.
package main

import (
	"fmt"
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"
)

var log = logging.Logger("vcardtool")

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	strict     bool
	failFast   bool
	engine     string

	cfg *Config
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "vcardtool",
		Short: "vCard parsing and formatting tool",
		Long: `vcardtool reads vCard 2.1, 3.0 and 4.0 files, reports their contents,
validates them and writes them back in a chosen version.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "path to a YAML config file")
	pf.StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&g.strict, "strict", false, "fail records with malformed lines or missing required fields")
	pf.BoolVar(&g.failFast, "fail-fast", false, "stop at the first failed record (with --strict)")
	pf.StringVar(&g.engine, "engine", engineNative, "decoder to use: native or emersion")

	rootCmd.AddCommand(
		newParseCmd(g),
		newFormatCmd(g),
		newValidateCmd(g),
		newDedupeCmd(g),
		newInfoCmd(g),
	)
	return rootCmd
}

// load reads the config file and applies the flags the user set on top.
func (g *globalFlags) load(cmd *cobra.Command) error {
	cfg, err := LoadConfig(g.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	if flags.Changed("strict") {
		cfg.Reader.Strict = g.strict
	}
	if flags.Changed("fail-fast") {
		cfg.Reader.FailFast = g.failFast
	}
	if flags.Changed("engine") {
		cfg.Reader.Engine = g.engine
	}

	lvl, err := logging.LevelFromString(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logging.SetAllLoggers(lvl)

	switch cfg.Reader.Engine {
	case engineNative, engineEmersion:
	default:
		return fmt.Errorf("unknown engine %q", cfg.Reader.Engine)
	}

	g.cfg = cfg
	log.Debugf("config loaded: %+v", *cfg)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
