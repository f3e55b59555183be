package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-vcard/pkg/bridge"
	"github.com/shapestone/shape-vcard/pkg/vcard"
)

type formatFlags struct {
	version   string
	noFold    bool
	maxLine   int
	assignUID bool
	like      string
	outFile   string
}

func newFormatCmd(g *globalFlags) *cobra.Command {
	f := &formatFlags{}

	cmd := &cobra.Command{
		Use:   "format [file...]",
		Short: "Re-encode vCard files",
		Long: `Parse vCard files and write them back with the configured writer
settings. Output goes to standard output unless --write is given; a
.gz, .zst or .lz4 extension on the output path selects compression.

With --like, the writer settings are taken from a sample file: its most
common version and whether it folds long lines.

With --engine emersion and no --write, cards are written by the go-vcard
encoder. It keeps each card's version and does not fold, so the writer
settings are ignored and a warning names any writer flag that was set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, g, f, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.version, "version", "V", "", "target version (2.1, 3.0 or 4.0)")
	flags.BoolVar(&f.noFold, "no-fold", false, "do not fold long lines")
	flags.IntVar(&f.maxLine, "max-line", 0, "maximum physical line length when folding")
	flags.BoolVar(&f.assignUID, "assign-uid", false, "add a urn:uuid UID to cards without one")
	flags.StringVar(&f.like, "like", "", "copy writer settings from a sample vCard file")
	flags.StringVarP(&f.outFile, "write", "w", "", "write to this file instead of standard output")
	return cmd
}

// writerOptions layers the sample file, then explicit flags, over the config.
func (f *formatFlags) writerOptions(cmd *cobra.Command, cfg *Config) (vcard.WriterOptions, error) {
	opts, err := cfg.WriterOptions()
	if err != nil {
		return opts, err
	}
	if f.like != "" {
		sample, err := readText(cmd, f.like)
		if err != nil {
			return opts, err
		}
		opts = vcard.NewSniffer(sample).WriterOptions()
		log.Infof("writer settings from %s: version %s, fold %t", f.like, opts.TargetVersion, opts.FoldLines)
	}

	flags := cmd.Flags()
	if flags.Changed("version") {
		v, ok := vcard.ParseVersion(f.version)
		if !ok {
			return opts, fmt.Errorf("unsupported version %q", f.version)
		}
		opts.TargetVersion = v
	}
	if flags.Changed("no-fold") {
		opts.FoldLines = !f.noFold
	}
	if flags.Changed("max-line") {
		opts.MaxLineLength = f.maxLine
	}
	return opts, opts.Validate()
}

// writerFlags are the format flags that only the native writer honors.
var writerFlags = []string{"version", "no-fold", "max-line", "like"}

// ignoredWriterFlags lists the writer flags set on cmd.
func ignoredWriterFlags(cmd *cobra.Command) []string {
	var set []string
	for _, name := range writerFlags {
		if cmd.Flags().Changed(name) {
			set = append(set, "--"+name)
		}
	}
	return set
}

func runFormat(cmd *cobra.Command, g *globalFlags, f *formatFlags, args []string) error {
	opts, err := f.writerOptions(cmd, g.cfg)
	if err != nil {
		return err
	}

	cards, readErr := g.readAll(cmd, args)
	if f.assignUID {
		for i, c := range cards {
			if cards[i], err = vcard.NewBuilderFrom(c).GenerateUID().Build(); err != nil {
				// Cards parsed leniently may lack required fields.
				log.Warnf("card %d: cannot assign UID: %v", i+1, err)
				cards[i] = c
			}
		}
	}

	if f.outFile != "" {
		if err := vcard.WriteFile(f.outFile, cards, opts); err != nil {
			return err
		}
		log.Infof("wrote %d cards to %s", len(cards), f.outFile)
		return readErr
	}

	if g.cfg.Reader.Engine == engineEmersion {
		if ignored := ignoredWriterFlags(cmd); len(ignored) > 0 {
			log.Warnf("the emersion encoder has fixed output settings, ignoring %s", strings.Join(ignored, ", "))
		}
		if err := bridge.Encode(cmd.OutOrStdout(), cards); err != nil {
			return err
		}
		return readErr
	}

	enc, err := vcard.NewEncoder(cmd.OutOrStdout(), opts)
	if err != nil {
		return err
	}
	for _, c := range cards {
		if err := enc.Encode(c); err != nil {
			return err
		}
	}
	return readErr
}
