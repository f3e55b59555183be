package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-vcard/internal/fileio"
	"github.com/shapestone/shape-vcard/pkg/bridge"
	"github.com/shapestone/shape-vcard/pkg/vcard"
)

// Decoders selectable with --engine.
const (
	engineNative   = "native"
	engineEmersion = "emersion"
)

const stdinName = "-"

// inputPaths returns args, or standard input when there are none.
func inputPaths(args []string) []string {
	if len(args) == 0 {
		return []string{stdinName}
	}
	return args
}

func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == stdinName {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return fileio.Open(path)
}

// readerOptions returns the configured reader options with warnings routed
// to the logger under the input's name.
func (g *globalFlags) readerOptions(name string) vcard.ReaderOptions {
	opts := g.cfg.ReaderOptions()
	opts.WarningCallback = func(line int, message string) {
		log.Warnf("%s:%d: %s", name, line, message)
	}
	return opts
}

// readFile decodes every card in one input with the configured engine.
func (g *globalFlags) readFile(cmd *cobra.Command, path string) ([]*vcard.Card, error) {
	r, err := openInput(cmd, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	opts := g.readerOptions(path)
	if g.cfg.Reader.Engine == engineEmersion {
		return bridge.Decode(r, opts)
	}
	return vcard.ParseReaderWithOptions(r, opts)
}

// readAll decodes every input. Cards that decoded are returned alongside
// the failures, which carry the input name.
func (g *globalFlags) readAll(cmd *cobra.Command, args []string) ([]*vcard.Card, error) {
	var cards []*vcard.Card
	var errs []error
	for _, path := range inputPaths(args) {
		got, err := g.readFile(cmd, path)
		cards = append(cards, got...)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			if g.cfg.Reader.FailFast {
				break
			}
		}
		log.Debugf("%s: %d cards", path, len(got))
	}
	return cards, errors.Join(errs...)
}

// readText returns the decompressed text of one input.
func readText(cmd *cobra.Command, path string) (string, error) {
	r, err := openInput(cmd, path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return string(data), nil
}
