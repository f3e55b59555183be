package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-vcard/pkg/vcard"
)

var errValidation = errors.New("validation failed")

func newValidateCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file...]",
		Short: "Check vCard files in strict mode",
		Long: `Parse each file in strict mode and report every failed record.

Records fail on malformed lines, nested BEGIN:VCARD and a missing VERSION
or FN. The command exits non-zero if any record fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, g, args)
		},
	}
}

func runValidate(cmd *cobra.Command, g *globalFlags, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range inputPaths(args) {
		r, err := openInput(cmd, path)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", path, err)
			failed++
			continue
		}

		opts := g.readerOptions(path)
		opts.Strict = true
		s := vcard.NewScanner(r, opts)
		ok := 0
		for s.Scan() {
			ok++
		}
		err = s.Err()
		r.Close()

		if err == nil {
			fmt.Fprintf(out, "%s: ok (%d cards)\n", path, ok)
			continue
		}
		failed++
		errs := unwrapAll(err)
		fmt.Fprintf(out, "%s: %d ok, %d failed\n", path, ok, len(errs))
		for _, e := range errs {
			fmt.Fprintf(out, "  %v\n", e)
		}
		if g.cfg.Reader.FailFast {
			break
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d inputs", errValidation, failed, len(inputPaths(args)))
	}
	return nil
}

// unwrapAll flattens an errors.Join result.
func unwrapAll(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
