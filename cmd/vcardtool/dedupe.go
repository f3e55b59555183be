package main

import (
	"github.com/spf13/cobra"

	"github.com/shapestone/shape-vcard/pkg/vcard"
)

func newDedupeCmd(g *globalFlags) *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "dedupe [file...]",
		Short: "Remove duplicate cards",
		Long: `Read cards from every input and write them back without duplicates.
Two cards are duplicates when they have the same version and render
identically; the first one is kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := g.cfg.WriterOptions()
			if err != nil {
				return err
			}

			cards, readErr := g.readAll(cmd, args)
			unique := vcard.Dedupe(cards)
			log.Infof("%d cards, %d duplicates removed", len(cards), len(cards)-len(unique))

			if outFile != "" {
				if err := vcard.WriteFile(outFile, unique, opts); err != nil {
					return err
				}
				return readErr
			}
			enc, err := vcard.NewEncoder(cmd.OutOrStdout(), opts)
			if err != nil {
				return err
			}
			for _, c := range unique {
				if err := enc.Encode(c); err != nil {
					return err
				}
			}
			return readErr
		},
	}

	cmd.Flags().StringVarP(&outFile, "write", "w", "", "write to this file instead of standard output")
	return cmd
}
