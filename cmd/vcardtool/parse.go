package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-vcard/pkg/vcard"
)

// Output formats for the parse command.
const (
	outputSummary = "summary"
	outputJSON    = "json"
	outputAST     = "ast"
	outputTree    = "tree"
)

func newParseCmd(g *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "parse [file...]",
		Short: "Parse vCard files and print their contents",
		Long: `Parse vCard files and print the cards they contain.

Output formats:
  summary  one line per card
  json     the cards as JSON
  ast      the cards as a shape-core AST, in JSON
  tree     the AST as an indented tree`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cards, readErr := g.readAll(cmd, args)
			if err := printCards(cmd.OutOrStdout(), cards, output); err != nil {
				return err
			}
			return readErr
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputSummary, "output format: summary, json, ast or tree")
	return cmd
}

func printCards(w io.Writer, cards []*vcard.Card, output string) error {
	switch output {
	case outputSummary:
		return printSummary(w, cards)
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if cards == nil {
			cards = []*vcard.Card{}
		}
		return enc.Encode(cards)
	case outputAST:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(vcard.CardsToNode(cards))
	case outputTree:
		_, err := io.WriteString(w, treeString(vcard.CardsToNode(cards)))
		return err
	}
	return fmt.Errorf("unknown output format %q", output)
}

func printSummary(w io.Writer, cards []*vcard.Card) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tVERSION\tFN\tKIND\tTEL\tEMAIL\tADR\tPHOTO")
	for i, c := range cards {
		kind := string(c.Kind())
		if kind == "" {
			kind = "-"
		}
		photo := "-"
		switch {
		case c.PhotoData() != nil:
			photo = c.PhotoMediaType()
		case c.PhotoURI() != "":
			photo = "uri"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			i+1, c.Version(), strconv.Quote(c.FormattedName()), kind,
			len(c.PhoneNumbers()), len(c.Emails()), len(c.Addresses()), photo)
	}
	return tw.Flush()
}
