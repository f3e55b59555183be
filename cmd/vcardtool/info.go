package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-vcard/pkg/vcard"
)

func newInfoCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info [file...]",
		Short: "Describe the layout of vCard files",
		Long: `Report the card count, versions, line endings and folding of each
input without fully parsing it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, path := range inputPaths(args) {
				text, err := readText(cmd, path)
				if err != nil {
					return err
				}
				s := vcard.NewSniffer(text)

				versions := make([]string, 0, len(s.Versions()))
				for _, v := range s.Versions() {
					versions = append(versions, v.String())
				}
				if len(versions) == 0 {
					versions = append(versions, "none")
				}

				fmt.Fprintf(out, "%s:\n", path)
				fmt.Fprintf(out, "  cards:        %d\n", s.CardCount())
				fmt.Fprintf(out, "  versions:     %s\n", strings.Join(versions, ", "))
				fmt.Fprintf(out, "  dominant:     %s\n", s.DominantVersion())
				fmt.Fprintf(out, "  line ending:  %s\n", lineEndingName(s.LineEnding()))
				fmt.Fprintf(out, "  folded:       %t\n", s.HasFolding())
				fmt.Fprintf(out, "  longest line: %d\n", s.LongestLine())
			}
			return nil
		},
	}
}

func lineEndingName(ending string) string {
	switch ending {
	case vcard.LineEndingCRLF:
		return "CRLF"
	case vcard.LineEndingLF:
		return "LF"
	case vcard.LineEndingNone:
		return "none"
	}
	return ending
}
