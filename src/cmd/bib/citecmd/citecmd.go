package citecmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"citeformat/src/internal/app"
	"citeformat/src/internal/schema"
)

// New returns the cite command, which prints the inline citation for one or
// more record ids. Several ids are cited together as one group marker.
func New(open app.Opener) *cobra.Command {
	var style, locant, prefix, suffix string
	var suppress, withEntry bool
	cmd := &cobra.Command{
		Use:   "cite <id> [id...]",
		Short: "Print the inline citation for one or more records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.Close()
			lookup, err := a.Records()
			if err != nil {
				return err
			}
			styleID := a.Style(style, schema.Document{})
			occs := Occurrences(args, locant, prefix, suffix, suppress)
			e := a.Engine()

			var marker string
			if len(occs) == 1 {
				marker, err = e.FormatInlineCitation(occs[0], lookup, styleID)
			} else {
				marker, err = e.FormatInlineGroup(occs, lookup, styleID, nil)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, marker); err != nil {
				return err
			}
			for _, o := range occs {
				rec, ok := lookup.Record(o.RecordID)
				if !ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: no record found for id %s\n", o.RecordID)
					continue
				}
				if !withEntry {
					continue
				}
				entry, err := e.FormatBibliographyEntry(rec, styleID)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintln(out, entry); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&style, "style", "s", "", "style id (default from config)")
	cmd.Flags().StringVarP(&locant, "locant", "l", "", "page or other pinpoint, applied to the last id")
	cmd.Flags().StringVar(&prefix, "prefix", "", "text before the citation, e.g. \"see\"")
	cmd.Flags().StringVar(&suffix, "suffix", "", "text after the citation")
	cmd.Flags().BoolVar(&suppress, "suppress-author", false, "omit the author when it already appears in the sentence")
	cmd.Flags().BoolVar(&withEntry, "entry", false, "also print the bibliography entry of each record")
	return cmd
}

// Occurrences turns command-line ids into sequenced occurrences. Prefix goes
// on the first, locant and suffix on the last.
func Occurrences(ids []string, locant, prefix, suffix string, suppress bool) []schema.Occurrence {
	occs := make([]schema.Occurrence, 0, len(ids))
	for i, id := range ids {
		occs = append(occs, schema.Occurrence{
			RecordID:       strings.TrimSpace(id),
			SequenceIndex:  i,
			SuppressAuthor: suppress,
		})
	}
	if len(occs) > 0 {
		occs[0].Prefix = prefix
		last := &occs[len(occs)-1]
		last.Locant, last.Suffix = locant, suffix
	}
	return occs
}
