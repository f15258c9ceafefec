package bibliographycmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"citeformat/src/internal/app"
	"citeformat/src/internal/assemble"
	"citeformat/src/internal/entry"
	"citeformat/src/internal/schema"
	"citeformat/src/internal/store"
)

// New returns the bibliography command, which renders the reference list of a
// document file and optionally its inline markers.
func New(open app.Opener) *cobra.Command {
	var style string
	var showInline bool
	cmd := &cobra.Command{
		Use:   "bibliography <document.yaml>",
		Short: "Render the bibliography of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.Close()
			res, doc, err := Assemble(a, args[0], style, a.Config.Markup)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if showInline {
				occs := sortedBySequence(doc.Citations)
				for i, marker := range res.Inline {
					if _, err := fmt.Fprintf(out, "%d\t%s\t%s\n", i+1, occs[i].RecordID, marker); err != nil {
						return err
					}
				}
				fmt.Fprintln(out)
			}
			WarnMissing(cmd.ErrOrStderr(), res)
			_, err = io.WriteString(out, assemble.RenderList(res.Entries, a.Config.Markup))
			return err
		},
	}
	cmd.Flags().StringVarP(&style, "style", "s", "", "style id (default: the document's, then config)")
	cmd.Flags().BoolVar(&showInline, "inline", false, "also print each citation's inline marker")
	return cmd
}

// Assemble loads the document at path and the record store, and assembles
// the document's bibliography in markup m.
func Assemble(a *app.App, path, style string, m entry.Markup) (assemble.Result, schema.Document, error) {
	doc, err := store.LoadDocument(path)
	if err != nil {
		return assemble.Result{}, schema.Document{}, err
	}
	lookup, err := a.Records()
	if err != nil {
		return assemble.Result{}, schema.Document{}, err
	}
	res, err := a.EngineFor(m).AssembleBibliography(doc.ID, doc.Citations, lookup, a.Style(style, doc))
	if err != nil {
		return assemble.Result{}, schema.Document{}, err
	}
	return res, doc, nil
}

// WarnMissing writes one line per unresolved record id.
func WarnMissing(w io.Writer, res assemble.Result) {
	for _, id := range res.Missing {
		fmt.Fprintf(w, "warning: no record found for id %s\n", id)
	}
}

// sortedBySequence orders citations the way Result.Inline is ordered.
func sortedBySequence(occs []schema.Occurrence) []schema.Occurrence {
	out := append([]schema.Occurrence(nil), occs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SequenceIndex < out[j].SequenceIndex })
	return out
}
