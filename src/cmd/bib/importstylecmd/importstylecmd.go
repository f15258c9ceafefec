package importstylecmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"citeformat/src/internal/app"
	"citeformat/src/internal/schema"
	"citeformat/src/internal/styles"
)

// New returns the import-style command. It registers a CSL, YAML or TOML
// style for this run, reports what was derived and, with --record, previews
// a stored record in it. Styles persist across runs through style_files.
func New(open app.Opener) *cobra.Command {
	var recordID string
	cmd := &cobra.Command{
		Use:   "import-style <file>",
		Short: "Import a CSL, YAML or TOML style and preview it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.Close()
			e := a.Engine()
			path := args[0]

			var info styles.Info
			var warnings []string
			switch strings.ToLower(filepath.Ext(path)) {
			case ".csl", ".xml":
				doc, rerr := os.ReadFile(path)
				if rerr != nil {
					return fmt.Errorf("read style: %w", rerr)
				}
				info, warnings, err = e.ImportExternalStyle(doc)
			default:
				info, warnings, err = e.LoadStyleFile(path)
			}
			for _, w := range warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "registered %s (%s)\n", info.ID, info.DisplayName)

			if recordID == "" {
				fmt.Fprintf(out, "add %s to style_files in citeformat.yaml to use it on every run\n", path)
				return nil
			}
			lookup, err := a.Records()
			if err != nil {
				return err
			}
			rec, ok := lookup.Record(recordID)
			if !ok {
				return fmt.Errorf("no record found for id %s", recordID)
			}
			marker, err := e.FormatInlineCitation(schema.Occurrence{RecordID: recordID}, lookup, info.ID)
			if err != nil {
				return err
			}
			entry, err := e.FormatBibliographyEntry(rec, info.ID)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "inline: %s\nentry:  %s\n", marker, entry)
			return err
		},
	}
	cmd.Flags().StringVarP(&recordID, "record", "r", "", "record id to preview in the imported style")
	return cmd
}
