package entrycmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"citeformat/src/internal/app"
	"citeformat/src/internal/schema"
)

// New returns the entry command, which prints the bibliography entry of each
// record id in the given style.
func New(open app.Opener) *cobra.Command {
	var style string
	cmd := &cobra.Command{
		Use:   "entry <id> [id...]",
		Short: "Print the bibliography entry for records",
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
			e := a.Engine()
			styleID := a.Style(style, schema.Document{})
			for _, id := range args {
				id = strings.TrimSpace(id)
				rec, ok := lookup.Record(id)
				if !ok {
					return fmt.Errorf("no record found for id %s", id)
				}
				s, err := e.FormatBibliographyEntry(rec, styleID)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), s); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&style, "style", "s", "", "style id (default from config)")
	return cmd
}
