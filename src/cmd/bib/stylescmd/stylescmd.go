package stylescmd

import (
	"github.com/spf13/cobra"

	"citeformat/src/cmd/bib/searchcmd"
	"citeformat/src/internal/app"
)

// New returns the styles command, which lists every registered style.
func New(open app.Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List available citation styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.Close()
			var rows [][]string
			for _, s := range a.Engine().ListStyles() {
				rows = append(rows, []string{s.ID, s.DisplayName})
			}
			searchcmd.RenderTable(cmd.OutOrStdout(), []string{"id", "name"}, rows)
			return nil
		},
	}
}
