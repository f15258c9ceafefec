package exportcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"citeformat/src/cmd/bib/bibliographycmd"
	"citeformat/src/internal/app"
	"citeformat/src/internal/assemble"
	"citeformat/src/internal/entry"
)

// New returns the export command, which writes a document's rendered
// bibliography to a file. The markup follows the output extension (.md,
// .html, .txt) unless --markup is given.
func New(open app.Opener) *cobra.Command {
	var out, style, markup string
	cmd := &cobra.Command{
		Use:   "export <document.yaml>",
		Short: "Write a document's bibliography to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.Close()
			if out == "" {
				base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				out = filepath.Join(filepath.Dir(args[0]), base+".bib.txt")
			}
			m, err := MarkupFor(out, markup, a.Config.Markup)
			if err != nil {
				return err
			}
			res, _, err := bibliographycmd.Assemble(a, args[0], style, m)
			if err != nil {
				return err
			}
			bibliographycmd.WarnMissing(cmd.ErrOrStderr(), res)
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(out, []byte(assemble.RenderList(res.Entries, m)), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d entries)\n", out, len(res.Entries))
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default <document>.bib.txt next to the document)")
	cmd.Flags().StringVarP(&style, "style", "s", "", "style id (default: the document's, then config)")
	cmd.Flags().StringVar(&markup, "markup", "", "plain, markdown or html (default from the output extension)")
	return cmd
}

// MarkupFor picks the markup for an output path: an explicit flag wins, then
// the file extension, then the configured default.
func MarkupFor(path, flag string, fallback entry.Markup) (entry.Markup, error) {
	if flag != "" {
		return entry.ParseMarkup(flag)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return entry.Markdown, nil
	case ".html", ".htm":
		return entry.HTML, nil
	case ".txt":
		return entry.Plain, nil
	}
	return fallback, nil
}
