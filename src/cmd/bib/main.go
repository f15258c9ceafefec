package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"citeformat/src/cmd/bib/bibliographycmd"
	"citeformat/src/cmd/bib/citecmd"
	"citeformat/src/cmd/bib/entrycmd"
	"citeformat/src/cmd/bib/exportcmd"
	"citeformat/src/cmd/bib/importstylecmd"
	"citeformat/src/cmd/bib/searchcmd"
	"citeformat/src/cmd/bib/stylescmd"
	"citeformat/src/internal/app"
	"citeformat/src/internal/config"
)

// newRootCmd builds the bib command tree around its own viper instance, so
// tests can run several trees side by side.
func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string
	root := &cobra.Command{
		Use:           "bib",
		Short:         "Format inline citations and bibliographies from YAML records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./citeformat.yaml or ~/.config/citeformat/citeformat.yaml)")
	flags.String("records", "", "records directory (default data/records)")
	flags.String("markup", "", "output markup: plain, markdown or html")
	flags.String("log-level", "", "debug, info, warn or error")
	for key, flag := range map[string]string{
		config.KeyRecordsDir: "records",
		config.KeyMarkup:     "markup",
		config.KeyLogLevel:   "log-level",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	open := func() (*app.App, error) {
		if err := config.Init(v, cfgFile); err != nil {
			return nil, err
		}
		return app.Open(v, root.ErrOrStderr())
	}
	root.AddCommand(
		citecmd.New(open),
		entrycmd.New(open),
		bibliographycmd.New(open),
		exportcmd.New(open),
		stylescmd.New(open),
		importstylecmd.New(open),
		searchcmd.New(open),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
