package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aroldanm/mkdw-demo/internal/db"
	"github.com/aroldanm/mkdw-demo/internal/document"
	"github.com/aroldanm/mkdw-demo/internal/markdown"
	"github.com/aroldanm/mkdw-demo/internal/progress"
	"github.com/aroldanm/mkdw-demo/internal/site"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export public documents as a static HTML site",
	Long: `Renders every public document to HTML and writes a self-contained
static site with an index page. Requires a file-backed database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Database == "" {
			return fmt.Errorf("export needs a file-backed database; set `database` in %s", cfgFile)
		}

		database, err := db.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		docs := document.NewStore(database)
		opts := markdown.Options{Styles: markdown.DefaultStyles()}
		if cfg.HighlightStyle != "" {
			opts.HighlightStyle = cfg.HighlightStyle
		}
		exporter := site.NewExporter(docs, markdown.New(opts), exportOutput, cfg.SiteTitle)

		public, err := docs.List(cmd.Context(), document.ListFilter{PublicOnly: true})
		if err != nil {
			return err
		}

		reporter := progress.NewReporter("Exporting site")
		reporter.Start(len(public))
		pages, err := exporter.Export(cmd.Context(), reporter.Update)
		reporter.Finish()
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Exported %d pages to %s\n", pages, exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOutput, "output", "public", "output directory for the static site")
	rootCmd.AddCommand(exportCmd)
}
