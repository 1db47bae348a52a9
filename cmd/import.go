package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aroldanm/mkdw-demo/internal/db"
	"github.com/aroldanm/mkdw-demo/internal/document"
	"github.com/aroldanm/mkdw-demo/internal/progress"
	"github.com/aroldanm/mkdw-demo/internal/session"
	"github.com/aroldanm/mkdw-demo/internal/walker"
)

var importOwner string

var importCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Bulk-import markdown files into the document store",
	Long: `Walks a directory tree, uploads every markdown file matching the
configured include/exclude patterns, and assigns ownership to the
given email. Requires a file-backed database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Database == "" {
			return fmt.Errorf("import needs a file-backed database; set `database` in %s", cfgFile)
		}

		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		files, err := walker.Walk(walker.Config{
			RootDir:     root,
			Include:     cfg.Include,
			Exclude:     cfg.Exclude,
			MaxFileSize: cfg.MaxUploadBytes,
		})
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no markdown files found under %s", root)
		}

		database, err := db.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		docs := document.NewStore(database)
		ownerID := session.UserID(importOwner)

		reporter := progress.NewReporter("Importing documents")
		reporter.Start(len(files))

		imported := 0
		for i, f := range files {
			content, err := walker.ReadContent(f)
			if err != nil {
				fmt.Fprintf(os.Stderr, "skipping %s: %v\n", f.RelPath, err)
				continue
			}
			if _, err := docs.Upload(cmd.Context(), content, f.RelPath, ownerID); err != nil {
				return fmt.Errorf("importing %s: %w", f.RelPath, err)
			}
			imported++
			reporter.Update(i+1, f.RelPath)
		}
		reporter.Finish()

		fmt.Fprintf(os.Stderr, "Imported %d documents for %s\n", imported, importOwner)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importOwner, "owner", "demo@example.com", "email owning the imported documents")
	rootCmd.AddCommand(importCmd)
}
