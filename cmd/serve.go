package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aroldanm/mkdw-demo/internal/db"
	"github.com/aroldanm/mkdw-demo/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the document server",
	Long: `Starts the mkdw server: the REST API, the editor websocket, and the
dashboard pages. Documents live in an in-memory database unless a
database path is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}

		var database *db.DB
		if cfg.Database == "" {
			database, err = db.OpenMemory()
		} else {
			database, err = db.Open(cfg.Database)
		}
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:           cfg.Port,
			BaseURL:        cfg.BaseURL,
			SiteTitle:      cfg.SiteTitle,
			HighlightStyle: cfg.HighlightStyle,
			AllowAll:       cfg.AllowAllOrigins,
		}, database)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "mkdw v%s starting on port %d\n", Version, cfg.Port)
		if cfg.Database == "" {
			fmt.Fprintln(os.Stderr, "  Storage: in-memory (documents are discarded on shutdown)")
		} else {
			fmt.Fprintf(os.Stderr, "  Storage: %s\n", cfg.Database)
		}
		fmt.Fprintf(os.Stderr, "  Base URL: %s\n", cfg.BaseURL)

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}
