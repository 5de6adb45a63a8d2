package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pagebuilder/internal/app"
	"pagebuilder/internal/config"
	"pagebuilder/internal/logger"
	"pagebuilder/internal/observability"
)

var version = "dev"

var (
	// Global flags
	configPath string
	verbose    bool

	application     *app.App
	shutdownTracing func(context.Context) error
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pagebuilder",
	Short: "Compose tenant pages from hero, product and call-to-action sections",
	Long: `pagebuilder edits the pages of a multi-tenant site builder.

A page is an ordered list of sections. Sections are added at the bottom,
edited field by field and saved as a whole; the last save wins.

Run "pagebuilder serve" for the browser editor or "pagebuilder mcp" to let
an AI agent compose pages.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		mode := cfg.Log.Mode
		if verbose {
			mode = "dev"
		}
		log, err := logger.New(mode)
		if err != nil {
			return err
		}
		shutdownTracing = observability.InitTracing(cmd.Context(), log, cfg.Tracing, version)
		application, err = app.New(cfg, log)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if application == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		application.Shutdown(ctx)
		if shutdownTracing != nil {
			if err := shutdownTracing(ctx); err != nil {
				application.Log.Warn("tracing shutdown failed", "error", err)
			}
		}
		application.Log.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/pagebuilder/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		serveCmd,
		mcpCmd,
		editCmd,
		loginCmd,
		logoutCmd,
		whoamiCmd,
		tenantCmd,
		pagesCmd,
		productsCmd,
		themesCmd,
		plansCmd,
		adminCmd,
		draftsCmd,
		versionCmd,
	)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("Error:"), userMessage(err))
		os.Exit(1)
	}
}
