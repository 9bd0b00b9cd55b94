package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/app"
	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/client"
	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/config"
	"github.com/jyothirmayi02/chemical-equipment-visualizer/internal/logging"
)

var version = "dev"

func main() {
	var (
		cfgPath     string
		backendURL  string
		downloadDir string
		logFile     string
	)

	rootCmd := &cobra.Command{
		Use:     "chemviz-tui",
		Short:   "Terminal dashboard for the chemical equipment analytics backend",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if backendURL != "" {
				cfg.Backend.URL = backendURL
			}
			if downloadDir != "" {
				cfg.Download.Dir = downloadDir
			}
			if logFile != "" {
				cfg.Log.File = logFile
			}

			log, err := logging.NewFileLogger(cfg.Log.File)
			if err != nil {
				// The TUI still works without diagnostics.
				log = logging.NewDiscardLogger()
			}
			defer log.Close()

			api := client.NewAPIClient(cfg.Backend.URL, cfg.Backend.Timeout, log)

			log.Info().Str("backend", cfg.Backend.URL).Str("version", version).Msg("starting")

			m := app.New(api, cfg, log)
			p := tea.NewProgram(m, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}

	rootCmd.Flags().StringVar(&cfgPath, "config", "chemviz.yaml", "path to the YAML config file")
	rootCmd.Flags().StringVar(&backendURL, "url", "", "backend base URL (overrides config)")
	rootCmd.Flags().StringVar(&downloadDir, "download-dir", "", "directory for saved PDF reports (overrides config)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "diagnostic log file (overrides config)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
