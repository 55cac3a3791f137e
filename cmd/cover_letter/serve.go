package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cover-letter/internal/config"
	"github.com/jonathan/cover-letter/internal/server"
)

var (
	servePort       int
	serveRules      string
	serveUseBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the cover letter form server",
	Long:  `Start an HTTP server that serves the cover letter form and its JSON API.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on")
	serveCmd.Flags().StringVar(&serveRules, "rules", "", "Override rules file (defaults to the bundled rules)")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "use-browser", false, "Render script-heavy job pages with headless Chrome")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		"port":        config.KeyPort,
		"use-browser": config.KeyUseBrowser,
	})
	if err != nil {
		return err
	}

	gen, err := newGenerator(cfg, serveRules)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:       cfg.Port,
		Generator:  gen,
		UseBrowser: cfg.UseBrowser,
		Verbose:    cfg.Verbose,
		RateLimit:  cfg.RateLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
