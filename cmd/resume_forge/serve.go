package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/resume-forge/internal/artifacts"
	"github.com/jonathan/resume-forge/internal/config"
	"github.com/jonathan/resume-forge/internal/llm"
	"github.com/jonathan/resume-forge/internal/server"
	"github.com/jonathan/resume-forge/internal/store"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the extraction, fingerprint, render and tailoring endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	srvCfg, err := buildServerConfig(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// buildServerConfig opens the store and the optional model client and sink
func buildServerConfig(ctx context.Context, cfg config.Config) (server.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	backend, dsn := cfg.StoreDSN()
	kv, err := store.Open(ctx, backend, dsn)
	if err != nil {
		return server.Config{}, fmt.Errorf("failed to open %s store: %w", backend, err)
	}
	log.Printf("[serve] using %s store", backend)

	srvCfg := server.Config{
		Port:           cfg.Port,
		KV:             kv,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}

	if cfg.APIKey != "" {
		client, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.APIKey)
		if err != nil {
			_ = kv.Close()
			return server.Config{}, fmt.Errorf("failed to create LLM client: %w", err)
		}
		srvCfg.LLM = client
	} else {
		log.Printf("[serve] GEMINI_API_KEY not set, tailoring endpoints are disabled")
	}

	if sinkCfg := cfg.ArtifactSink(); sinkCfg.Enabled() {
		sink, err := artifacts.NewS3Sink(ctx, sinkCfg)
		if err != nil {
			_ = kv.Close()
			return server.Config{}, fmt.Errorf("failed to create artifact sink: %w", err)
		}
		srvCfg.Sink = sink
		log.Printf("[serve] archiving rendered documents to bucket %s", sinkCfg.Bucket)
	}

	return srvCfg, nil
}
