package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/resume-forge/internal/client"
	"github.com/jonathan/resume-forge/internal/config"
	"github.com/jonathan/resume-forge/internal/observability"
)

var (
	serviceURL   string
	retryDelayMS int
	verbose      bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serviceURL, "url", "", "Service base URL (overrides RESUME_FORGE_URL)")
	rootCmd.PersistentFlags().IntVar(&retryDelayMS, "retry-delay-ms", int(client.DefaultDelay/time.Millisecond), "Backoff unit between upload attempts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print a summary box to stderr")
}

// newServiceClient builds a client from the resolved config and flags
func newServiceClient() (*client.Client, error) {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return nil, err
	}
	verbose = verbose || cfg.Verbose
	base := cfg.ServiceURL
	if serviceURL != "" {
		base = serviceURL
	}
	if base == "" {
		return nil, fmt.Errorf("service URL is required (--url or RESUME_FORGE_URL)")
	}
	delay := time.Duration(retryDelayMS) * time.Millisecond
	return client.New(base, client.WithRetry(cfg.UploadAttempts, delay)), nil
}

// writeJSON prints v as indented JSON to path, or stdout when path is empty
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	return writeOutput(path, append(data, '\n'))
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// printer returns the verbose printer, or nil when verbose output is off
func printer() *observability.Printer {
	if !verbose {
		return nil
	}
	return observability.NewPrinter(os.Stderr)
}
