package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	fingerprintTemplate string
	fingerprintOutput   string
)

var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint",
	Short: "Derive the layout fingerprint of a DOCX template",
	RunE:  runFingerprint,
}

func init() {
	fingerprintCmd.Flags().StringVarP(&fingerprintTemplate, "template", "t", "", "Path to the reference .docx (required)")
	fingerprintCmd.Flags().StringVarP(&fingerprintOutput, "out", "o", "", "Output JSON file (defaults to stdout)")
	_ = fingerprintCmd.MarkFlagRequired("template")
	rootCmd.AddCommand(fingerprintCmd)
}

func runFingerprint(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(fingerprintTemplate)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	c, err := newServiceClient()
	if err != nil {
		return err
	}

	fp, err := c.FingerprintTemplate(cmd.Context(), data)
	if err != nil {
		return err
	}
	if p := printer(); p != nil {
		p.PrintFingerprint(fp)
	}
	return writeJSON(fingerprintOutput, fp)
}
