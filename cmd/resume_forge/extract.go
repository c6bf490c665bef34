package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	extractInput  string
	extractOutput string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract resume text from a PDF or DOCX file",
	Long:  "Uploads a PDF or DOCX file to the service and prints the cleaned text. Uploads are retried with linear backoff.",
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractInput, "in", "i", "", "Path to a .pdf or .docx file (required)")
	extractCmd.Flags().StringVarP(&extractOutput, "out", "o", "", "Output file (defaults to stdout)")
	_ = extractCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(extractInput)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	c, err := newServiceClient()
	if err != nil {
		return err
	}

	name := filepath.Base(extractInput)
	var text string
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		res, err := c.ExtractResumeText(cmd.Context(), data, name)
		if err != nil {
			return err
		}
		text = res.Text
		if p := printer(); p != nil {
			p.PrintExtraction(name, text, &res.Metadata)
		}
	case ".docx":
		if text, err = c.ExtractDocx(cmd.Context(), data, name); err != nil {
			return err
		}
		if p := printer(); p != nil {
			p.PrintExtraction(name, text, nil)
		}
	default:
		return fmt.Errorf("unsupported file type %q (want .pdf or .docx)", filepath.Ext(name))
	}

	return writeOutput(extractOutput, []byte(text+"\n"))
}
