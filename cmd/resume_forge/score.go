package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	scoreJobFile string
	scoreOutput  string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score the stored profile against a job description",
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreJobFile, "job", "j", "", "Path to a plain-text job description (required)")
	scoreCmd.Flags().StringVarP(&scoreOutput, "out", "o", "", "Output JSON file (defaults to stdout)")
	_ = scoreCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	job, err := os.ReadFile(scoreJobFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	c, err := newServiceClient()
	if err != nil {
		return err
	}

	score, err := c.ScoreFit(cmd.Context(), string(job))
	if err != nil {
		return err
	}
	if p := printer(); p != nil {
		p.PrintFitScore(score)
	}
	return writeJSON(scoreOutput, score)
}
