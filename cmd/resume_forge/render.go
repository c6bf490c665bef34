package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/resume-forge/internal/client"
	"github.com/jonathan/resume-forge/internal/observability"
	jsonschemas "github.com/jonathan/resume-forge/internal/schemas"
	"github.com/jonathan/resume-forge/schemas"
	"github.com/spf13/cobra"
)

var (
	renderResume   string
	renderTemplate string
	renderMode     string
	renderOutput   string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a resume JSON document into a DOCX file",
	Long:  "Sends a resume document (JSON, or raw model output) to the service and writes the rendered DOCX. Budget overruns are reported on stderr.",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderResume, "resume", "r", "", "Path to the resume JSON or raw model output (required)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "Path to a reference .docx template")
	renderCmd.Flags().StringVarP(&renderMode, "mode", "m", "", "Render mode: standard or template")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "resume.docx", "Output DOCX path")
	_ = renderCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(renderResume)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	// JSON documents are checked locally; raw model text is repaired by the service
	if isJSONObject(raw) {
		if err := jsonschemas.ValidateFile(schemas.ResumeDocument, renderResume); err != nil {
			return fmt.Errorf("resume %s does not match the resume schema: %w", renderResume, err)
		}
	}

	req := client.RenderRequest{Resume: resumePayload(raw), Mode: renderMode}
	if renderTemplate != "" {
		if req.Template, err = os.ReadFile(renderTemplate); err != nil {
			return fmt.Errorf("failed to read template: %w", err)
		}
	}

	c, err := newServiceClient()
	if err != nil {
		return err
	}

	res, err := c.RenderDocx(cmd.Context(), req)
	if err != nil {
		return err
	}

	if p := printer(); p != nil {
		p.PrintRenderSummary(observability.RenderSummary{
			Bytes:               len(res.Document),
			BulletOverruns:      res.BulletOverruns,
			TotalBudgetExceeded: res.TotalBudgetExceeded,
			ArtifactKey:         res.ArtifactKey,
		})
	} else if res.BulletOverruns > 0 || res.TotalBudgetExceeded {
		fmt.Fprintf(os.Stderr, "warning: %d bullet(s) over budget, total exceeded: %t\n", res.BulletOverruns, res.TotalBudgetExceeded)
	}
	return writeOutput(renderOutput, res.Document)
}

func isJSONObject(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed)
}

// resumePayload passes JSON through and wraps anything else as a JSON string
// so the service can repair raw model output.
func resumePayload(raw []byte) json.RawMessage {
	if json.Valid(raw) {
		return raw
	}
	quoted, _ := json.Marshal(string(raw))
	return quoted
}
