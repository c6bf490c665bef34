package ingestion

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/resume-forge/internal/fetch"
	"github.com/jonathan/resume-forge/internal/llm"
	"github.com/jonathan/resume-forge/internal/repair"
	"github.com/jonathan/resume-forge/internal/types"
)

// Options configures URL ingestion
type Options struct {
	Fetch *fetch.Options
	// Client fills fields the page markup does not carry. Nil disables it.
	Client llm.Client
}

// FromURL fetches a posting page and builds a JobPosting from it. Title and
// company come from page markup first, then the extraction model, then the
// board URL. The returned posting has no ID or timestamp yet.
func FromURL(ctx context.Context, urlStr string, opts Options) (*types.JobPosting, *Metadata, error) {
	platform := fetch.DetectPlatform(urlStr)

	result, err := fetch.URL(ctx, urlStr, opts.Fetch)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	page, err := fetch.ParsePage(result.HTML, platform)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	description := CleanText(page.Text)
	meta := NewMetadata(description, urlStr)
	meta.Platform = string(platform)

	posting := &types.JobPosting{
		Title:       page.Title,
		Company:     page.SiteName,
		Description: description,
		URL:         urlStr,
	}
	if posting.Title != "" {
		meta.TitleSource = SourcePage
	}
	if posting.Company != "" {
		meta.CompanySource = SourcePage
	}

	if opts.Client != nil && (posting.Title == "" || posting.Company == "") && description != "" {
		if extracted, err := extractWithModel(ctx, opts.Client, description); err != nil {
			log.Printf("[ingest] model extraction failed for %s: %v", urlStr, err)
		} else {
			if posting.Title == "" && extracted.Title != "" {
				posting.Title = extracted.Title
				meta.TitleSource = SourceModel
			}
			if posting.Company == "" && extracted.Company != "" {
				posting.Company = extracted.Company
				meta.CompanySource = SourceModel
			}
		}
	}

	if posting.Company == "" {
		if company := fetch.CompanyFromURL(urlStr, platform); company != "" {
			posting.Company = company
			meta.CompanySource = SourceURL
		}
	}

	if posting.Description == "" {
		return nil, nil, &IncompleteError{Field: "description"}
	}
	if posting.Title == "" {
		return nil, nil, &IncompleteError{Field: "title"}
	}

	log.Printf("[ingest] %s: %q at %q (%s, %d chars)", platform, posting.Title, posting.Company, urlStr, len(description))
	return posting, meta, nil
}

func extractWithModel(ctx context.Context, client llm.Client, text string) (*types.JobPosting, error) {
	prompt := llm.BuildExtractionPrompt(llm.JobPostingSchema(), text)
	raw, err := client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, err
	}

	posting, res := repair.JobPosting(raw)
	if !res.OK() {
		return nil, res.AsError()
	}
	return posting, nil
}
