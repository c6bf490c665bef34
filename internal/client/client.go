package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-forge/internal/extraction"
	"github.com/jonathan/resume-forge/internal/types"
)

const (
	// DefaultMaxAttempts caps attempts per upload
	DefaultMaxAttempts = 3
	// DefaultDelay is the backoff unit; attempt n waits n × DefaultDelay
	DefaultDelay = time.Second
	// DefaultTimeout bounds a single HTTP exchange
	DefaultTimeout = 60 * time.Second

	maxResponseBytes = 20 << 20
)

// Response headers set by the render endpoint
const (
	HeaderBudgetOverruns      = "X-Budget-Overruns"
	HeaderBudgetTotalExceeded = "X-Budget-Total-Exceeded"
	HeaderArtifactKey         = "X-Artifact-Key"
)

// Client calls the resume-forge service
type Client struct {
	baseURL     string
	http        *http.Client
	maxAttempts int
	delay       time.Duration
	sleep       func(context.Context, time.Duration) error
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRetry sets the attempt cap and backoff unit
func WithRetry(maxAttempts int, delay time.Duration) Option {
	return func(c *Client) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		if delay >= 0 {
			c.delay = delay
		}
	}
}

// New returns a client for the service at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{Timeout: DefaultTimeout},
		maxAttempts: DefaultMaxAttempts,
		delay:       DefaultDelay,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// response is a fully read 2xx reply
type response struct {
	header http.Header
	body   []byte
}

// upload sends body to path, retrying transport failures, 429 and 5xx with
// linear backoff. Any other non-2xx status is returned at once as an APIError.
func (c *Client) upload(ctx context.Context, op, method, path, contentType string, body []byte) (*response, error) {
	var lastErr error
	lastStatus := 0
	attempts := 0

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		attempts = attempt
		resp, status, err := c.send(ctx, method, path, contentType, body)
		if err == nil {
			return resp, nil
		}
		if status != 0 && !retryable(status) {
			return nil, err
		}
		lastErr = err
		lastStatus = status

		if ctx.Err() != nil || attempt == c.maxAttempts {
			break
		}
		log.Printf("[client] %s attempt %d/%d failed: %v", op, attempt, c.maxAttempts, err)
		if err := c.sleep(ctx, time.Duration(attempt)*c.delay); err != nil {
			break
		}
	}

	return nil, &UploadFailedError{
		Op:         op,
		Attempts:   attempts,
		StatusCode: lastStatus,
		Cause:      lastErr,
	}
}

// send performs one exchange. status is zero when no response was received.
func (c *Client) send(ctx context.Context, method, path, contentType string, body []byte) (*response, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	return &response{header: resp.Header, body: data}, resp.StatusCode, nil
}

// errorMessage pulls the "error" field out of a JSON error body
func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}

func (c *Client) postJSON(ctx context.Context, op, path string, in, out any) (*response, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	resp, err := c.upload(ctx, op, http.MethodPost, path, "application/json", body)
	if err != nil {
		return nil, err
	}
	if out != nil {
		if err := json.Unmarshal(resp.body, out); err != nil {
			return nil, fmt.Errorf("failed to decode %s response: %w", op, err)
		}
	}
	return resp, nil
}

// Health checks that the service is up
func (c *Client) Health(ctx context.Context) error {
	resp, _, err := c.send(ctx, http.MethodGet, "/health", "", nil)
	if err != nil {
		return err
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil || payload.Status != "ok" {
		return fmt.Errorf("unexpected health response: %s", strings.TrimSpace(string(resp.body)))
	}
	return nil
}

// ExtractDocx uploads a DOCX resume and returns its cleaned text
func (c *Client) ExtractDocx(ctx context.Context, data []byte, fileName string) (string, error) {
	in := map[string]string{
		"base64":   base64.StdEncoding.EncodeToString(data),
		"fileName": fileName,
		"mimeType": extraction.MIMEDOCX,
	}
	var out struct {
		Text string `json:"text"`
	}
	if _, err := c.postJSON(ctx, "extract docx", "/extract/docx", in, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

// ExtractResult is the reply of the PDF extraction endpoint
type ExtractResult struct {
	Text     string              `json:"text"`
	Metadata extraction.Metadata `json:"metadata"`
}

// ExtractResumeText uploads a PDF resume as multipart form data
func (c *Client) ExtractResumeText(ctx context.Context, data []byte, fileName string) (*ExtractResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	h.Set("Content-Type", extraction.MIMEPDF)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close form: %w", err)
	}

	resp, err := c.upload(ctx, "extract pdf", http.MethodPost, "/extract-resume-text", mw.FormDataContentType(), buf.Bytes())
	if err != nil {
		return nil, err
	}
	var out ExtractResult
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode extract pdf response: %w", err)
	}
	return &out, nil
}

// FingerprintTemplate uploads a reference DOCX and returns its fingerprint
func (c *Client) FingerprintTemplate(ctx context.Context, template []byte) (*types.TemplateFingerprint, error) {
	in := map[string]string{"templateDocxBase64": base64.StdEncoding.EncodeToString(template)}
	var out types.TemplateFingerprint
	if _, err := c.postJSON(ctx, "fingerprint template", "/resume/fingerprint-template", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RenderRequest describes a render call. Resume is either a JSON object or a
// JSON string holding raw model output.
type RenderRequest struct {
	Resume   json.RawMessage
	Mode     string
	Template []byte
}

// RenderResult is a rendered archive plus the budget report headers
type RenderResult struct {
	Document            []byte
	BulletOverruns      int
	TotalBudgetExceeded bool
	ArtifactKey         string
}

// RenderDocx renders a resume into a DOCX archive
func (c *Client) RenderDocx(ctx context.Context, r RenderRequest) (*RenderResult, error) {
	in := struct {
		ResumeJSON json.RawMessage `json:"resumeJson"`
		Options    struct {
			Mode string `json:"mode,omitempty"`
		} `json:"options"`
		TemplateDocxBase64 string `json:"templateDocxBase64,omitempty"`
	}{ResumeJSON: r.Resume}
	in.Options.Mode = r.Mode
	if len(r.Template) > 0 {
		in.TemplateDocxBase64 = base64.StdEncoding.EncodeToString(r.Template)
	}

	resp, err := c.postJSON(ctx, "render docx", "/resume/render-docx", in, nil)
	if err != nil {
		return nil, err
	}

	overruns, _ := strconv.Atoi(resp.header.Get(HeaderBudgetOverruns))
	exceeded, _ := strconv.ParseBool(resp.header.Get(HeaderBudgetTotalExceeded))
	return &RenderResult{
		Document:            resp.body,
		BulletOverruns:      overruns,
		TotalBudgetExceeded: exceeded,
		ArtifactKey:         resp.header.Get(HeaderArtifactKey),
	}, nil
}

// ScoreFit asks the service to score the stored profile against a job description
func (c *Client) ScoreFit(ctx context.Context, jobDescription string) (*types.FitScore, error) {
	in := map[string]string{"jobDescription": jobDescription}
	var out types.FitScore
	if _, err := c.postJSON(ctx, "fit score", "/fit-score", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
