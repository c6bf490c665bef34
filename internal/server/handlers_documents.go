package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonathan/resume-forge/internal/client"
	"github.com/jonathan/resume-forge/internal/extraction"
	"github.com/jonathan/resume-forge/internal/fingerprint"
	"github.com/jonathan/resume-forge/internal/rendering"
	"github.com/jonathan/resume-forge/internal/repair"
	"github.com/jonathan/resume-forge/internal/types"
)

// ExtractDocxRequest is the body of POST /extract/docx
type ExtractDocxRequest struct {
	Base64   string `json:"base64" validate:"required"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
}

// ExtractResponse is the reply of the extraction endpoints
type ExtractResponse struct {
	Text     string               `json:"text"`
	Metadata *extraction.Metadata `json:"metadata,omitempty"`
}

// FingerprintRequest is the body of POST /resume/fingerprint-template
type FingerprintRequest struct {
	TemplateDocxBase64 string `json:"templateDocxBase64" validate:"required"`
}

// RenderRequest is the body of POST /resume/render-docx
type RenderRequest struct {
	ResumeJSON json.RawMessage `json:"resumeJson" validate:"required"`
	Options    struct {
		Mode string `json:"mode"`
	} `json:"options"`
	TemplateDocxBase64 string `json:"templateDocxBase64,omitempty"`
}

// decodeBase64 accepts standard base64, optionally behind a data URL prefix
func decodeBase64(field, value string) ([]byte, error) {
	if i := strings.Index(value, ";base64,"); i >= 0 && strings.HasPrefix(value, "data:") {
		value = value[i+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return nil, &RequestError{Status: http.StatusBadRequest, Message: fmt.Sprintf("%s is not valid base64", field), Cause: err}
	}
	return data, nil
}

// handleExtractDocx extracts cleaned text from a base64 DOCX upload
func (s *Server) handleExtractDocx(w http.ResponseWriter, r *http.Request) {
	var req ExtractDocxRequest
	if err := s.decodeJSON(w, r, s.jsonBodyLimit(), &req); err != nil {
		s.failure(w, "extract docx", err)
		return
	}

	data, err := decodeBase64("base64", req.Base64)
	if err != nil {
		s.failure(w, "extract docx", err)
		return
	}
	if int64(len(data)) > s.maxUploadBytes {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("document exceeds %d bytes", s.maxUploadBytes))
		return
	}

	text, _, err := s.extractor.Extract(data, extraction.FormatDOCX)
	if err != nil {
		s.failure(w, "extract docx", err)
		return
	}

	log.Printf("[extract] %s: %d characters", req.FileName, text.Length)
	s.jsonResponse(w, http.StatusOK, ExtractResponse{Text: text.Cleaned})
}

// handleExtractResumeText extracts cleaned text from a multipart PDF upload
func (s *Server) handleExtractResumeText(w http.ResponseWriter, r *http.Request) {
	// room for multipart framing around a full-size file
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds %d bytes", s.maxUploadBytes))
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "expected multipart form with a file field")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadBytes {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds %d bytes", s.maxUploadBytes))
		return
	}
	if !isPDFUpload(header.Filename, header.Header.Get("Content-Type")) {
		s.errorResponse(w, http.StatusBadRequest, "only PDF files are supported")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	text, meta, err := s.extractor.Extract(data, extraction.FormatPDF)
	if err != nil {
		s.failure(w, "extract pdf", err)
		return
	}

	log.Printf("[extract] %s: %d page(s), %d characters", header.Filename, meta.Pages, text.Length)
	s.jsonResponse(w, http.StatusOK, ExtractResponse{Text: text.Cleaned, Metadata: meta})
}

// isPDFUpload checks the declared type or extension; the signature is checked later
func isPDFUpload(filename, contentType string) bool {
	if format, err := extraction.ParseFormat(contentType); err == nil {
		return format == extraction.FormatPDF
	}
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// handleFingerprintTemplate derives the structural fingerprint of a template
func (s *Server) handleFingerprintTemplate(w http.ResponseWriter, r *http.Request) {
	var req FingerprintRequest
	if err := s.decodeJSON(w, r, s.jsonBodyLimit(), &req); err != nil {
		s.failure(w, "fingerprint template", err)
		return
	}

	data, err := decodeBase64("templateDocxBase64", req.TemplateDocxBase64)
	if err != nil {
		s.failure(w, "fingerprint template", err)
		return
	}

	text, _, err := s.extractor.Extract(data, extraction.FormatDOCX)
	if err != nil {
		s.failure(w, "fingerprint template", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, fingerprint.Fingerprint(text.Cleaned))
}

// templateFingerprint fingerprints a template archive. Templates too sparse to
// pass extraction still work as containers and get the default fingerprint.
func (s *Server) templateFingerprint(template []byte) (types.TemplateFingerprint, error) {
	if len(template) == 0 {
		return types.DefaultFingerprint(), nil
	}
	text, _, err := s.extractor.Extract(template, extraction.FormatDOCX)
	if errors.Is(err, extraction.ErrExtractionTooShort) {
		log.Printf("[render] template has little text, using default fingerprint")
		return types.DefaultFingerprint(), nil
	}
	if err != nil {
		return types.TemplateFingerprint{}, err
	}
	return fingerprint.Fingerprint(text.Cleaned), nil
}

// resumeText returns the raw text to repair: a JSON string is unwrapped, an
// object is used as is.
func resumeText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// handleRenderDocx renders a resume into a DOCX archive
func (s *Server) handleRenderDocx(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := s.decodeJSON(w, r, s.jsonBodyLimit(), &req); err != nil {
		s.failure(w, "render docx", err)
		return
	}

	mode, err := rendering.ParseMode(req.Options.Mode)
	if err != nil {
		s.failure(w, "render docx", badRequest("%v", err))
		return
	}

	var template []byte
	if req.TemplateDocxBase64 != "" {
		if template, err = decodeBase64("templateDocxBase64", req.TemplateDocxBase64); err != nil {
			s.failure(w, "render docx", err)
			return
		}
	}
	if mode == rendering.ModeTemplate && len(template) == 0 {
		s.failure(w, "render docx", badRequest("template mode requires templateDocxBase64"))
		return
	}

	doc, res := repair.ResumeDocument(resumeText(req.ResumeJSON))
	if !res.OK() {
		// an unusable resume is a bad request on this route
		s.errorResponse(w, http.StatusBadRequest, res.AsError().Error())
		return
	}

	fp, err := s.templateFingerprint(template)
	if err != nil {
		s.failure(w, "render docx", err)
		return
	}

	result, err := rendering.Render(doc, fp, rendering.Options{Mode: mode, Template: template})
	if err != nil {
		s.failure(w, "render docx", err)
		return
	}

	if key := s.archive(r.Context(), doc, result.Document); key != "" {
		w.Header().Set(client.HeaderArtifactKey, key)
	}

	w.Header().Set("Content-Type", extraction.MIMEDOCX)
	w.Header().Set("Content-Disposition", `attachment; filename="resume.docx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Document)))
	w.Header().Set(client.HeaderBudgetOverruns, strconv.Itoa(len(result.Overruns.Bullets)))
	w.Header().Set(client.HeaderBudgetTotalExceeded, strconv.FormatBool(result.Overruns.ExceedsTotal))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Document); err != nil {
		log.Printf("[render] failed to write response: %v", err)
	}
}

// archive stores a rendered document in the artifact sink, if one is set.
// Archive failures never fail the render.
func (s *Server) archive(ctx context.Context, doc *types.ResumeDocument, data []byte) string {
	if s.sink == nil {
		return ""
	}
	name := "resume.docx"
	if doc.Header.Name != "" {
		name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(doc.Header.Name)), " ", "-") + ".docx"
	}
	key, err := s.sink.Put(ctx, name, data, extraction.MIMEDOCX)
	if err != nil {
		log.Printf("[render] failed to archive document: %v", err)
		return ""
	}
	return key
}
