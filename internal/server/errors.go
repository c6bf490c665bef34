package server

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-forge/internal/client"
	"github.com/jonathan/resume-forge/internal/extraction"
	"github.com/jonathan/resume-forge/internal/ingestion"
	"github.com/jonathan/resume-forge/internal/llm"
	"github.com/jonathan/resume-forge/internal/rendering"
	"github.com/jonathan/resume-forge/internal/repair"
	"github.com/jonathan/resume-forge/internal/store"
	"github.com/jonathan/resume-forge/internal/tailoring"
)

// ErrServiceUnavailable indicates a route whose collaborator is not configured
var ErrServiceUnavailable = errors.New("service unavailable")

// RequestError is a malformed or oversized request
type RequestError struct {
	Status  int
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// badRequest builds a 400 RequestError
func badRequest(format string, args ...any) *RequestError {
	return &RequestError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status
	}

	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.Is(err, extraction.ErrInvalidFormat),
		errors.Is(err, extraction.ErrExtractionTooShort),
		errors.Is(err, extraction.ErrWrongFormatDetected),
		errors.Is(err, store.ErrValidation),
		errors.Is(err, rendering.ErrInvalidTemplate),
		errors.Is(err, tailoring.ErrEmptyProfile),
		errors.Is(err, tailoring.ErrEmptyJobDescription):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repair.ErrUnparsableResponse),
		errors.Is(err, ingestion.ErrIncompletePosting):
		return http.StatusUnprocessableEntity
	case errors.Is(err, client.ErrUploadFailed),
		errors.Is(err, ingestion.ErrFetchFailed),
		errors.Is(err, llm.ErrAPICall):
		return http.StatusBadGateway
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// validationMessage flattens validator field errors into one line
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return "invalid request: " + err.Error()
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return "invalid request: " + strings.Join(fields, ", ")
}

// newRequestValidator reports request fields by their JSON names
func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
