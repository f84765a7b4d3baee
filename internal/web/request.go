package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/kitbuilder587/chatgpt-relay/internal/domain"
)

const maxBodyBytes = 1 << 20

var (
	ErrMalformedBody        = errors.New("request body is not valid JSON")
	ErrUnsupportedMediaType = errors.New("content type must be application/json or a form encoding")
	ErrBodyTooLarge         = errors.New("request body too large")
)

// decodeRequest reads the prompt from a JSON or form-encoded body. It does not
// validate the prompt beyond its type.
func decodeRequest(w http.ResponseWriter, r *http.Request) (domain.CompletionRequest, error) {
	var req domain.CompletionRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType := mediaTypeOf(r.Header.Get("Content-Type"))
	switch {
	case isJSONMediaType(mediaType):
		var body struct {
			Prompt any `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return req, bodyError(err, ErrMalformedBody)
		}
		switch p := body.Prompt.(type) {
		case nil:
			return req, domain.ErrEmptyPrompt
		case string:
			req.Prompt = p
		default:
			return req, domain.ErrPromptNotString
		}

	case mediaType == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return req, bodyError(err, nil)
		}
		req.Prompt = r.PostForm.Get("prompt")

	case mediaType == "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return req, bodyError(err, nil)
		}
		req.Prompt = r.PostForm.Get("prompt")

	default:
		return req, ErrUnsupportedMediaType
	}

	return req, nil
}

// bodyError maps a read or parse failure onto ErrBodyTooLarge when the body
// hit the size limit, and onto kind otherwise.
func bodyError(err, kind error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
	}
	if kind == nil {
		return fmt.Errorf("parse form: %w", err)
	}
	return fmt.Errorf("%w: %v", kind, err)
}

// wantsJSON reports whether the caller should get JSON rather than the page:
// JSON request bodies and Accept headers preferring JSON over HTML.
func wantsJSON(r *http.Request) bool {
	if isJSONMediaType(mediaTypeOf(r.Header.Get("Content-Type"))) {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func mediaTypeOf(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(mediaType)
}

func isJSONMediaType(mediaType string) bool {
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
