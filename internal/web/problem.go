package web

import (
	"encoding/json"
	"net/http"
)

// Problem types for RFC 7807 Problem Details responses.
const (
	ProblemTypeBadRequest       = "https://chatgpt-relay.dev/problems/bad-request"
	ProblemTypeUnsupportedMedia = "https://chatgpt-relay.dev/problems/unsupported-media-type"
	ProblemTypeTooLarge         = "https://chatgpt-relay.dev/problems/payload-too-large"
	ProblemTypeInternal         = "https://chatgpt-relay.dev/problems/internal-error"
)

// Problem represents an RFC 7807 Problem Details response.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// WriteProblem writes an RFC 7807 Problem Details JSON response.
func WriteProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// BadRequest writes a 400 problem response.
func BadRequest(w http.ResponseWriter, detail, instance string) {
	WriteProblem(w, Problem{
		Type:     ProblemTypeBadRequest,
		Title:    "Bad Request",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: instance,
	})
}

// InternalError writes a 500 problem response.
func InternalError(w http.ResponseWriter, detail, instance string) {
	WriteProblem(w, Problem{
		Type:     ProblemTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: instance,
	})
}

func problemTypeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ProblemTypeBadRequest
	case http.StatusUnsupportedMediaType:
		return ProblemTypeUnsupportedMedia
	case http.StatusRequestEntityTooLarge:
		return ProblemTypeTooLarge
	default:
		return ProblemTypeInternal
	}
}
