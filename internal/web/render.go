package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/kitbuilder587/chatgpt-relay/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

type views struct {
	chat *template.Template
}

func mustLoadViews() *views {
	return &views{
		chat: template.Must(template.ParseFS(templateFS, "templates/chatgpt.html")),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// render executes into a buffer first so a template error can still produce
// a clean 500.
func (h *Handler) render(w http.ResponseWriter, status int, view domain.ViewModel) {
	var buf bytes.Buffer
	if err := h.views.chat.Execute(&buf, view); err != nil {
		h.logger.Error("failed to render page", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
