package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/chatgpt-relay/internal/domain"
	"github.com/kitbuilder587/chatgpt-relay/internal/requestid"
	"github.com/kitbuilder587/chatgpt-relay/internal/service"
)

type Handler struct {
	completions service.CompletionService
	usage       service.UsageService
	views       *views
	logger      *zap.Logger
}

// NewHandler builds the /chatgpt handler. usage may be nil, in which case the
// usage summary route is not mounted.
func NewHandler(completions service.CompletionService, usage service.UsageService, logger *zap.Logger) *Handler {
	return &Handler{
		completions: completions,
		usage:       usage,
		views:       mustLoadViews(),
		logger:      logger,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /chatgpt", h.handleShow)
	mux.HandleFunc("POST /chatgpt", h.handleSubmit)
	if h.usage != nil {
		mux.HandleFunc("GET /usage", h.handleUsage)
	}
}

// ShowForm returns the view for the initial, unsubmitted page.
func (h *Handler) ShowForm() domain.ViewModel {
	return domain.EmptyView()
}

// Submit runs one completion and maps the outcome onto a view. Failures never
// escape as errors: their message lands in ViewModel.Error.
func (h *Handler) Submit(ctx context.Context, req domain.CompletionRequest) domain.ViewModel {
	view, _ := h.submit(ctx, req)
	return view
}

func (h *Handler) submit(ctx context.Context, req domain.CompletionRequest) (domain.ViewModel, int) {
	text, err := h.completions.Complete(ctx, req)
	if err == nil {
		return domain.SuccessView(req.Prompt, text), http.StatusOK
	}

	status := http.StatusInternalServerError
	fields := []zap.Field{
		zap.String("request_id", requestid.From(ctx)),
		zap.String("message", err.Error()),
	}

	var ce *domain.CompletionError
	if errors.As(err, &ce) {
		status = ce.HTTPStatus()
		fields = append(fields,
			zap.String("category", ce.Category.String()),
			zap.Int("upstream_status", ce.Status),
		)
	} else if errors.Is(err, domain.ErrEmptyPrompt) {
		status = http.StatusBadRequest
	}
	fields = append(fields, zap.Int("status", status))

	h.logger.Error("completion failed", fields...)

	return domain.ErrorView(req.Prompt, err.Error()), status
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/chatgpt", http.StatusFound)
}

func (h *Handler) handleShow(w http.ResponseWriter, r *http.Request) {
	view := h.ShowForm()
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, view)
		return
	}
	h.render(w, http.StatusOK, view)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	asJSON := wantsJSON(r)

	req, err := decodeRequest(w, r)
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		h.rejectRequest(w, r, req, err, asJSON)
		return
	}

	view, status := h.submit(r.Context(), req)
	if asJSON {
		writeJSON(w, status, view)
		return
	}
	// The page is always 200; failures are shown inside the form.
	h.render(w, http.StatusOK, view)
}

func (h *Handler) rejectRequest(w http.ResponseWriter, r *http.Request, req domain.CompletionRequest, err error, asJSON bool) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, ErrUnsupportedMediaType):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, ErrBodyTooLarge):
		status = http.StatusRequestEntityTooLarge
	}

	h.logger.Info("rejected completion request",
		zap.String("request_id", requestid.From(r.Context())),
		zap.Error(err),
	)

	if asJSON {
		WriteProblem(w, Problem{
			Type:     problemTypeFor(status),
			Title:    http.StatusText(status),
			Status:   status,
			Detail:   err.Error(),
			Instance: r.URL.Path,
		})
		return
	}
	h.render(w, status, domain.ErrorView(req.Prompt, err.Error()))
}

func (h *Handler) handleUsage(w http.ResponseWriter, r *http.Request) {
	window := 24 * time.Hour
	if raw := r.URL.Query().Get("window"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			BadRequest(w, "window must be a positive duration like 1h or 30m", r.URL.Path)
			return
		}
		window = d
	}

	summary, err := h.usage.Summary(r.Context(), window)
	if err != nil {
		InternalError(w, "could not load usage summary", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
