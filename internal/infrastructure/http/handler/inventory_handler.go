package handler

import (
	"log/slog"
	"net/http"

	"github.com/mrops-br/product-inventory/internal/app/dto"
	"github.com/mrops-br/product-inventory/internal/app/service"
	"github.com/mrops-br/product-inventory/internal/domain"
	"github.com/mrops-br/product-inventory/internal/infrastructure/http/middleware"
	"github.com/mrops-br/product-inventory/internal/infrastructure/http/response"
	"github.com/mrops-br/product-inventory/internal/infrastructure/http/view"
)

// InventoryHandler serves the inventory page
type InventoryHandler struct {
	service      *service.InventoryService
	renderer     *view.Renderer
	maxFormBytes int64
	logger       *slog.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(
	service *service.InventoryService,
	renderer *view.Renderer,
	maxFormBytes int64,
	logger *slog.Logger,
) *InventoryHandler {
	return &InventoryHandler{
		service:      service,
		renderer:     renderer,
		maxFormBytes: maxFormBytes,
		logger:       logger,
	}
}

// ShowInventory handles GET /
func (h *InventoryHandler) ShowInventory(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Show(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to prepare inventory page",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	h.render(w, r, page)
}

// AddProduct handles POST /. Validation failures are rendered inline with
// status 200, the same as a successful submission.
func (h *InventoryHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFormBytes)
	if err := r.ParseForm(); err != nil {
		// Unreadable payloads degrade to empty fields.
		h.logger.WarnContext(r.Context(), "Failed to parse form",
			slog.String("error", err.Error()),
		)
	}

	draft := domain.NewSubmissionDraft(
		r.PostForm.Get(domain.FieldName),
		r.PostForm.Get(domain.FieldDescription),
		r.PostForm.Get(domain.FieldPrice),
		r.PostForm.Get(domain.FieldCategory),
	)

	page, err := h.service.Submit(r.Context(), middleware.SessionID(r.Context()), draft)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to submit product",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	h.render(w, r, page)
}

func (h *InventoryHandler) render(w http.ResponseWriter, r *http.Request, page *dto.PageData) {
	body, err := h.renderer.RenderToBuffer(page)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render inventory page",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	response.HTML(w, http.StatusOK, body)
}
