// Package admin exposes the review surface for notification requests:
// listing, filtering by notified status, bulk export, mark-notified, and
// delete.
package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	commonerrors "github.com/luisscruza/variantbox/internal/common/errors"
	"github.com/luisscruza/variantbox/internal/common/logger"
	"github.com/luisscruza/variantbox/internal/notify"
)

// ProductNamer resolves product display names for the list view.
type ProductNamer interface {
	ProductName(ctx context.Context, productID int64) string
}

// defaultPageSize applies when the handler is built with a non-positive
// page size.
const defaultPageSize = 50

type Handler struct {
	store    *notify.Store
	products ProductNamer
	pageSize int
	logger   logger.Logger
}

func NewHandler(store *notify.Store, products ProductNamer, pageSize int, log logger.Logger) *Handler {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Handler{
		store:    store,
		products: products,
		pageSize: pageSize,
		logger:   log.WithFields(map[string]interface{}{"component": "admin"}),
	}
}

// Routes mounts the admin endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/export", h.exportCSV)
	r.Post("/{id}/notified", h.markNotified)
	r.Delete("/{id}", h.delete)
	return r
}

type listItem struct {
	notify.NotificationRequest
	ProductName string `json:"productName"`
}

type listResponse struct {
	Requests []listItem    `json:"requests"`
	Counts   notify.Counts `json:"counts"`
	Filter   notify.Filter `json:"filter"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

func parseFilter(raw string) notify.Filter {
	switch notify.Filter(raw) {
	case notify.FilterPending:
		return notify.FilterPending
	case notify.FilterNotified:
		return notify.FilterNotified
	}
	return notify.FilterAll
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r.URL.Query().Get("filter"))
	page := parsePage(r.URL.Query().Get("page"))

	requests, err := h.store.List(r.Context(), filter, h.pageSize, (page-1)*h.pageSize)
	if err != nil {
		h.logger.Error("list failed", map[string]interface{}{"error": err.Error()})
		commonerrors.WriteError(w, commonerrors.NewPersistence(commonerrors.ErrCodeDatabaseQueryFailed, "Failed to load requests", err))
		return
	}

	counts, err := h.store.CountByStatus(r.Context())
	if err != nil {
		h.logger.Error("counts failed", map[string]interface{}{"error": err.Error()})
		commonerrors.WriteError(w, commonerrors.NewPersistence(commonerrors.ErrCodeDatabaseQueryFailed, "Failed to load requests", err))
		return
	}

	items := make([]listItem, 0, len(requests))
	for _, req := range requests {
		items = append(items, listItem{
			NotificationRequest: req,
			ProductName:         h.products.ProductName(r.Context(), req.ProductID),
		})
	}

	commonerrors.WriteSuccess(w, "", listResponse{
		Requests: items,
		Counts:   *counts,
		Filter:   filter,
		Page:     page,
		PageSize: h.pageSize,
	})
}

func (h *Handler) markNotified(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		commonerrors.WriteError(w, commonerrors.NewValidation(commonerrors.ErrCodeValidationFailed, "Invalid request id", ""))
		return
	}

	if err := h.store.MarkNotified(r.Context(), id); err != nil {
		if errors.Is(err, notify.ErrNotFound) {
			commonerrors.WriteError(w, commonerrors.NewValidation(commonerrors.ErrCodeRequestNotFound, "Request not found", ""))
			return
		}
		h.logger.Error("mark notified failed", map[string]interface{}{"id": id, "error": err.Error()})
		commonerrors.WriteError(w, commonerrors.NewPersistence(commonerrors.ErrCodeDatabaseQueryFailed, "Failed to update request", err))
		return
	}

	commonerrors.WriteSuccess(w, "Marked as notified", nil)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		commonerrors.WriteError(w, commonerrors.NewValidation(commonerrors.ErrCodeValidationFailed, "Invalid request id", ""))
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, notify.ErrNotFound) {
			commonerrors.WriteError(w, commonerrors.NewValidation(commonerrors.ErrCodeRequestNotFound, "Request not found", ""))
			return
		}
		h.logger.Error("delete failed", map[string]interface{}{"id": id, "error": err.Error()})
		commonerrors.WriteError(w, commonerrors.NewPersistence(commonerrors.ErrCodeDatabaseQueryFailed, "Failed to delete request", err))
		return
	}

	commonerrors.WriteSuccess(w, "Request deleted", nil)
}
