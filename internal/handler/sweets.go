package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sweetshop/sweetshop/internal/model"
	"github.com/sweetshop/sweetshop/internal/service"
)

// SweetHandler serves the catalog and inventory endpoints. Access checks are
// applied by the router before these handlers run.
type SweetHandler struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

// NewSweetHandler creates a new SweetHandler.
func NewSweetHandler(catalog *service.CatalogService, logger *slog.Logger) *SweetHandler {
	return &SweetHandler{catalog: catalog, logger: logger}
}

// Create adds a sweet to the catalog.
// POST /api/v1/sweets/
func (h *SweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.SweetInput
	if err := readJSON(r, &in); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	sweet, err := h.catalog.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, sweet)
}

// List returns a page of the catalog.
// GET /api/v1/sweets/?skip=&limit=
func (h *SweetHandler) List(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := page(r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	sweets, err := h.catalog.List(r.Context(), offset, limit)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sweets)
}

// Search filters the catalog by name, category and price range.
// GET /api/v1/sweets/search?name=&category=&min_price=&max_price=&skip=&limit=
func (h *SweetHandler) Search(w http.ResponseWriter, r *http.Request) {
	filter := model.SweetFilter{
		Name:     queryString(r, "name"),
		Category: queryString(r, "category"),
	}
	var err error
	if filter.MinPrice, err = queryFloat(r, "min_price"); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if filter.MaxPrice, err = queryFloat(r, "max_price"); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	offset, limit, err := page(r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	sweets, err := h.catalog.Search(r.Context(), filter, offset, limit)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sweets)
}

// Get returns one sweet.
// GET /api/v1/sweets/{id}
func (h *SweetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	sweet, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sweet)
}

// Update applies a partial update to a sweet.
// PUT /api/v1/sweets/{id}
func (h *SweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	var u model.SweetUpdate
	if err := readJSON(r, &u); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	sweet, err := h.catalog.Update(r.Context(), id, u)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sweet)
}

// Delete removes a sweet and returns its last state.
// DELETE /api/v1/sweets/{id}
func (h *SweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	sweet, err := h.catalog.Remove(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sweet)
}

// Purchase takes units out of stock.
// POST /api/v1/sweets/{id}/purchase
func (h *SweetHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	h.moveStock(w, r, "purchased", h.catalog.Purchase)
}

// Restock adds units to stock.
// POST /api/v1/sweets/{id}/restock
func (h *SweetHandler) Restock(w http.ResponseWriter, r *http.Request) {
	h.moveStock(w, r, "restocked", h.catalog.Restock)
}

func (h *SweetHandler) moveStock(w http.ResponseWriter, r *http.Request, verb string,
	move func(context.Context, int64, int) (*model.Sweet, error)) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	var change model.StockChange
	if err := readJSON(r, &change); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if err := change.Validate(); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	sweet, err := move(r.Context(), id, change.Quantity)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, model.InventoryResponse{
		Message:     fmt.Sprintf("Successfully %s %d units", verb, change.Quantity),
		SweetID:     sweet.ID,
		NewQuantity: sweet.Quantity,
	})
}
