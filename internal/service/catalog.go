package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sweetshop/sweetshop/internal/model"
	"github.com/sweetshop/sweetshop/internal/store"
)

const (
	// DefaultPageSize is used when a caller does not ask for a page size.
	DefaultPageSize = 100
	// MaxPageSize caps every listing.
	MaxPageSize = 100
)

// StockRecorder receives the outcome of stock operations.
type StockRecorder interface {
	RecordPurchase(qty int)
	RecordRestock(qty int)
	RecordInsufficientStock()
}

type nopRecorder struct{}

func (nopRecorder) RecordPurchase(int)       {}
func (nopRecorder) RecordRestock(int)        {}
func (nopRecorder) RecordInsufficientStock() {}

// CatalogService is the inventory catalog. It performs no access checks;
// callers must pass the gate before invoking mutating operations.
type CatalogService struct {
	store    *store.Store
	recorder StockRecorder
	logger   *slog.Logger
}

// NewCatalogService wires a CatalogService to its store. recorder may be nil.
func NewCatalogService(st *store.Store, recorder StockRecorder, logger *slog.Logger) *CatalogService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{store: st, recorder: recorder, logger: logger}
}

// Create validates in and adds it to the catalog.
func (s *CatalogService) Create(ctx context.Context, in model.SweetInput) (*model.Sweet, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	sweet, err := s.store.CreateSweet(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("sweet created", "id", sweet.ID, "name", sweet.Name)
	return sweet, nil
}

// Get returns a catalog entry by ID.
func (s *CatalogService) Get(ctx context.Context, id int64) (*model.Sweet, error) {
	return s.store.GetSweet(ctx, id)
}

// List returns a page of the catalog ordered by ID.
func (s *CatalogService) List(ctx context.Context, offset, limit int) ([]model.Sweet, error) {
	offset, limit = page(offset, limit)
	if limit == 0 {
		return []model.Sweet{}, nil
	}
	return s.store.ListSweets(ctx, offset, limit)
}

// Search returns a page of entries matching every set field of f.
func (s *CatalogService) Search(ctx context.Context, f model.SweetFilter, offset, limit int) ([]model.Sweet, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	offset, limit = page(offset, limit)
	if limit == 0 {
		return []model.Sweet{}, nil
	}
	return s.store.SearchSweets(ctx, f, offset, limit)
}

// Update applies the set fields of u. The merged entry must still be valid.
// An update with no fields returns the entry unchanged.
func (s *CatalogService) Update(ctx context.Context, id int64, u model.SweetUpdate) (*model.Sweet, error) {
	current, err := s.store.GetSweet(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Empty() {
		return current, nil
	}
	merged := u.Merge(current.Input())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return s.store.UpdateSweet(ctx, id, u)
}

// Remove deletes an entry and returns its last state.
func (s *CatalogService) Remove(ctx context.Context, id int64) (*model.Sweet, error) {
	sweet, err := s.store.DeleteSweet(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("sweet deleted", "id", sweet.ID, "name", sweet.Name)
	return sweet, nil
}

// Purchase takes qty units out of stock. The check and the decrement happen
// atomically, so concurrent purchases can never oversell.
func (s *CatalogService) Purchase(ctx context.Context, id int64, qty int) (*model.Sweet, error) {
	if qty <= 0 {
		return nil, model.NewValidationError("quantity", "must be greater than 0")
	}
	sweet, err := s.store.AdjustQuantity(ctx, id, -qty)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientStock) {
			s.recorder.RecordInsufficientStock()
		}
		return nil, err
	}
	s.recorder.RecordPurchase(qty)
	return sweet, nil
}

// Restock adds qty units to stock. The resulting stock may not exceed
// model.MaxQuantity.
func (s *CatalogService) Restock(ctx context.Context, id int64, qty int) (*model.Sweet, error) {
	switch {
	case qty <= 0:
		return nil, model.NewValidationError("quantity", "must be greater than 0")
	case qty > model.MaxQuantity:
		return nil, model.NewValidationError("quantity", "must be less than or equal to %d", model.MaxQuantity)
	}
	sweet, err := s.store.AdjustQuantity(ctx, id, qty)
	if err != nil {
		if errors.Is(err, store.ErrStockOverflow) {
			return nil, model.NewValidationError("quantity",
				"stock would exceed the maximum of %d", model.MaxQuantity)
		}
		return nil, err
	}
	s.recorder.RecordRestock(qty)
	s.logger.Info("sweet restocked", "id", sweet.ID, "added", qty, "quantity", sweet.Quantity)
	return sweet, nil
}

// page clamps paging arguments. A limit of zero or less yields an empty page.
func page(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	switch {
	case limit < 0:
		limit = 0
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	return offset, limit
}
