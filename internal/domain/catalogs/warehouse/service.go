package warehouse

import (
	"context"
	"fmt"

	"stockgap/internal/core/apperror"
	"stockgap/internal/core/id"
)

// Service provides read operations on the Warehouse catalog.
type Service struct {
	repo Repository
}

// NewService creates a new Warehouse service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get retrieves a warehouse by id.
func (s *Service) Get(ctx context.Context, whID id.ID) (*Warehouse, error) {
	wh, err := s.repo.GetByID(ctx, whID)
	if err != nil {
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return wh, nil
}

// GetRootLocation returns the warehouse's root stock location id.
// A warehouse without one cannot be analyzed.
func (s *Service) GetRootLocation(ctx context.Context, whID id.ID) (id.ID, error) {
	wh, err := s.repo.GetByID(ctx, whID)
	if err != nil {
		return id.Nil(), fmt.Errorf("get warehouse: %w", err)
	}
	if !wh.HasRootLocation() {
		return id.Nil(), apperror.NewInvalidWarehouse(whID.String())
	}
	return *wh.RootLocationID, nil
}

// ListActive returns all active warehouses.
func (s *Service) ListActive(ctx context.Context) ([]Warehouse, error) {
	return s.repo.ListActive(ctx)
}
