package dto

import (
	"stockgap/internal/domain/catalogs/salespoint"
	"stockgap/internal/domain/catalogs/warehouse"
)

// WarehouseResponse represents a warehouse in API responses.
type WarehouseResponse struct {
	ID             string  `json:"id"`
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	RootLocationID *string `json:"rootLocationId,omitempty"`
	Address        *string `json:"address,omitempty"`
	IsActive       bool    `json:"isActive"`
}

// FromWarehouse creates WarehouseResponse from a domain warehouse.
func FromWarehouse(w *warehouse.Warehouse) WarehouseResponse {
	resp := WarehouseResponse{
		ID:       w.ID.String(),
		Code:     w.Code,
		Name:     w.Name,
		Type:     string(w.Type),
		Address:  w.Address,
		IsActive: w.IsActive,
	}
	if w.RootLocationID != nil {
		s := w.RootLocationID.String()
		resp.RootLocationID = &s
	}
	return resp
}

// FromWarehouses converts a warehouse slice.
func FromWarehouses(items []warehouse.Warehouse) []WarehouseResponse {
	out := make([]WarehouseResponse, 0, len(items))
	for i := range items {
		out = append(out, FromWarehouse(&items[i]))
	}
	return out
}

// SalesPointResponse represents a sales point in API responses.
type SalesPointResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WarehouseID string `json:"warehouseId"`
	Active      bool   `json:"active"`
}

// FromSalesPoint creates SalesPointResponse from a domain sales point.
func FromSalesPoint(sp *salespoint.SalesPoint) SalesPointResponse {
	return SalesPointResponse{
		ID:          sp.ID.String(),
		Name:        sp.Name,
		WarehouseID: sp.WarehouseID.String(),
		Active:      sp.Active,
	}
}

// FromSalesPoints converts a sales point slice.
func FromSalesPoints(items []salespoint.SalesPoint) []SalesPointResponse {
	out := make([]SalesPointResponse, 0, len(items))
	for i := range items {
		out = append(out, FromSalesPoint(&items[i]))
	}
	return out
}
