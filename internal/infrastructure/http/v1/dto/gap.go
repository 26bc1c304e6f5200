package dto

import (
	"time"

	"stockgap/internal/core/apperror"
	"stockgap/internal/core/id"
	"stockgap/internal/core/types"
	"stockgap/internal/domain/gap"
)

// --- Request DTOs ---

// ComputeAnalysisRequest starts (or re-runs) a gap analysis.
type ComputeAnalysisRequest struct {
	// ID re-runs an existing analysis in place when set.
	ID          string `json:"id,omitempty" binding:"omitempty,uuid"`
	WarehouseID string `json:"warehouseId" binding:"required,uuid"`
	DateFrom    string `json:"dateFrom" binding:"required"`
	DateTo      string `json:"dateTo" binding:"required"`
}

// ToAnalysisRequest converts to the domain request. Dates use the
// YYYY-MM-DD wire format.
func (r *ComputeAnalysisRequest) ToAnalysisRequest() (gap.AnalysisRequest, error) {
	var req gap.AnalysisRequest

	if r.ID != "" {
		parsed, err := id.Parse(r.ID)
		if err != nil {
			return req, apperror.NewValidation("invalid analysis id").WithDetail("id", r.ID)
		}
		req.ID = parsed
	}

	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return req, apperror.NewValidation("invalid warehouse id").WithDetail("warehouseId", r.WarehouseID)
	}
	req.WarehouseID = warehouseID

	req.DateFrom, err = time.Parse(time.DateOnly, r.DateFrom)
	if err != nil {
		return req, apperror.NewValidation("invalid dateFrom, expected YYYY-MM-DD").WithDetail("dateFrom", r.DateFrom)
	}

	req.DateTo, err = time.Parse(time.DateOnly, r.DateTo)
	if err != nil {
		return req, apperror.NewValidation("invalid dateTo, expected YYYY-MM-DD").WithDetail("dateTo", r.DateTo)
	}

	return req, nil
}

// --- Response DTOs ---

// AnalysisResponse is a stored run header.
type AnalysisResponse struct {
	ID          string    `json:"id"`
	WarehouseID string    `json:"warehouseId"`
	DateFrom    string    `json:"dateFrom"`
	DateTo      string    `json:"dateTo"`
	RowCount    int       `json:"rowCount"`
	ComputedAt  time.Time `json:"computedAt"`
	ComputedBy  string    `json:"computedBy,omitempty"`
}

// FromAnalysis creates AnalysisResponse from a domain header.
func FromAnalysis(a *gap.Analysis) AnalysisResponse {
	return AnalysisResponse{
		ID:          a.ID.String(),
		WarehouseID: a.WarehouseID.String(),
		DateFrom:    a.DateFrom.Format(time.DateOnly),
		DateTo:      a.DateTo.Format(time.DateOnly),
		RowCount:    a.RowCount,
		ComputedAt:  a.ComputedAt,
		ComputedBy:  a.ComputedBy,
	}
}

// GapRowResponse is one product's reconciliation result.
type GapRowResponse struct {
	ProductID      string         `json:"productId"`
	ProductSKU     string         `json:"productSku"`
	ProductName    string         `json:"productName"`
	CategoryID     string         `json:"categoryId"`
	QtyStart       types.Quantity `json:"qtyStart"`
	QtySold        types.Quantity `json:"qtySold"`
	QtyReceived    types.Quantity `json:"qtyReceived"`
	QtyTheoretical types.Quantity `json:"qtyTheoretical"`
	QtyActual      types.Quantity `json:"qtyActual"`
	QtyGap         types.Quantity `json:"qtyGap"`
}

// FromGapRow creates GapRowResponse from a domain row.
func FromGapRow(r gap.GapRow) GapRowResponse {
	return GapRowResponse{
		ProductID:      r.ProductID.String(),
		ProductSKU:     r.ProductSKU,
		ProductName:    r.ProductName,
		CategoryID:     r.CategoryID.String(),
		QtyStart:       r.QtyStart,
		QtySold:        r.QtySold,
		QtyReceived:    r.QtyReceived,
		QtyTheoretical: r.QtyTheoretical,
		QtyActual:      r.QtyActual,
		QtyGap:         r.QtyGap,
	}
}

// FromGapRows converts a row slice preserving order.
func FromGapRows(rows []gap.GapRow) []GapRowResponse {
	out := make([]GapRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromGapRow(r))
	}
	return out
}

// ComputeAnalysisResponse is the result of a compute call.
type ComputeAnalysisResponse struct {
	Analysis AnalysisResponse `json:"analysis"`
	Rows     []GapRowResponse `json:"rows"`
}

// AnalysisListResponse wraps the run history listing.
type AnalysisListResponse struct {
	Items  []AnalysisResponse `json:"items"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}
