package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockgap/internal/core/apperror"
	"stockgap/internal/core/id"
	"stockgap/internal/domain/gap"
	"stockgap/internal/infrastructure/export"
	"stockgap/internal/infrastructure/http/v1/dto"
)

// GapHandler handles gap analysis endpoints.
type GapHandler struct {
	*BaseHandler
	service *gap.Service
}

// NewGapHandler creates a new gap analysis handler.
func NewGapHandler(base *BaseHandler, service *gap.Service) *GapHandler {
	return &GapHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes registers gap analysis routes.
func (h *GapHandler) RegisterRoutes(rg *gin.RouterGroup) {
	analyses := rg.Group("/gap/analyses")
	{
		analyses.POST("", h.Compute)
		analyses.GET("", h.List)
		analyses.GET("/:id", h.Get)
		analyses.GET("/:id/rows", h.Rows)
		analyses.GET("/:id/export", h.Export)
	}
}

// Compute handles POST /gap/analyses
// Runs the reconciliation pipeline and stores the ranked result rows.
func (h *GapHandler) Compute(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ComputeAnalysisRequest
	if !h.BindJSON(c, &req) {
		return
	}

	domainReq, err := req.ToAnalysisRequest()
	if err != nil {
		h.Error(c, err)
		return
	}

	analysis, rows, err := h.service.Compute(ctx, domainReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ComputeAnalysisResponse{
		Analysis: dto.FromAnalysis(analysis),
		Rows:     dto.FromGapRows(rows),
	})
}

// List handles GET /gap/analyses
func (h *GapHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	limit := h.ParseIntQuery(c, "limit", 50)
	offset := h.ParseIntQuery(c, "offset", 0)

	items, err := h.service.List(ctx, limit, offset)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.AnalysisListResponse{
		Items:  make([]dto.AnalysisResponse, 0, len(items)),
		Limit:  limit,
		Offset: offset,
	}
	for i := range items {
		resp.Items = append(resp.Items, dto.FromAnalysis(&items[i]))
	}

	h.OK(c, resp)
}

// Get handles GET /gap/analyses/:id
func (h *GapHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	analysisID, ok := h.parseAnalysisID(c)
	if !ok {
		return
	}

	analysis, err := h.service.Get(ctx, analysisID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromAnalysis(analysis))
}

// Rows handles GET /gap/analyses/:id/rows
func (h *GapHandler) Rows(c *gin.Context) {
	ctx := c.Request.Context()

	analysisID, ok := h.parseAnalysisID(c)
	if !ok {
		return
	}

	rows, err := h.service.Rows(ctx, analysisID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromGapRows(rows))
}

// Export handles GET /gap/analyses/:id/export
// Streams the stored rows as an xlsx workbook.
func (h *GapHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()

	analysisID, ok := h.parseAnalysisID(c)
	if !ok {
		return
	}

	analysis, err := h.service.Get(ctx, analysisID)
	if err != nil {
		h.Error(c, err)
		return
	}

	rows, err := h.service.Rows(ctx, analysisID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Type", export.XLSXContentType)
	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(analysis)+`"`)
	c.Status(http.StatusOK)

	if err := export.WriteXLSX(c.Writer, analysis, rows); err != nil {
		// Headers are already out; log via the error chain without rewriting the response.
		_ = c.Error(err)
	}
}

func (h *GapHandler) parseAnalysisID(c *gin.Context) (id.ID, bool) {
	analysisID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid analysis id").WithDetail("id", c.Param("id")))
		return id.Nil(), false
	}
	return analysisID, true
}
