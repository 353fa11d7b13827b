package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/api/dto"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/application/service"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/domain/allocator"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/domain/usage"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/infrastructure/storage"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleItems(c *gin.Context) {
	names, err := s.svc.ItemNames(c.Request.Context())
	if err != nil {
		s.internalError(c, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, dto.ItemsResponse{Items: names})
}

func (s *Server) handleUsage(c *gin.Context) {
	identifier := c.Query("identifier")
	if identifier == "" {
		c.JSON(http.StatusBadRequest, dto.APIError{
			Code: "invalid_input", Message: "identifier query parameter is required",
		})
		return
	}

	// The configured significance threshold applies unless the caller set
	// one, including an explicit 0 to disable it.
	minShare := s.config.MinSharePercent
	if v := c.Query("min_share_percent"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.APIError{
				Code: "invalid_input", Message: "min_share_percent must be numeric",
			})
			return
		}
		minShare = parsed
	}

	props, err := s.svc.Usage(c.Request.Context(), identifier,
		c.Query("department"), minShare, c.Query("contains") == "true")
	if err != nil {
		s.writeDomainError(c, err)
		return
	}

	resp := dto.UsageResponse{Identifier: identifier}
	for _, p := range props {
		resp.Proportions = append(resp.Proportions, dto.ProportionRow{
			Department:   p.Department,
			RawQuantity:  p.RawQuantity.String(),
			SharePercent: p.SharePercent,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleAllocate(c *gin.Context) {
	var req dto.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.APIError{
			Code: "invalid_input", Message: err.Error(),
		})
		return
	}

	qty, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.APIError{
			Code: "invalid_input", Message: "quantity must be numeric",
		})
		return
	}

	minShare := s.config.MinSharePercent
	if req.MinSharePercent != nil {
		minShare = *req.MinSharePercent
	}
	precision := s.config.Precision
	if req.Precision != nil {
		precision = *req.Precision
	}

	result, err := s.svc.Allocate(c.Request.Context(), service.AllocateRequest{
		Identifier:      req.Identifier,
		Department:      req.Department,
		Quantity:        qty,
		MinSharePercent: minShare,
		MinFloorPercent: req.MinFloorPercent,
		Precision:       precision,
		MatchContains:   req.Contains,
	})
	if err != nil {
		s.writeDomainError(c, err)
		return
	}

	resp := dto.AllocateResponse{
		RunID:           result.RunID,
		Identifier:      req.Identifier,
		Quantity:        qty.String(),
		TotalAllocated:  result.Summary.TotalAllocated.String(),
		DepartmentCount: result.Summary.DepartmentCount,
		MaxSharePercent: result.Summary.MaxSharePercent,
		TopDepartment:   result.Summary.TopDepartment,
	}
	for _, e := range result.Entries {
		resp.Entries = append(resp.Entries, dto.AllocationRow{
			Department:   e.Department,
			SharePercent: e.SharePercent,
			Allocated:    e.Allocated.String(),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// handleRefresh drops the cached ledger snapshot so freshly imported records
// show up without waiting out the TTL.
func (s *Server) handleRefresh(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"refreshed": s.svc.RefreshLedger()})
}

func (s *Server) handleListRuns(c *gin.Context) {
	if s.store == nil {
		s.noStore(c)
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	runs, err := s.store.ListRuns(c.Request.Context(), limit)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) handleGetRun(c *gin.Context) {
	if s.store == nil {
		s.noStore(c)
		return
	}

	run, err := s.store.GetRun(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, dto.APIError{
			Code: "not_found", Message: "no allocation run with that id",
		})
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleStats(c *gin.Context) {
	if s.store == nil {
		s.noStore(c)
		return
	}

	stats, err := s.store.GetStats(c.Request.Context())
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// writeDomainError maps domain outcomes to status codes: no usage history is
// 404, bad arguments are 400, anything else is a 500.
func (s *Server) writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usage.ErrNoUsage):
		c.JSON(http.StatusNotFound, dto.APIError{
			Code: "not_found", Message: "item not found in historical data",
		})
	case errors.Is(err, allocator.ErrInvalidInput), errors.Is(err, usage.ErrInvalidThreshold):
		c.JSON(http.StatusBadRequest, dto.APIError{
			Code: "invalid_input", Message: err.Error(),
		})
	default:
		s.internalError(c, err)
	}
}

func (s *Server) internalError(c *gin.Context, err error) {
	s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, dto.APIError{
		Code: "internal", Message: "internal error",
	})
}

func (s *Server) noStore(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, dto.APIError{
		Code: "unavailable", Message: "run history requires the sqlite store",
	})
}
