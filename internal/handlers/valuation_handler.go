package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/propdata-pk/propdata/internal/errors"
	"github.com/propdata-pk/propdata/internal/middleware"
	"github.com/propdata-pk/propdata/internal/models"
	"github.com/propdata-pk/propdata/internal/repository"
	"github.com/propdata-pk/propdata/internal/services"
	"github.com/propdata-pk/propdata/internal/valuation"
)

// ValuationHandler handles valuation and market catalog requests.
type ValuationHandler struct {
	service services.ValuationService
}

// NewValuationHandler creates a new ValuationHandler instance.
func NewValuationHandler(service services.ValuationService) *ValuationHandler {
	RegisterValidators()
	return &ValuationHandler{
		service: service,
	}
}

// ValuationRequest is the body of POST /api/v1/valuations.
// Numeric fields are pointers so a missing field is distinguishable from zero;
// range checks are left to the valuation model.
type ValuationRequest struct {
	AreaName         string   `json:"area_name" binding:"required,area_name"`
	Size             *float64 `json:"size" binding:"required"`
	PropertyClass    string   `json:"property_class" binding:"required"`
	ConstructionYear *int     `json:"construction_year" binding:"required"`
	RoadWidth        *float64 `json:"road_width" binding:"required"`
	AsOfYear         int      `json:"as_of_year"`
}

// HistoryRequest represents the query parameters for the history endpoint.
type HistoryRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// AreasRequest represents the query parameters for the areas endpoint.
type AreasRequest struct {
	Cluster string `form:"cluster"`
}

// ValuationResponse is returned for a completed valuation.
type ValuationResponse struct {
	ID            string                    `json:"id,omitempty"`
	MarketVersion string                    `json:"market_version"`
	Valuation     valuation.ValuationResult `json:"valuation"`
	Display       valuation.Display         `json:"display"`
}

// HistoryEntry is one recorded valuation in the history listing.
type HistoryEntry struct {
	ID            string                    `json:"id"`
	CreatedAt     string                    `json:"created_at"`
	MarketVersion string                    `json:"market_version"`
	Input         valuation.PropertyRecord  `json:"input"`
	Valuation     valuation.ValuationResult `json:"valuation"`
	Display       valuation.Display         `json:"display"`
}

// HistoryResponse represents the response for the history endpoint.
type HistoryResponse struct {
	Valuations []HistoryEntry `json:"valuations"`
	Count      int            `json:"count"`
}

// AreasResponse represents the response for the areas endpoint.
type AreasResponse struct {
	Areas    []valuation.LocationTierEntry `json:"areas"`
	Clusters []string                      `json:"clusters"`
	Count    int                           `json:"count"`
}

// AreaResponse wraps a single tier table entry.
type AreaResponse struct {
	Area valuation.LocationTierEntry `json:"area"`
}

// RoadBandsResponse represents the response for the road bands endpoint.
// Ceiling bounds the band factors, not class-weighted road factors.
type RoadBandsResponse struct {
	Bands   []valuation.WidthBand `json:"bands"`
	Ceiling float64               `json:"ceiling"`
}

// Create handles POST /api/v1/valuations.
// Area names are trimmed here; lookup in the tier table is exact.
func (h *ValuationHandler) Create(c *gin.Context) {
	var req ValuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	class, err := valuation.ParsePropertyClass(req.PropertyClass)
	if err != nil {
		apierrors.ValuationError(c, err)
		return
	}

	rec, err := h.service.Evaluate(c.Request.Context(), valuation.PropertyRecord{
		AreaName:         strings.TrimSpace(req.AreaName),
		Size:             *req.Size,
		PropertyClass:    class,
		ConstructionYear: *req.ConstructionYear,
		RoadWidth:        *req.RoadWidth,
		AsOfYear:         req.AsOfYear,
	})
	if err != nil {
		apierrors.ValuationError(c, err)
		return
	}

	resp := ValuationResponse{
		MarketVersion: rec.MarketVersion,
		Valuation:     rec.Result,
		Display:       h.display(rec.Result.TotalValue),
	}
	if h.service.HistoryEnabled() {
		resp.ID = rec.ID.String()
	}

	c.JSON(http.StatusOK, resp)
}

// History handles GET /api/v1/valuations.
// It lists recorded valuations, newest first.
func (h *ValuationHandler) History(c *gin.Context) {
	var req HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}
	if req.Limit == 0 {
		req.Limit = services.DefaultHistoryLimit
	}

	records, err := h.service.Recent(c.Request.Context(), req.Limit)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrHistoryDisabled):
			apierrors.ServiceUnavailable(c, apierrors.ErrHistoryDisabled, "Valuation history is disabled")
		case errors.Is(err, repository.ErrHistoryUnavailable):
			apierrors.ServiceUnavailable(c, apierrors.ErrHistoryUnavailable, "Valuation history is temporarily unavailable")
		case errors.Is(err, services.ErrInvalidHistoryLimit):
			apierrors.BadRequest(c, err.Error(), map[string]interface{}{"limit": req.Limit})
		default:
			apierrors.InternalServerError(c, "Failed to read valuation history", err)
		}
		return
	}

	log := middleware.GetLogger(c)
	entries := make([]HistoryEntry, 0, len(records))
	for _, r := range records {
		// JSON has no encoding for NaN or infinity.
		if !r.Result.Finite() {
			if log != nil {
				log.Warn("Skipping history record with non-finite figures", map[string]interface{}{
					"valuation_id": r.ID.String(),
				})
			}
			continue
		}
		entries = append(entries, h.historyEntry(r))
	}

	if log != nil {
		log.Debug("History listed", map[string]interface{}{
			"limit": req.Limit,
			"count": len(entries),
		})
	}

	c.JSON(http.StatusOK, HistoryResponse{
		Valuations: entries,
		Count:      len(entries),
	})
}

// Areas handles GET /api/v1/areas.
func (h *ValuationHandler) Areas(c *gin.Context) {
	var req AreasRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	areas := h.service.Areas(strings.TrimSpace(req.Cluster))
	c.JSON(http.StatusOK, AreasResponse{
		Areas:    areas,
		Clusters: h.service.Clusters(),
		Count:    len(areas),
	})
}

// Area handles GET /api/v1/areas/:name.
func (h *ValuationHandler) Area(c *gin.Context) {
	entry, err := h.service.Area(strings.TrimSpace(c.Param("name")))
	if err != nil {
		apierrors.ValuationError(c, err)
		return
	}

	c.JSON(http.StatusOK, AreaResponse{Area: entry})
}

// RoadBands handles GET /api/v1/road-bands.
func (h *ValuationHandler) RoadBands(c *gin.Context) {
	c.JSON(http.StatusOK, RoadBandsResponse{
		Bands:   h.service.RoadBands(),
		Ceiling: h.service.RoadCeiling(),
	})
}

func (h *ValuationHandler) display(total float64) valuation.Display {
	return valuation.NewDisplay(h.service.Market().Currency, total)
}

func (h *ValuationHandler) historyEntry(r models.ValuationRecord) HistoryEntry {
	return HistoryEntry{
		ID:            r.ID.String(),
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
		MarketVersion: r.MarketVersion,
		Input:         r.Input,
		Valuation:     r.Result,
		Display:       h.display(r.Result.TotalValue),
	}
}
