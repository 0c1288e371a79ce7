package handler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pos-admin/backend/internal/domain/report"
	"github.com/pos-admin/backend/internal/interfaces/http/dto"
)

const dateLayout = "2006-01-02"

// ReportComputer computes assembled report payloads
type ReportComputer interface {
	ComputeReport(ctx context.Context, family report.Family, filter report.Filter) (report.Report, error)
	ComputeDashboard(ctx context.Context, filter report.Filter) (map[report.Family]report.Report, error)
}

// ReportHandler serves report payloads
type ReportHandler struct {
	BaseHandler
	reports  ReportComputer
	location *time.Location
}

// NewReportHandler creates a new ReportHandler. Query dates are read in location, UTC when nil.
func NewReportHandler(reports ReportComputer, location *time.Location) *ReportHandler {
	if location == nil {
		location = time.UTC
	}
	return &ReportHandler{
		reports:  reports,
		location: location,
	}
}

// RegisterRoutes mounts the report endpoints
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	reports.GET("/dashboard", h.GetDashboard)
	reports.GET("/:family", h.GetReport)
}

// ReportFilterRequest is the query string accepted by every report endpoint
type ReportFilterRequest struct {
	StartDate     string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate       string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Status        string `form:"status" binding:"omitempty,max=32"`
	CustomerID    string `form:"customer_id" binding:"omitempty,uuid"`
	ProductID     string `form:"product_id" binding:"omitempty,uuid"`
	BranchID      string `form:"branch_id" binding:"omitempty,uuid"`
	POSID         string `form:"pos_id" binding:"omitempty,uuid"`
	PaymentMethod string `form:"payment_method" binding:"omitempty,max=32"`
	Category      string `form:"category" binding:"omitempty,max=128"`
}

// GetReport returns the payload of one report family
// GET /api/v1/reports/:family
func (h *ReportHandler) GetReport(c *gin.Context) {
	family, err := report.ParseFamily(c.Param("family"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filter, ok := h.bindFilter(c, family.RequiresDateRange())
	if !ok {
		return
	}

	start := time.Now()
	rep, err := h.reports.ComputeReport(c.Request.Context(), family, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, rep, dto.Meta{
		Empty:      rep.IsEmpty(),
		Families:   []string{string(family)},
		DurationMs: time.Since(start).Milliseconds(),
	})
}

// GetDashboard returns every report family computed for the same filter
// GET /api/v1/reports/dashboard
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	filter, ok := h.bindFilter(c, true)
	if !ok {
		return
	}

	start := time.Now()
	reports, err := h.reports.ComputeDashboard(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	empty := true
	families := make([]string, 0, len(reports))
	for family, rep := range reports {
		families = append(families, string(family))
		empty = empty && rep.IsEmpty()
	}
	slices.Sort(families)

	h.SuccessWithMeta(c, reports, dto.Meta{
		Empty:      empty,
		Families:   families,
		DurationMs: time.Since(start).Milliseconds(),
	})
}

// bindFilter parses the query string into a filter, writing a 400 response on failure
func (h *ReportHandler) bindFilter(c *gin.Context, requireDates bool) (report.Filter, bool) {
	var req ReportFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeValidationFormat, bindingMessage(err))
		return report.Filter{}, false
	}

	filter, err := h.parseFilter(req, requireDates)
	if err != nil {
		h.HandleError(c, err)
		return report.Filter{}, false
	}
	return filter, true
}

// parseFilter converts the request into a filter. The end date is inclusive to the end of its day.
func (h *ReportHandler) parseFilter(req ReportFilterRequest, requireDates bool) (report.Filter, error) {
	filter := report.Filter{
		Status:        strings.TrimSpace(req.Status),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Category:      strings.TrimSpace(req.Category),
	}

	if requireDates && (req.StartDate == "" || req.EndDate == "") {
		return report.Filter{}, report.NewInvalidFilterError("start_date and end_date are required")
	}
	if (req.StartDate == "") != (req.EndDate == "") {
		return report.Filter{}, report.NewInvalidFilterError("start_date and end_date must be given together")
	}
	if req.StartDate != "" {
		startDate, err := time.ParseInLocation(dateLayout, req.StartDate, h.location)
		if err != nil {
			return report.Filter{}, report.NewInvalidFilterError("invalid start_date format, expected YYYY-MM-DD")
		}
		filter.StartDate = startDate
	}
	if req.EndDate != "" {
		endDate, err := time.ParseInLocation(dateLayout, req.EndDate, h.location)
		if err != nil {
			return report.Filter{}, report.NewInvalidFilterError("invalid end_date format, expected YYYY-MM-DD")
		}
		filter.EndDate = endDate.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	ids := []struct {
		name  string
		value string
		dst   **uuid.UUID
	}{
		{"customer_id", req.CustomerID, &filter.CustomerID},
		{"product_id", req.ProductID, &filter.ProductID},
		{"branch_id", req.BranchID, &filter.BranchID},
		{"pos_id", req.POSID, &filter.POSID},
	}
	for _, id := range ids {
		if id.value == "" {
			continue
		}
		parsed, err := uuid.Parse(id.value)
		if err != nil {
			return report.Filter{}, report.NewInvalidFilterError("invalid " + id.name)
		}
		*id.dst = &parsed
	}

	if err := filter.Validate(); err != nil {
		return report.Filter{}, err
	}
	return filter, nil
}

// bindingMessage renders validator errors as "field: rule" pairs
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: failed on %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
