package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/communitycore/membership-system/internal/api/metrics"
	"github.com/communitycore/membership-system/internal/core/domain"
	"github.com/communitycore/membership-system/internal/core/ports"
)

// AuditHandler exposes the read side of the audit trail.
type AuditHandler struct {
	auditService ports.AuditService
}

func NewAuditHandler(auditService ports.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// auditFilterFromQuery builds the filter from query parameters. Timestamps
// are RFC3339; a malformed one is a client error, not an empty filter.
func auditFilterFromQuery(c echo.Context) (domain.AuditFilter, error) {
	f := domain.AuditFilter{
		ActorID:    c.QueryParam("actor_id"),
		EntityType: c.QueryParam("entity_type"),
		EntityID:   c.QueryParam("entity_id"),
	}

	if raw := c.QueryParam("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "from must be RFC3339")
		}
		f.From = t
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "to must be RFC3339")
		}
		f.To = t
	}
	return f, nil
}

// List returns audit entries newest-first, filtered by query parameters.
//
// @Summary      Query audit log
// @Tags         audit
// @Produce      json
// @Param        actor_id     query  string  false  "Filter by acting member id"
// @Param        entity_type  query  string  false  "Filter by entity type"
// @Param        entity_id    query  string  false  "Filter by entity id"
// @Param        from         query  string  false  "RFC3339 lower bound"
// @Param        to           query  string  false  "RFC3339 upper bound"
// @Success      200  {array}   domain.AuditEntry
// @Failure      403  {object}  map[string]string
// @Router       /v1/audit-logs [get]
func (h *AuditHandler) List(c echo.Context) error {
	f, err := auditFilterFromQuery(c)
	if err != nil {
		return err
	}

	entries, err := h.auditService.Query(c.Request().Context(), f)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []*domain.AuditEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

// Export streams the filtered audit log as a CSV attachment.
//
// @Summary      Export audit log as CSV
// @Tags         audit
// @Produce      text/csv
// @Success      200
// @Failure      403  {object}  map[string]string
// @Router       /v1/audit-logs/export [get]
func (h *AuditHandler) Export(c echo.Context) error {
	f, err := auditFilterFromQuery(c)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("audit-logs-%s.csv", time.Now().UTC().Format("2006-01-02T15-04-05Z"))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().WriteHeader(http.StatusOK)

	if err := h.auditService.ExportCSV(c.Request().Context(), f, c.Response()); err != nil {
		return err
	}

	metrics.AuditExportsTotal.Inc()
	return nil
}
