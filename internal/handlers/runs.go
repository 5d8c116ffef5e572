package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"haber_bosch_console/internal/service"

	"github.com/gin-gonic/gin"
)

var (
	errFromInvalid = errors.New("invalid 'from' time; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or YYYY-MM-DD")
	errToInvalid   = errors.New("invalid 'to' time; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or YYYY-MM-DD")
)

// queryTimeLayouts are tried in order; all are read as UTC unless they carry
// an offset.
var queryTimeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// runsQuery is the query string of GET /api/v1/runs.
type runsQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
	Kind string `form:"kind"`
}

// filter parses the bounds. A date-only 'to' covers the whole day.
func (q runsQuery) filter() (service.RunFilter, error) {
	f := service.RunFilter{Kind: q.Kind}
	if q.From != "" {
		t, ok := parseQueryTime(q.From)
		if !ok {
			return f, errFromInvalid
		}
		f.From = t
	}
	if q.To != "" {
		t, ok := parseQueryTime(q.To)
		if !ok {
			return f, errToInvalid
		}
		if !strings.ContainsAny(q.To, "T ") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = t
	}
	return f, nil
}

func parseQueryTime(s string) (time.Time, bool) {
	for _, layout := range queryTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// @Summary      List render runs
// @Description  Filter plot refreshes by start time (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD') and plot kind. A date-only 'to' covers the whole day.
// @Tags         runs
// @Produce      json
// @Param        from  query   string  false  "Start of range"  example(2025-08-01)
// @Param        to    query   string  false  "End of range. Date-only treated as end of day."  example(2025-08-31)
// @Param        kind  query   string  false  "Plot kind or selector value"  Enums(cbt,toy,concentration-balance,temperature-over-yield)
// @Success      200   {object}  map[string]interface{}  "count, runs"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/runs [get]
func (h *Handler) getRuns(c *gin.Context) {
	var q runsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return
	}
	filter, err := q.filter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	runs, err := h.services.RunLog.List(c.Request.Context(), filter)
	switch {
	case service.IsFilterError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load runs", "runs_list_failed", err,
			"from", filter.From, "to", filter.To, "kind", filter.Kind)
	default:
		c.JSON(http.StatusOK, gin.H{
			"count": len(runs),
			"runs":  runs,
		})
	}
}
