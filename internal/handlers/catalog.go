package handlers

import (
	"errors"
	"net/http"

	"haber_bosch_console/internal/catalog"
	"haber_bosch_console/internal/models"

	"github.com/gin-gonic/gin"
)

type catalogItem struct {
	Catalyst models.Catalyst          `json:"catalyst"`
	Entry    models.RangeCatalogEntry `json:"entry"`
}

// @Summary      Range metadata of every supported catalyst
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, catalysts"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/catalog [get]
func (h *Handler) listCatalog(c *gin.Context) {
	items := make([]catalogItem, 0, len(catalog.Supported()))
	for _, cat := range catalog.Supported() {
		entry, err := h.services.Ranges.Lookup(cat)
		if err != nil {
			h.logAndJSONError(c, http.StatusInternalServerError, "failed to load range metadata", "catalog_lookup_failed", err, "catalyst", cat)
			return
		}
		items = append(items, catalogItem{Catalyst: cat, Entry: entry})
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     len(items),
		"catalysts": items,
	})
}

// @Summary      Range metadata of one catalyst
// @Tags         catalog
// @Produce      json
// @Param        catalyst  path      string  true  "Catalyst id"  Enums(KMIR,FN)
// @Success      200       {object}  models.RangeCatalogEntry
// @Failure      404       {object}  map[string]string
// @Failure      500       {object}  map[string]string
// @Router       /api/v1/catalog/{catalyst} [get]
func (h *Handler) getCatalogEntry(c *gin.Context) {
	id := c.Param("catalyst")
	entry, err := h.services.Ranges.Lookup(models.ParseCatalyst(id))
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownCatalyst) {
			c.JSON(http.StatusNotFound, notFound("catalyst", id))
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load range metadata", "catalog_lookup_failed", err, "catalyst", id)
		return
	}
	c.JSON(http.StatusOK, entry)
}
