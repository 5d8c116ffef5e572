package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// @Summary      Last image drawn on a canvas
// @Tags         canvas
// @Produce      png
// @Param        file  path  string  true  "Canvas id, optionally with .png"  example(canvas.png)
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/canvas/{file} [get]
func (h *Handler) getCanvas(c *gin.Context) {
	id := strings.TrimSuffix(c.Param("file"), ".png")
	if h.services.Canvas == nil {
		c.JSON(http.StatusNotFound, notFound("canvas", id))
		return
	}
	img, ok := h.services.Canvas.Image(id)
	if !ok {
		c.JSON(http.StatusNotFound, notFound("canvas", id))
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", img)
}
