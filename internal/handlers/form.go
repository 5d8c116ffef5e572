package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"haber_bosch_console/internal/form"
	"haber_bosch_console/internal/service"

	"github.com/gin-gonic/gin"
)

var errBadEventValue = errors.New("value must be a string, number or boolean")

// eventValue accepts "205", 205 or true and keeps the text the form parses.
type eventValue string

func (v *eventValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = eventValue(s)
	case 't', 'f':
		var flag bool
		if err := json.Unmarshal(b, &flag); err != nil {
			return err
		}
		*v = eventValue(strconv.FormatBool(flag))
	case '{', '[':
		return errBadEventValue
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*v = eventValue(n.String())
	}
	return nil
}

type eventBody struct {
	Type            service.EventType `json:"type" binding:"required"`
	Control         string            `json:"control"`
	Value           eventValue        `json:"value"`
	Width           int               `json:"width"`
	Height          int               `json:"height"`
	OffsetX         float64           `json:"offset_x"`
	OffsetY         float64           `json:"offset_y"`
	DisplayedWidth  float64           `json:"displayed_width"`
	DisplayedHeight float64           `json:"displayed_height"`
}

func (b eventBody) event() service.Event {
	return service.Event{
		Type:            b.Type,
		Control:         b.Control,
		Value:           string(b.Value),
		Width:           b.Width,
		Height:          b.Height,
		OffsetX:         b.OffsetX,
		OffsetY:         b.OffsetY,
		DisplayedWidth:  b.DisplayedWidth,
		DisplayedHeight: b.DisplayedHeight,
	}
}

// eventStatus maps a console error onto an HTTP status.
func eventStatus(err error) int {
	switch {
	case errors.Is(err, form.ErrInvalidValue), errors.Is(err, service.ErrUnknownEvent):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, service.ErrLoopStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// @Summary      Current form
// @Description  Controls, display texts, hidden panels, status and canvas of the console.
// @Tags         form
// @Produce      json
// @Success      200  {object}  service.Snapshot
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/form [get]
func (h *Handler) getForm(c *gin.Context) {
	snap, err := h.services.Console.Snapshot(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, eventStatus(err), "console unavailable", "form_snapshot_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Dispatch a browser event
// @Description  Forwards input, change, toggle, resize, mousemove or refresh to the console and returns the page state afterwards.
// @Tags         form
// @Accept       json
// @Produce      json
// @Param        event  body      eventBody  true  "Event"
// @Success      200    {object}  service.Snapshot
// @Failure      400    {object}  map[string]interface{}
// @Failure      409    {object}  map[string]interface{}
// @Failure      500    {object}  map[string]interface{}
// @Router       /api/v1/form/events [post]
func (h *Handler) postEvent(c *gin.Context) {
	var body eventBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event body"})
		return
	}

	snap, err := h.services.Console.Dispatch(c.Request.Context(), body.event())
	if err != nil {
		code := eventStatus(err)
		if h.log != nil {
			h.log.Infow("form_event_rejected",
				"request_id", c.GetString(requestIDKey),
				"type", body.Type,
				"control", body.Control,
				"status", code,
				"err", err,
			)
		}
		resp := gin.H{"error": err.Error()}
		if snap.Ready || errors.Is(err, service.ErrNotReady) {
			resp["snapshot"] = snap
		}
		c.JSON(code, resp)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Assembled simulation request
// @Description  The request the next refresh would hand to the engine, read from the current form.
// @Tags         form
// @Produce      json
// @Success      200  {object}  models.SimulationRequest
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/request [get]
func (h *Handler) getRequest(c *gin.Context) {
	req, err := h.services.Console.Request(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, eventStatus(err), err.Error(), "request_assemble_failed", err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// logAndJSONError logs err under logKey and replies with {"error": userMsg}.
func (h *Handler) logAndJSONError(c *gin.Context, code int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil {
		fields := append([]interface{}{"request_id", c.GetString(requestIDKey), "err", err}, kv...)
		if code >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	c.JSON(code, gin.H{"error": userMsg})
}

func notFound(what, id string) gin.H {
	return gin.H{"error": fmt.Sprintf("%s %q not found", what, id)}
}
