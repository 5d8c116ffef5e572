package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"haber_bosch_console/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000
	inboxSize        = 16
)

// Envelope types on the event channel.
const (
	msgEvent    = "event"
	msgSnapshot = "snapshot"
	msgError    = "error"
)

// wsEnvelope is the frame format in both directions. Clients send
// {"type":"event","data":{...}}; the server answers with "snapshot" or "error".
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

type wsInbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// inboxItem is either a decoded event or a complaint to send back.
type inboxItem struct {
	event  *service.Event
	reject string
}

// checkOrigin admits requests without an Origin header (non-browser
// clients), same-host origins, and origins listed in Options.AllowedOrigins.
// "*" admits any origin.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range h.opts.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(strings.TrimRight(allowed, "/"), origin) {
			return true
		}
	}
	return false
}

// wsSession is one connected browser. The read pump only decodes frames;
// every write happens on the goroutine running serve.
type wsSession struct {
	h     *Handler
	conn  *websocket.Conn
	inbox chan inboxItem
	done  chan struct{} // closed when the read pump exits
	quit  chan struct{} // closed when serve returns
}

func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	upgrader := websocket.Upgrader{CheckOrigin: h.checkOrigin}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	s := &wsSession{
		h:     h,
		conn:  conn,
		inbox: make(chan inboxItem, inboxSize),
		done:  make(chan struct{}),
		quit:  make(chan struct{}),
	}
	defer s.close()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go s.readPump()
	if err := s.serve(c.Request.Context(), interval); err != nil && h.log != nil {
		h.log.Infow("ws_session_closed", "operator_id", c.GetInt(operatorIDKey), "err", err)
	}
}

func (s *wsSession) close() {
	close(s.quit)
	_ = s.conn.Close()
}

// serve pushes the initial snapshot, then answers events, pushes periodic
// snapshots and pings until the client goes away or a write fails.
func (s *wsSession) serve(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	if err := s.pushSnapshot(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-s.done:
			return nil
		case <-ctx.Done():
			return nil
		case item := <-s.inbox:
			if err := s.answer(ctx, item); err != nil {
				return err
			}
		case <-ping.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		case <-ticker.C:
			if err := s.pushSnapshot(ctx); err != nil {
				return err
			}
		}
	}
}

func (s *wsSession) readPump() {
	defer close(s.done)
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if s.h.log != nil {
				s.h.log.Debugw("ws_read_closed", "err", err)
			}
			return
		}
		select {
		case s.inbox <- decodeInbound(raw):
		case <-s.quit:
			return
		}
	}
}

func decodeInbound(raw []byte) inboxItem {
	var in wsInbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return inboxItem{reject: "malformed message"}
	}
	if in.Type != msgEvent {
		return inboxItem{reject: "unsupported message type " + strconv.Quote(in.Type)}
	}
	var body eventBody
	if err := json.Unmarshal(in.Data, &body); err != nil || body.Type == "" {
		return inboxItem{reject: "invalid event body"}
	}
	ev := body.event()
	return inboxItem{event: &ev}
}

func (s *wsSession) answer(ctx context.Context, item inboxItem) error {
	if item.event == nil {
		return s.write(wsEnvelope{Type: msgError, Error: item.reject})
	}
	snap, err := s.h.services.Console.Dispatch(ctx, *item.event)
	if err != nil {
		return s.write(wsEnvelope{Type: msgError, Data: snap, Error: err.Error()})
	}
	return s.write(wsEnvelope{Type: msgSnapshot, Data: snap})
}

func (s *wsSession) pushSnapshot(ctx context.Context) error {
	snap, err := s.h.services.Console.Snapshot(ctx)
	if err != nil {
		if s.h.log != nil {
			s.h.log.Errorw("ws_snapshot_failed", "err", err)
		}
		return err
	}
	return s.write(wsEnvelope{Type: msgSnapshot, Data: snap})
}

func (s *wsSession) write(env wsEnvelope) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(env)
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds and
// falls back to the configured stream interval.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}
	return h.opts.StreamInterval
}
