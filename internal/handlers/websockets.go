package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"aircon_control/internal/service"

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

	wsTypeState   = "state"
	wsTypeComfort = "comfort"
)

// wsEnvelope is one WebSocket message. Every tick carries a "state" message,
// followed by "comfort" once a reading exists.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// The dashboard is served from another origin; the token guards the route.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsStream pushes snapshots to one client.
type wsStream struct {
	h    *Handler
	conn *websocket.Conn
}

func (s *wsStream) write(env wsEnvelope) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(env)
}

func (s *wsStream) ping() error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.PingMessage, nil)
}

// snapshot writes the state and, when available, the comfort report. Only a
// state failure ends the stream.
func (s *wsStream) snapshot(ctx context.Context) error {
	mon := s.h.services.Monitoring

	st, err := mon.GetState(ctx)
	if err != nil {
		s.h.logw("ws_get_state_failed", "err", err)
		return err
	}
	if err := s.write(wsEnvelope{Type: wsTypeState, Data: st}); err != nil {
		return err
	}

	snap, err := mon.Comfort(ctx)
	switch {
	case errors.Is(err, service.ErrNoReadings):
		return nil
	case err != nil:
		s.h.logw("ws_comfort_failed", "err", err)
		return s.write(wsEnvelope{Type: wsTypeComfort, Error: "comfort unavailable"})
	}
	return s.write(wsEnvelope{Type: wsTypeComfort, Data: snap})
}

// drain reads until the peer goes away so control frames are processed.
func (s *wsStream) drain(done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			s.h.logw("ws_read_closed", "err", err)
			return
		}
	}
}

// @Summary      Stream state and comfort
// @Description  WebSocket. Query: interval (Go duration) or interval_ms, capped at 10s; access_token when no header can be set.
// @Tags         aircon
// @Router       /ws [get]
// @Security     BearerAuth
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)
	ctx := c.Request.Context()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logw("ws_upgrade_failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	s := &wsStream{h: h, conn: conn}
	done := make(chan struct{})
	go s.drain(done)

	if err := s.snapshot(ctx); err != nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	keepalive := time.NewTicker(pingPeriod)
	defer keepalive.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-keepalive.C:
			if err := s.ping(); err != nil {
				h.logw("ws_ping_failed", "err", err)
				return
			}
		case <-ticker.C:
			if err := s.snapshot(ctx); err != nil {
				h.logw("ws_write_failed", "err", err)
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s, else ?interval_ms=2000; out-of-range or
// malformed values fall back to one second.
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
	return defaultInterval
}

// logw logs at info level when a logger is configured.
func (h *Handler) logw(msg string, kv ...interface{}) {
	if h.log != nil {
		h.log.Infow(msg, kv...)
	}
}
