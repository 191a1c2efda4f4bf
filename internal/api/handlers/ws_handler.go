package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/recruitdesk/internal/events"
	"github.com/yoockh/recruitdesk/internal/services"
	"github.com/yoockh/recruitdesk/internal/utils"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = 50 * time.Second
)

// WSHandler streams CV status transitions to the browser.
type WSHandler struct {
	errorWriter
	cvs      services.CVService
	events   events.Subscriber
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(cvs services.CVService, sub events.Subscriber, cl *utils.Classifier, l *logrus.Logger) *WSHandler {
	return &WSHandler{
		errorWriter: errorWriter{cl},
		cvs:         cvs,
		events:      sub,
		log:         l,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin once the front-end host is configurable
		},
	}
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.write(websocket.TextMessage, b)
}

func (w *wsConn) write(kind int, b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.c.WriteMessage(kind, b)
}

// CVStatus sends the current status first, then every transition until the client leaves.
func (h *WSHandler) CVStatus(c *gin.Context) {
	const op = "WSHandler.CVStatus"

	id, ok := h.pathID(c, op, "id")
	if !ok {
		return
	}
	cv, err := h.cvs.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if cv == nil {
		h.notFound(c, op, "cv")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	stream, stop, err := h.events.Subscribe(ctx, id)
	if err != nil {
		h.log.WithError(err).WithField("cv_id", id).Warn("status subscription failed")
		_ = wc.writeJSON(gin.H{"type": "error", "code": utils.CodeUnavailable, "message": "status stream unavailable"})
		return
	}
	defer stop()

	// re-read after subscribing so a transition in between is not missed
	if fresh, err := h.cvs.Get(ctx, id); err == nil && fresh != nil {
		cv = fresh
	}
	if err := wc.writeJSON(events.NewStatusEvent(cv.ID, cv.Status, "current", cv.LastModified)); err != nil {
		return
	}

	// reader: only control frames and close are expected from the client
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingEvery)
	defer ping.Stop()

	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := wc.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case ev, ok := <-stream:
			if !ok {
				return
			}
			if err := wc.writeJSON(ev); err != nil {
				return
			}
		}
	}
}
