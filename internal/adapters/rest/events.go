package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"six-cities/internal/adapters/notifier"
	"six-cities/internal/contextkeys"
	"six-cities/internal/core/port"
	"six-cities/internal/core/session"

	"github.com/gorilla/websocket"
)

const (
	sseKeepAliveInterval = 15 * time.Second

	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
)

// StreamHandlers доставляет изменения view-model в браузер: SSE или websocket.
type StreamHandlers struct {
	notifier *notifier.SessionNotifier
	upgrader websocket.Upgrader
	logger   port.LoggerPort
}

func NewStreamHandlers(n *notifier.SessionNotifier, allowedOrigins []string, logger port.LoggerPort) *StreamHandlers {
	return &StreamHandlers{
		notifier: n,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger.WithFields(port.Fields{"component": "StreamHandlers"}),
	}
}

// originChecker разрешает запросы без Origin и с origin из списка CORS.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// sendInitialViews отправляет текущие view-model сразу после подключения.
func sendInitialViews(s *session.Session, send func(notifier.Message) error) error {
	state := s.Store.GetState()
	views := []struct {
		event string
		data  interface{}
	}{
		{session.EventHeader, s.Selectors.Header(state)},
		{session.EventMainPage, s.Selectors.MainPage(state)},
	}
	for _, v := range views {
		data, err := json.Marshal(v.data)
		if err != nil {
			return err
		}
		if err := send(notifier.Message{Event: v.event, Data: data}); err != nil {
			return err
		}
	}
	return nil
}

// Events GET /events - поток Server-Sent Events
func (h *StreamHandlers) Events(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(w, r)
	if !ok {
		return
	}
	logger := contextkeys.LoggerFromContext(r.Context())

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteJSONError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	clientChan := h.notifier.AddClient(s.ID)
	defer h.notifier.RemoveClient(s.ID, clientChan)

	if _, err := w.Write([]byte("event: connected\ndata: {}\n\n")); err != nil {
		return
	}
	err := sendInitialViews(s, func(msg notifier.Message) error {
		_, err := w.Write(msg.SSE())
		return err
	})
	if err != nil {
		logger.Warn("Failed to send initial views", port.Fields{"error": err.Error()})
		return
	}
	flusher.Flush()
	logger.Info("SSE client connected", nil)

	ticker := time.NewTicker(sseKeepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			logger.Info("SSE client disconnected", nil)
			return
		case <-ticker.C:
			if _, err := w.Write([]byte(": ping\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case msg, ok := <-clientChan:
			if !ok {
				return
			}
			if _, err := w.Write(msg.SSE()); err != nil {
				logger.Warn("Failed to write SSE message", port.Fields{"error": err.Error()})
				return
			}
			flusher.Flush()
		}
	}
}

// wsMessage - конверт сообщения в websocket.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// WebSocket GET /ws - те же события, что и /events, но через websocket
func (h *StreamHandlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(w, r)
	if !ok {
		return
	}
	logger := contextkeys.LoggerFromContext(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		logger.Warn("Failed to upgrade connection", port.Fields{"error": err.Error()})
		return
	}
	defer conn.Close()

	clientChan := h.notifier.AddClient(s.ID)
	defer h.notifier.RemoveClient(s.ID, clientChan)
	logger.Info("WebSocket client connected", nil)

	send := func(msg notifier.Message) error {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(wsMessage{Type: msg.Event, Data: msg.Data})
	}
	if err := sendInitialViews(s, send); err != nil {
		logger.Warn("Failed to send initial views", port.Fields{"error": err.Error()})
		return
	}

	// читаем только служебные кадры, чтобы заметить закрытие
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Warn("WebSocket closed unexpectedly", port.Fields{"error": err.Error()})
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			logger.Info("WebSocket client disconnected", nil)
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case msg, ok := <-clientChan:
			if !ok {
				return
			}
			if err := send(msg); err != nil {
				logger.Warn("Failed to write websocket message", port.Fields{"error": err.Error()})
				return
			}
		}
	}
}
