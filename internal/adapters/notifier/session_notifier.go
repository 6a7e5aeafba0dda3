package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"six-cities/internal/contextkeys"
	"six-cities/internal/core/port"
)

const (
	eventBufferSize  = 100
	clientBufferSize = 16
)

// Message - одно событие для одной вкладки, уже сериализованное.
type Message struct {
	Event string
	Data  json.RawMessage
}

// SSE форматирует сообщение для text/event-stream.
func (m Message) SSE() []byte {
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", m.Event, m.Data))
}

// ClientChannel - канал одной вкладки браузера.
type ClientChannel chan Message

type eventWithContext struct {
	ctx       context.Context
	sessionID string
	event     port.ViewEvent
}

// SessionNotifier рассылает view-model во все открытые вкладки сессии (SSE и websocket).
type SessionNotifier struct {
	// ключ - ID сессии; у одной сессии может быть несколько вкладок
	clients map[string][]ClientChannel
	mu      sync.RWMutex

	eventChan chan eventWithContext
	stop      chan struct{}
	stopOnce  sync.Once

	logger port.LoggerPort
}

var _ port.NotifierPort = (*SessionNotifier)(nil)

// NewSessionNotifier создаёт нотификатор и запускает горутину-диспетчер.
func NewSessionNotifier(baseLogger port.LoggerPort) *SessionNotifier {
	n := &SessionNotifier{
		clients:   make(map[string][]ClientChannel),
		eventChan: make(chan eventWithContext, eventBufferSize),
		stop:      make(chan struct{}),
		logger:    baseLogger.WithFields(port.Fields{"component": "SessionNotifier"}),
	}
	go n.dispatcher()
	return n
}

func (n *SessionNotifier) dispatcher() {
	n.logger.Debug("Notifier dispatcher started.", nil)
	for {
		select {
		case <-n.stop:
			n.logger.Debug("Notifier dispatcher stopped.", nil)
			return
		case pkg := <-n.eventChan:
			n.dispatch(pkg)
		}
	}
}

func (n *SessionNotifier) dispatch(pkg eventWithContext) {
	eventLogger := contextkeys.LoggerFromContext(pkg.ctx).WithFields(port.Fields{
		"component":  "SessionNotifier.dispatcher",
		"event_type": pkg.event.Type,
		"session_id": pkg.sessionID,
	})

	data, err := json.Marshal(pkg.event.Data)
	if err != nil {
		eventLogger.Error("Failed to marshal event", err, nil)
		return
	}
	msg := Message{Event: pkg.event.Type, Data: data}

	n.mu.RLock()
	defer n.mu.RUnlock()

	channels := n.clients[pkg.sessionID]
	if len(channels) == 0 {
		eventLogger.Debug("No active clients for session, event dropped.", nil)
		return
	}
	for _, ch := range channels {
		select {
		case ch <- msg:
		default:
			eventLogger.Warn("Client channel is full, skipping.", nil)
		}
	}
}

// Notify не блокирует: при переполненном буфере событие теряется,
// следующее изменение состояния всё равно пришлёт актуальную view-model.
func (n *SessionNotifier) Notify(ctx context.Context, sessionID string, event port.ViewEvent) {
	select {
	case n.eventChan <- eventWithContext{ctx: ctx, sessionID: sessionID, event: event}:
	default:
		n.logger.Warn("Notifier buffer is full, event dropped.", port.Fields{"session_id": sessionID, "event_type": event.Type})
	}
}

// AddClient регистрирует новую вкладку. Вызывается из HTTP-хендлера.
func (n *SessionNotifier) AddClient(sessionID string) ClientChannel {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(ClientChannel, clientBufferSize)
	n.clients[sessionID] = append(n.clients[sessionID], ch)
	n.logger.Info("Client connected", port.Fields{
		"session_id":  sessionID,
		"connections": len(n.clients[sessionID]),
	})
	return ch
}

// RemoveClient удаляет вкладку при закрытии соединения.
func (n *SessionNotifier) RemoveClient(sessionID string, ch ClientChannel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	channels := n.clients[sessionID]
	remaining := make([]ClientChannel, 0, len(channels))
	for _, c := range channels {
		if c != ch {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == 0 {
		delete(n.clients, sessionID)
		n.logger.Debug("Last client of session disconnected.", port.Fields{"session_id": sessionID})
		return
	}
	n.clients[sessionID] = remaining
}

// HasClients сообщает, открыта ли у сессии хоть одна вкладка.
func (n *SessionNotifier) HasClients(sessionID string) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.clients[sessionID]) > 0
}

// Close останавливает диспетчер.
func (n *SessionNotifier) Close() {
	n.stopOnce.Do(func() { close(n.stop) })
}
