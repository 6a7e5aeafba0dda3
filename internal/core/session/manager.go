package session

import (
	"context"
	"sync"
	"time"

	"six-cities/internal/contextkeys"
	"six-cities/internal/core/port"
	"six-cities/internal/core/store"
)

// Типы событий, которые получает браузер
const (
	EventMainPage      = "main"
	EventOfferPage     = "offer"
	EventFavoritesPage = "favorites"
	EventHeader        = "header"
)

// StoreFactory создаёт хранилище для новой сессии.
type StoreFactory func(sessionID string) *store.Store

// Session - хранилище и селекторы одной браузерной сессии.
type Session struct {
	ID        string
	Store     *store.Store
	Selectors *store.Selectors

	mu          sync.Mutex
	lastSeen    time.Time
	lastCounts  map[string]int
	unsubscribe func()
	authOnce    sync.Once
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// pushChangedViews отправляет view-model, которые пересчитались с прошлого вызова.
// Состояние читается и события отправляются под s.mu, поэтому слушатель,
// выполнившийся последним, всегда отправляет самое свежее состояние,
// даже если снимки параллельных диспатчей пришли к слушателям не по порядку.
func (s *Session) pushChangedViews(ctx context.Context, notifier port.NotifierPort) {
	memoKeys := map[string]string{
		EventMainPage:      "mainPage",
		EventOfferPage:     "offerPage",
		EventFavoritesPage: "favoritesPage",
		EventHeader:        "header",
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.Store.GetState()
	data := map[string]interface{}{
		EventMainPage:      s.Selectors.MainPage(state),
		EventOfferPage:     s.Selectors.OfferPage(state),
		EventFavoritesPage: s.Selectors.FavoritesPage(state),
		EventHeader:        s.Selectors.Header(state),
	}
	counts := s.Selectors.Recomputations()

	for _, event := range []string{EventHeader, EventMainPage, EventOfferPage, EventFavoritesPage} {
		key := memoKeys[event]
		if counts[key] != s.lastCounts[key] {
			notifier.Notify(ctx, s.ID, port.ViewEvent{Type: event, Data: data[event]})
		}
	}
	s.lastCounts = counts
}

// CheckAuthOnce проверяет авторизацию один раз за жизнь сессии.
// Параллельные запросы ждут окончания первой проверки и не видят статус UNKNOWN.
func (s *Session) CheckAuthOnce(ctx context.Context) {
	s.authOnce.Do(func() {
		// отмена первого запроса не должна обрывать проверку для остальных
		_, _ = store.CheckAuth.Dispatch(context.WithoutCancel(ctx), s.Store, struct{}{})
	})
}

// clientTracker - нотификатор, который знает об открытых вкладках сессии.
type clientTracker interface {
	HasClients(sessionID string) bool
}

// Manager хранит сессии и удаляет простаивающие.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	newStore StoreFactory
	notifier port.NotifierPort
	logger   port.LoggerPort
	idleTTL  time.Duration
	now      func() time.Time
	onEvict  func(sessionID string)
}

func NewManager(newStore StoreFactory, notifier port.NotifierPort, logger port.LoggerPort, idleTTL time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		newStore: newStore,
		notifier: notifier,
		logger:   logger.WithFields(port.Fields{"component": "SessionManager"}),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Get возвращает существующую сессию и продлевает её жизнь.
func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if ok {
		s.touch(m.now())
	}
	return s, ok
}

// GetOrCreate возвращает сессию; created=true, если она только что создана.
func (m *Manager) GetOrCreate(sessionID string) (s *Session, created bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[sessionID]; ok {
		s.touch(m.now())
		return s, false
	}

	s = &Session{
		ID:        sessionID,
		Store:     m.newStore(sessionID),
		Selectors: store.NewSelectors(),
		lastSeen:  m.now(),
	}
	s.lastCounts = s.Selectors.Recomputations()

	sessionLogger := m.logger.WithFields(port.Fields{"session_id": sessionID})
	notifyCtx := contextkeys.ContextWithLogger(context.Background(), sessionLogger)
	if m.notifier != nil {
		s.unsubscribe = s.Store.Subscribe(func(store.RootState, store.Action) {
			s.pushChangedViews(notifyCtx, m.notifier)
		})
	}

	m.sessions[sessionID] = s
	sessionLogger.Info("Session created", port.Fields{"sessions": len(m.sessions)})
	return s, true
}

// Remove удаляет сессию и отписывает её от нотификатора.
func (m *Manager) Remove(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(sessionID)
}

func (m *Manager) removeLocked(sessionID string) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	delete(m.sessions, sessionID)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// OnEvict задаёт функцию, которая вызывается для каждой вытесненной сессии
// (например, чтобы удалить её токен из памяти).
func (m *Manager) OnEvict(fn func(sessionID string)) {
	m.mu.Lock()
	m.onEvict = fn
	m.mu.Unlock()
}

// EvictIdle удаляет сессии, к которым не обращались дольше idleTTL.
// Сессия с открытым потоком событий (SSE или websocket) не считается простаивающей.
func (m *Manager) EvictIdle() int {
	if m.idleTTL <= 0 {
		return 0
	}
	tracker, _ := m.notifier.(clientTracker)

	m.mu.Lock()
	deadline := m.now().Add(-m.idleTTL)
	var evicted []string
	for id, s := range m.sessions {
		if tracker != nil && tracker.HasClients(id) {
			continue
		}
		if s.idleSince().Before(deadline) {
			m.removeLocked(id)
			evicted = append(evicted, id)
		}
	}
	remaining := len(m.sessions)
	onEvict := m.onEvict
	m.mu.Unlock()

	if len(evicted) == 0 {
		return 0
	}
	if onEvict != nil {
		for _, id := range evicted {
			onEvict(id)
		}
	}
	m.logger.Info("Idle sessions evicted", port.Fields{"evicted": len(evicted), "remaining": remaining})
	return len(evicted)
}

// Run периодически вызывает EvictIdle, пока не отменён ctx.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.EvictIdle()
		}
	}
}
