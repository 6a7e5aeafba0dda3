package store

import (
	"sync"

	"six-cities/internal/core/port"
)

// DispatchFunc передаёт действие дальше по цепочке middleware.
type DispatchFunc func(action Action)

// Middleware оборачивает dispatch, как в Redux: next вызывает следующее звено цепочки.
type Middleware func(next DispatchFunc) DispatchFunc

// Listener получает снимок состояния после каждого действия.
type Listener func(state RootState, action Action)

// Extra - зависимости, доступные асинхронным действиям.
type Extra struct {
	API    port.OffersAPIPort
	Tokens port.TokenStoragePort
}

// Store хранит RootState одной сессии. Действия применяются последовательно,
// подписчики уведомляются уже после снятия блокировки и могут диспатчить сами.
type Store struct {
	mu    sync.RWMutex
	state RootState

	listenersMu    sync.Mutex
	listeners      map[int]Listener
	nextListenerID int

	middleware []Middleware
	dispatch   DispatchFunc
	extra      Extra
}

type Option func(*Store)

func WithExtra(extra Extra) Option {
	return func(s *Store) { s.extra = extra }
}

// WithMiddleware добавляет middleware; первое в списке вызывается первым.
func WithMiddleware(middleware ...Middleware) Option {
	return func(s *Store) { s.middleware = append(s.middleware, middleware...) }
}

func WithPreloadedState(state RootState) Option {
	return func(s *Store) { s.state = state }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		state:     InitialState(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}

	dispatch := s.reduce
	for i := len(s.middleware) - 1; i >= 0; i-- {
		dispatch = s.middleware[i](dispatch)
	}
	s.dispatch = dispatch
	return s
}

// Dispatch применяет действие ко всем слайсам.
func (s *Store) Dispatch(action Action) {
	s.dispatch(action)
}

// GetState возвращает снимок текущего состояния.
func (s *Store) GetState() RootState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) Extra() Extra {
	return s.extra
}

// Subscribe регистрирует слушателя и возвращает функцию отписки.
func (s *Store) Subscribe(listener Listener) func() {
	s.listenersMu.Lock()
	id := s.nextListenerID
	s.nextListenerID++
	s.listeners[id] = listener
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *Store) reduce(action Action) {
	s.mu.Lock()
	s.state = RootReducer(s.state, action)
	state := s.state
	s.mu.Unlock()

	s.listenersMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenersMu.Unlock()

	for _, l := range listeners {
		l(state, action)
	}
}
