package rest

import (
	"context"
	"net/http"
	"time"

	"six-cities/internal/contextkeys"
	"six-cities/internal/core/domain"
	"six-cities/internal/core/port"
	"six-cities/internal/core/session"

	"github.com/google/uuid"
)

type sessionKeyType struct{}

var sessionKey = sessionKeyType{}

const loginRoute = "/login"

func sessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*session.Session)
	return s, ok
}

// SessionMiddleware находит или создаёт сессию по cookie.
// Новая сессия один раз проверяет авторизацию на бэкенде.
// Пока проверка идёт, параллельные запросы той же сессии ждут её окончания.
func SessionMiddleware(manager *session.Manager, cookieName string, cookieTTL time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(cookieName); err == nil {
				if _, err := uuid.Parse(cookie.Value); err == nil {
					sessionID = cookie.Value
				}
			}
			if sessionID == "" {
				sessionID = uuid.New().String()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(cookieTTL.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"session_id": sessionID})
			ctx := contextkeys.ContextWithLogger(r.Context(), logger)

			s, _ := manager.GetOrCreate(sessionID)
			// первый запрос новой сессии проверяет авторизацию, остальные ждут результата
			s.CheckAuthOnce(ctx)

			ctx = context.WithValue(ctx, sessionKey, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth пропускает только авторизованных пользователей.
// Остальным отвечает 401 и адресом страницы входа.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionFromContext(r.Context())
		if !ok || s.Store.GetState().Auth.AuthorizationStatus != domain.AuthStatusAuth {
			RespondWithJSON(w, http.StatusUnauthorized, ErrorResponse{
				Error:    "Authorization required",
				Redirect: loginRoute,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
