package domain

// AuthorizationStatus - состояние авторизации текущего пользователя.
// UNKNOWN допустим только как начальное значение.
type AuthorizationStatus string

const (
	AuthStatusAuth    AuthorizationStatus = "AUTH"
	AuthStatusNoAuth  AuthorizationStatus = "NO_AUTH"
	AuthStatusUnknown AuthorizationStatus = "UNKNOWN"
)

// AuthInfo - данные текущего пользователя, которые возвращает бэкенд.
type AuthInfo struct {
	ID        int    `json:"id,omitempty"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	IsPro     bool   `json:"isPro"`
	Email     string `json:"email"`
	Token     string `json:"token"`
}

// Credentials - тело запроса POST /login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
