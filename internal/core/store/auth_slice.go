package store

import "six-cities/internal/core/domain"

// AuthState - текущий пользователь.
type AuthState struct {
	AuthorizationStatus domain.AuthorizationStatus
	User                *domain.AuthInfo
}

func initialAuthState() AuthState {
	return AuthState{
		AuthorizationStatus: domain.AuthStatusUnknown,
	}
}

func authReducer(state AuthState, action Action) AuthState {
	switch action.Type {
	case ActionSetAuthStatus:
		status, ok := action.Payload.(domain.AuthorizationStatus)
		if !ok {
			return state
		}
		// после проверки сессии в UNKNOWN уже не возвращаемся
		if status == domain.AuthStatusUnknown && state.AuthorizationStatus != domain.AuthStatusUnknown {
			return state
		}
		state.AuthorizationStatus = status
	case ActionSetUser:
		user, _ := action.Payload.(*domain.AuthInfo)
		if user != nil {
			copied := *user
			user = &copied
		}
		state.User = user
	case ActionLogout:
		state.AuthorizationStatus = domain.AuthStatusNoAuth
		state.User = nil
	}
	return state
}
