package store

import "six-cities/internal/core/domain"

// ActionType - имя действия, например "offers/changeCity" или "offers/fetchOffers/pending".
type ActionType string

// Meta - служебные данные асинхронного действия.
type Meta struct {
	// RequestID одинаков у pending и у settled-действия одного запроса.
	RequestID string
	// Arg - аргумент, с которым было запущено действие.
	Arg interface{}
}

// Action - событие, которое получают все редьюсеры слайсов.
type Action struct {
	Type    ActionType
	Payload interface{}
	// Error - сообщение для rejected-действий.
	Error string
	Meta  Meta
}

// Синхронные действия пользователя
const (
	ActionChangeCity          ActionType = "offers/changeCity"
	ActionSetOffers           ActionType = "offers/setOffers"
	ActionChangeSorting       ActionType = "offers/changeSorting"
	ActionClearOffersError    ActionType = "offers/clearError"
	ActionSetAuthStatus       ActionType = "auth/setAuthStatus"
	ActionSetUser             ActionType = "auth/setUser"
	ActionLogout              ActionType = "auth/logout"
	ActionClearFavoritesError ActionType = "favorites/clearFavoritesError"
)

func ChangeCity(city domain.CityName) Action {
	return Action{Type: ActionChangeCity, Payload: city}
}

func SetOffers(offers []domain.Offer) Action {
	return Action{Type: ActionSetOffers, Payload: offers}
}

func ChangeSorting(sorting domain.SortingType) Action {
	return Action{Type: ActionChangeSorting, Payload: sorting}
}

func ClearOffersError() Action {
	return Action{Type: ActionClearOffersError}
}

func SetAuthStatus(status domain.AuthorizationStatus) Action {
	return Action{Type: ActionSetAuthStatus, Payload: status}
}

// SetUser принимает nil, чтобы сбросить пользователя.
func SetUser(user *domain.AuthInfo) Action {
	return Action{Type: ActionSetUser, Payload: user}
}

// Logout - единственный переход в NO_AUTH с обнулением пользователя за один диспатч.
func Logout() Action {
	return Action{Type: ActionLogout}
}

func ClearFavoritesError() Action {
	return Action{Type: ActionClearFavoritesError}
}
