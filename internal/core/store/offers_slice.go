package store

import (
	"six-cities/internal/constants"
	"six-cities/internal/core/domain"
)

// OffersState - список предложений и выбранные пользователем город и сортировка.
type OffersState struct {
	CityTab   domain.CityName
	Offers    []domain.Offer
	Sorting   domain.SortingType
	IsLoading bool
	// Error пустая, если последняя загрузка прошла успешно.
	// При ошибке Offers остаются от предыдущей загрузки.
	Error string
}

func initialOffersState() OffersState {
	return OffersState{
		CityTab: constants.DefaultCity,
		Offers:  []domain.Offer{},
		Sorting: constants.DefaultSorting,
	}
}

func offersReducer(state OffersState, action Action) OffersState {
	switch action.Type {
	case ActionChangeCity:
		if city, ok := action.Payload.(domain.CityName); ok {
			state.CityTab = city
		}
	case ActionChangeSorting:
		if sorting, ok := action.Payload.(domain.SortingType); ok {
			state.Sorting = sorting
		}
	case ActionSetOffers:
		if offers, ok := action.Payload.([]domain.Offer); ok {
			state.Offers = offers
		}
	case ActionClearOffersError:
		state.Error = ""

	case FetchOffers.Pending():
		state.IsLoading = true
		state.Error = ""
	case FetchOffers.Fulfilled():
		state.IsLoading = false
		if offers, ok := action.Payload.([]domain.Offer); ok {
			state.Offers = offers
		}
	case FetchOffers.Rejected():
		state.IsLoading = false
		state.Error = messageOr(action.Error, constants.ErrFetchOffersFailed)

	case ChangeFavoriteStatus.Fulfilled():
		if updated, ok := action.Payload.(domain.Offer); ok {
			state.Offers = patchFavorite(state.Offers, updated)
		}
	case ActionLogout:
		state.Offers = resetFavorites(state.Offers)
	}
	return state
}

// patchFavorite возвращает копию среза с обновлённым IsFavorite у предложения с тем же ID.
// Если такого предложения нет, возвращается исходный срез.
func patchFavorite(offers []domain.Offer, updated domain.Offer) []domain.Offer {
	for i := range offers {
		if offers[i].ID != updated.ID {
			continue
		}
		patched := make([]domain.Offer, len(offers))
		copy(patched, offers)
		patched[i].IsFavorite = updated.IsFavorite
		return patched
	}
	return offers
}

// resetFavorites снимает все закладки. Если снимать нечего, срез не копируется.
func resetFavorites(offers []domain.Offer) []domain.Offer {
	var reset []domain.Offer
	for i := range offers {
		if !offers[i].IsFavorite {
			continue
		}
		if reset == nil {
			reset = make([]domain.Offer, len(offers))
			copy(reset, offers)
		}
		reset[i].IsFavorite = false
	}
	if reset == nil {
		return offers
	}
	return reset
}

func messageOr(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}
