package store

import (
	"six-cities/internal/constants"
	"six-cities/internal/core/domain"
	"six-cities/internal/core/mapper"
)

// FavoritesState - избранное пользователя в виде проекций FavoriteOffer.
type FavoritesState struct {
	Favorites []domain.FavoriteOffer
	IsLoading bool
	Error     string
}

func initialFavoritesState() FavoritesState {
	return FavoritesState{
		Favorites: []domain.FavoriteOffer{},
	}
}

func favoritesReducer(state FavoritesState, action Action) FavoritesState {
	switch action.Type {
	case ActionClearFavoritesError:
		state.Error = ""

	case FetchFavorites.Pending():
		state.IsLoading = true
		state.Error = ""
	case FetchFavorites.Fulfilled():
		state.IsLoading = false
		if offers, ok := action.Payload.([]domain.Offer); ok {
			state.Favorites = mapper.MapOffersToFavorites(offers)
		}
	case FetchFavorites.Rejected():
		state.IsLoading = false
		state.Error = messageOr(action.Error, constants.ErrFetchFavoritesFailed)

	case ChangeFavoriteStatus.Pending():
		state.Error = ""
	case ChangeFavoriteStatus.Fulfilled():
		updated, ok := action.Payload.(domain.Offer)
		if !ok {
			return state
		}
		if updated.IsFavorite {
			state.Favorites = addFavorite(state.Favorites, updated)
		} else {
			state.Favorites = removeFavorite(state.Favorites, updated.ID)
		}
	case ChangeFavoriteStatus.Rejected():
		state.Error = messageOr(action.Error, constants.ErrAddToFavoritesFailed)

	case ActionLogout:
		state.Favorites = []domain.FavoriteOffer{}
	}
	return state
}

// addFavorite идемпотентен: повторное добавление того же ID ничего не меняет.
func addFavorite(favorites []domain.FavoriteOffer, offer domain.Offer) []domain.FavoriteOffer {
	for _, fav := range favorites {
		if fav.ID == offer.ID {
			return favorites
		}
	}
	added := make([]domain.FavoriteOffer, len(favorites), len(favorites)+1)
	copy(added, favorites)
	return append(added, mapper.MapOfferToFavorite(offer))
}

func removeFavorite(favorites []domain.FavoriteOffer, offerID string) []domain.FavoriteOffer {
	index := -1
	for i, fav := range favorites {
		if fav.ID == offerID {
			index = i
			break
		}
	}
	if index == -1 {
		return favorites
	}
	removed := make([]domain.FavoriteOffer, 0, len(favorites)-1)
	removed = append(removed, favorites[:index]...)
	return append(removed, favorites[index+1:]...)
}
