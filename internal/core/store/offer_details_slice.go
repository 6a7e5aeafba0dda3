package store

import (
	"six-cities/internal/constants"
	"six-cities/internal/core/domain"
)

// OfferDetailsState - текущее открытое предложение и предложения неподалёку.
// Запросы деталей и соседей независимы друг от друга.
type OfferDetailsState struct {
	CurrentOffer   *domain.OfferDetails
	NearbyOffers   []domain.Offer
	IsOfferLoading bool
	Error          string

	// request id последних запущенных запросов; ответы на более старые отбрасываются
	offerRequestID  string
	nearbyRequestID string
}

func initialOfferDetailsState() OfferDetailsState {
	return OfferDetailsState{
		NearbyOffers: []domain.Offer{},
	}
}

func offerDetailsReducer(state OfferDetailsState, action Action) OfferDetailsState {
	switch action.Type {
	case FetchOfferDetails.Pending():
		state.IsOfferLoading = true
		state.CurrentOffer = nil
		state.Error = ""
		state.offerRequestID = action.Meta.RequestID
	case FetchOfferDetails.Fulfilled():
		if action.Meta.RequestID != state.offerRequestID {
			return state
		}
		state.IsOfferLoading = false
		state.Error = ""
		if offer, ok := action.Payload.(domain.OfferDetails); ok {
			state.CurrentOffer = &offer
		}
	case FetchOfferDetails.Rejected():
		if action.Meta.RequestID != state.offerRequestID {
			return state
		}
		state.IsOfferLoading = false
		state.CurrentOffer = nil
		state.Error = messageOr(action.Error, constants.ErrFetchOfferFailed)

	case FetchNearbyOffers.Pending():
		state.nearbyRequestID = action.Meta.RequestID
	case FetchNearbyOffers.Fulfilled():
		if action.Meta.RequestID != state.nearbyRequestID {
			return state
		}
		if offers, ok := action.Payload.([]domain.Offer); ok {
			state.NearbyOffers = offers
		}

	case ChangeFavoriteStatus.Fulfilled():
		updated, ok := action.Payload.(domain.Offer)
		if !ok {
			return state
		}
		// Оба поиска допускают "не найдено" - это нормальный случай
		if state.CurrentOffer != nil && state.CurrentOffer.ID == updated.ID {
			current := *state.CurrentOffer
			current.IsFavorite = updated.IsFavorite
			state.CurrentOffer = &current
		}
		state.NearbyOffers = patchFavorite(state.NearbyOffers, updated)

	case ActionLogout:
		if state.CurrentOffer != nil && state.CurrentOffer.IsFavorite {
			current := *state.CurrentOffer
			current.IsFavorite = false
			state.CurrentOffer = &current
		}
		state.NearbyOffers = resetFavorites(state.NearbyOffers)
	}
	return state
}
