package store

// RootState - состояние всех слайсов. Каждый слайс владеет своей копией данных,
// согласованность между ними поддерживают редьюсеры, слушающие одно и то же действие.
type RootState struct {
	Offers       OffersState
	OfferDetails OfferDetailsState
	Reviews      ReviewsState
	Auth         AuthState
	Favorites    FavoritesState
}

// InitialState возвращает состояние нового хранилища.
func InitialState() RootState {
	return RootState{
		Offers:       initialOffersState(),
		OfferDetails: initialOfferDetailsState(),
		Reviews:      initialReviewsState(),
		Auth:         initialAuthState(),
		Favorites:    initialFavoritesState(),
	}
}

// RootReducer передаёт действие каждому слайсу. Слайс сам решает, касается ли оно его.
func RootReducer(state RootState, action Action) RootState {
	return RootState{
		Offers:       offersReducer(state.Offers, action),
		OfferDetails: offerDetailsReducer(state.OfferDetails, action),
		Reviews:      reviewsReducer(state.Reviews, action),
		Auth:         authReducer(state.Auth, action),
		Favorites:    favoritesReducer(state.Favorites, action),
	}
}
