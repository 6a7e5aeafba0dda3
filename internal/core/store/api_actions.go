package store

import (
	"context"
	"errors"
	"fmt"

	"six-cities/internal/constants"
	"six-cities/internal/core/domain"
	"six-cities/internal/core/port"
)

var errAPINotConfigured = errors.New("offers api is not configured")

// FavoriteStatusArg - аргумент переключения закладки.
type FavoriteStatusArg struct {
	OfferID string
	Status  domain.FavoriteStatus
}

var FetchOffers = NewAsyncThunk[struct{}, []domain.Offer](
	"offers/fetchOffers", constants.ErrFetchOffersFailed,
	func(ctx context.Context, _ struct{}, api ThunkAPI) ([]domain.Offer, error) {
		if api.Extra.API == nil {
			return nil, errAPINotConfigured
		}
		return api.Extra.API.GetOffers(ctx)
	},
)

// CheckAuth никогда не завершается rejected: любая ошибка означает NO_AUTH.
var CheckAuth = NewAsyncThunk[struct{}, struct{}](
	"user/checkAuth", "",
	func(ctx context.Context, _ struct{}, api ThunkAPI) (struct{}, error) {
		if api.Extra.API == nil {
			api.Dispatch(SetAuthStatus(domain.AuthStatusNoAuth))
			return struct{}{}, nil
		}
		user, err := api.Extra.API.CheckAuth(ctx)
		if err != nil {
			api.Logger.Info("Session is not authorized", port.Fields{"reason": err.Error()})
			api.Dispatch(SetAuthStatus(domain.AuthStatusNoAuth))
			return struct{}{}, nil
		}
		api.Dispatch(SetUser(user))
		api.Dispatch(SetAuthStatus(domain.AuthStatusAuth))
		return struct{}{}, nil
	},
)

var Login = NewAsyncThunk[domain.Credentials, domain.AuthInfo](
	"user/login", constants.ErrLoginFailed,
	func(ctx context.Context, credentials domain.Credentials, api ThunkAPI) (domain.AuthInfo, error) {
		if api.Extra.API == nil {
			return domain.AuthInfo{}, errAPINotConfigured
		}
		user, err := api.Extra.API.Login(ctx, credentials)
		if err != nil {
			return domain.AuthInfo{}, err
		}
		if api.Extra.Tokens != nil {
			if err := api.Extra.Tokens.SaveToken(ctx, user.Token); err != nil {
				return domain.AuthInfo{}, fmt.Errorf("failed to save token: %w", err)
			}
		}
		api.Dispatch(SetUser(user))
		api.Dispatch(SetAuthStatus(domain.AuthStatusAuth))
		return *user, nil
	},
)

// LogoutUser удаляет токен и сбрасывает пользовательские данные одним действием Logout.
var LogoutUser = NewAsyncThunk[struct{}, struct{}](
	"user/logout", "",
	func(ctx context.Context, _ struct{}, api ThunkAPI) (struct{}, error) {
		if api.Extra.Tokens != nil {
			if err := api.Extra.Tokens.DropToken(ctx); err != nil {
				api.Logger.Error("Failed to drop token", err, nil)
			}
		}
		api.Dispatch(Logout())
		return struct{}{}, nil
	},
)

var FetchOfferDetails = NewAsyncThunk[string, domain.OfferDetails](
	"offer/fetchDetails", constants.ErrFetchOfferFailed,
	func(ctx context.Context, offerID string, api ThunkAPI) (domain.OfferDetails, error) {
		if api.Extra.API == nil {
			return domain.OfferDetails{}, errAPINotConfigured
		}
		offer, err := api.Extra.API.GetOffer(ctx, offerID)
		if err != nil {
			return domain.OfferDetails{}, err
		}
		return *offer, nil
	},
)

var FetchNearbyOffers = NewAsyncThunk[string, []domain.Offer](
	"offer/fetchNearby", constants.ErrFetchNearbyFailed,
	func(ctx context.Context, offerID string, api ThunkAPI) ([]domain.Offer, error) {
		if api.Extra.API == nil {
			return nil, errAPINotConfigured
		}
		return api.Extra.API.GetNearbyOffers(ctx, offerID)
	},
)

var FetchComments = NewAsyncThunk[string, []domain.Review](
	"offer/fetchComments", constants.ErrFetchCommentsFailed,
	func(ctx context.Context, offerID string, api ThunkAPI) ([]domain.Review, error) {
		if api.Extra.API == nil {
			return nil, errAPINotConfigured
		}
		return api.Extra.API.GetComments(ctx, offerID)
	},
)

var SubmitComment = NewAsyncThunk[SubmitCommentArg, domain.Review](
	"offer/submitComment", constants.ErrSubmitCommentFailed,
	func(ctx context.Context, arg SubmitCommentArg, api ThunkAPI) (domain.Review, error) {
		if api.Extra.API == nil {
			return domain.Review{}, errAPINotConfigured
		}
		review, err := api.Extra.API.PostComment(ctx, arg.OfferID, arg.Data)
		if err != nil {
			return domain.Review{}, err
		}
		return *review, nil
	},
)

var FetchFavorites = NewAsyncThunk[struct{}, []domain.Offer](
	"favorites/fetchFavorites", constants.ErrFetchFavoritesFailed,
	func(ctx context.Context, _ struct{}, api ThunkAPI) ([]domain.Offer, error) {
		if api.Extra.API == nil {
			return nil, errAPINotConfigured
		}
		return api.Extra.API.GetFavorites(ctx)
	},
)

// ChangeFavoriteStatus возвращает предложение в новом состоянии.
// Его fulfilled-действие слушают слайсы offers, offerDetails и favorites.
var ChangeFavoriteStatus = NewAsyncThunk[FavoriteStatusArg, domain.Offer](
	"favorites/changeFavoriteStatus", constants.ErrAddToFavoritesFailed,
	func(ctx context.Context, arg FavoriteStatusArg, api ThunkAPI) (domain.Offer, error) {
		if api.Extra.API == nil {
			return domain.Offer{}, errAPINotConfigured
		}
		offer, err := api.Extra.API.SetFavoriteStatus(ctx, arg.OfferID, arg.Status)
		if err != nil {
			return domain.Offer{}, err
		}
		return *offer, nil
	},
)
