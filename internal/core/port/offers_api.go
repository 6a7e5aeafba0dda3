package port

import (
	"context"
	"six-cities/internal/core/domain"
)

// OffersAPIPort - контракт клиента бэкенда с предложениями.
// Ошибки не-2xx возвращаются как *domain.RequestError.
type OffersAPIPort interface {
	GetOffers(ctx context.Context) ([]domain.Offer, error)
	GetOffer(ctx context.Context, offerID string) (*domain.OfferDetails, error)
	GetNearbyOffers(ctx context.Context, offerID string) ([]domain.Offer, error)

	GetComments(ctx context.Context, offerID string) ([]domain.Review, error)
	PostComment(ctx context.Context, offerID string, data domain.CommentData) (*domain.Review, error)

	GetFavorites(ctx context.Context) ([]domain.Offer, error)
	SetFavoriteStatus(ctx context.Context, offerID string, status domain.FavoriteStatus) (*domain.Offer, error)

	CheckAuth(ctx context.Context) (*domain.AuthInfo, error)
	Login(ctx context.Context, credentials domain.Credentials) (*domain.AuthInfo, error)
}
