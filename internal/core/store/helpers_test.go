package store

import (
	"context"
	"sync"

	"six-cities/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type mockOffersAPI struct {
	mock.Mock
}

func (m *mockOffersAPI) GetOffers(ctx context.Context) ([]domain.Offer, error) {
	args := m.Called(ctx)
	offers, _ := args.Get(0).([]domain.Offer)
	return offers, args.Error(1)
}

func (m *mockOffersAPI) GetOffer(ctx context.Context, offerID string) (*domain.OfferDetails, error) {
	args := m.Called(ctx, offerID)
	offer, _ := args.Get(0).(*domain.OfferDetails)
	return offer, args.Error(1)
}

func (m *mockOffersAPI) GetNearbyOffers(ctx context.Context, offerID string) ([]domain.Offer, error) {
	args := m.Called(ctx, offerID)
	offers, _ := args.Get(0).([]domain.Offer)
	return offers, args.Error(1)
}

func (m *mockOffersAPI) GetComments(ctx context.Context, offerID string) ([]domain.Review, error) {
	args := m.Called(ctx, offerID)
	reviews, _ := args.Get(0).([]domain.Review)
	return reviews, args.Error(1)
}

func (m *mockOffersAPI) PostComment(ctx context.Context, offerID string, data domain.CommentData) (*domain.Review, error) {
	args := m.Called(ctx, offerID, data)
	review, _ := args.Get(0).(*domain.Review)
	return review, args.Error(1)
}

func (m *mockOffersAPI) GetFavorites(ctx context.Context) ([]domain.Offer, error) {
	args := m.Called(ctx)
	offers, _ := args.Get(0).([]domain.Offer)
	return offers, args.Error(1)
}

func (m *mockOffersAPI) SetFavoriteStatus(ctx context.Context, offerID string, status domain.FavoriteStatus) (*domain.Offer, error) {
	args := m.Called(ctx, offerID, status)
	offer, _ := args.Get(0).(*domain.Offer)
	return offer, args.Error(1)
}

func (m *mockOffersAPI) CheckAuth(ctx context.Context) (*domain.AuthInfo, error) {
	args := m.Called(ctx)
	user, _ := args.Get(0).(*domain.AuthInfo)
	return user, args.Error(1)
}

func (m *mockOffersAPI) Login(ctx context.Context, credentials domain.Credentials) (*domain.AuthInfo, error) {
	args := m.Called(ctx, credentials)
	user, _ := args.Get(0).(*domain.AuthInfo)
	return user, args.Error(1)
}

type fakeTokens struct {
	mu    sync.Mutex
	token string
}

func (f *fakeTokens) GetToken(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, nil
}

func (f *fakeTokens) SaveToken(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	return nil
}

func (f *fakeTokens) DropToken(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	return nil
}

func testOffer(id string, city domain.CityName, price int, rating float64) domain.Offer {
	return domain.Offer{
		ID:           id,
		Title:        "Offer " + id,
		Type:         "apartment",
		Price:        price,
		PreviewImage: "img/" + id + ".jpg",
		Rating:       rating,
		City:         domain.City{Name: city, Location: domain.Location{Latitude: 48.85661, Longitude: 2.351499, Zoom: 13}},
		Location:     domain.Location{Latitude: 48.8 + float64(price)/10000, Longitude: 2.35, Zoom: 16},
	}
}

func fulfilled(actionType ActionType, payload interface{}) Action {
	return Action{Type: actionType, Payload: payload}
}
