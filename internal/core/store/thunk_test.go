package store

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"six-cities/internal/constants"
	"six-cities/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestStore(api *mockOffersAPI, tokens *fakeTokens) *Store {
	return NewStore(WithExtra(Extra{API: api, Tokens: tokens}))
}

func recordActions(s *Store) *[]Action {
	var actions []Action
	s.Subscribe(func(_ RootState, action Action) {
		actions = append(actions, action)
	})
	return &actions
}

func actionTypes(actions []Action) []ActionType {
	types := make([]ActionType, 0, len(actions))
	for _, a := range actions {
		types = append(types, a.Type)
	}
	return types
}

func TestFetchOffers_Fulfilled(t *testing.T) {
	api := new(mockOffersAPI)
	offers := []domain.Offer{testOffer("1", domain.CityParis, 100, 4)}
	api.On("GetOffers", mock.Anything).Return(offers, nil).Once()

	s := newTestStore(api, &fakeTokens{})
	actions := recordActions(s)

	got, err := FetchOffers.Dispatch(context.Background(), s, struct{}{})

	require.NoError(t, err)
	assert.Equal(t, offers, got)
	assert.Equal(t, offers, s.GetState().Offers.Offers)
	assert.Equal(t, []ActionType{FetchOffers.Pending(), FetchOffers.Fulfilled()}, actionTypes(*actions))
	assert.Equal(t, (*actions)[0].Meta.RequestID, (*actions)[1].Meta.RequestID)
	assert.NotEmpty(t, (*actions)[0].Meta.RequestID)
	api.AssertExpectations(t)
}

func TestFetchOffers_RejectedUsesServerMessage(t *testing.T) {
	api := new(mockOffersAPI)
	api.On("GetOffers", mock.Anything).
		Return(nil, &domain.RequestError{StatusCode: http.StatusBadRequest, Message: "API Error"}).Once()

	s := newTestStore(api, &fakeTokens{})
	_, err := FetchOffers.Dispatch(context.Background(), s, struct{}{})

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "API Error", rejected.Message)
	assert.Equal(t, FetchOffers.Rejected(), rejected.Type)
	assert.Equal(t, "API Error", s.GetState().Offers.Error)
	assert.False(t, s.GetState().Offers.IsLoading)
}

func TestFetchOffers_RejectedUsesFallback(t *testing.T) {
	api := new(mockOffersAPI)
	api.On("GetOffers", mock.Anything).Return(nil, errors.New("dial tcp: timeout")).Once()

	s := newTestStore(api, &fakeTokens{})
	_, err := FetchOffers.Dispatch(context.Background(), s, struct{}{})

	require.Error(t, err)
	assert.Equal(t, constants.ErrFetchOffersFailed, s.GetState().Offers.Error)
}

func TestCheckAuth_Authorized(t *testing.T) {
	api := new(mockOffersAPI)
	user := &domain.AuthInfo{Email: "user@mail.com", Name: "user", Token: "secret"}
	api.On("CheckAuth", mock.Anything).Return(user, nil).Once()

	s := newTestStore(api, &fakeTokens{})
	_, err := CheckAuth.Dispatch(context.Background(), s, struct{}{})

	require.NoError(t, err)
	state := s.GetState()
	assert.Equal(t, domain.AuthStatusAuth, state.Auth.AuthorizationStatus)
	require.NotNil(t, state.Auth.User)
	assert.Equal(t, "user@mail.com", state.Auth.User.Email)
}

func TestCheckAuth_UnauthorizedIsNotRejected(t *testing.T) {
	api := new(mockOffersAPI)
	api.On("CheckAuth", mock.Anything).
		Return(nil, &domain.RequestError{StatusCode: http.StatusUnauthorized}).Once()

	s := newTestStore(api, &fakeTokens{})
	actions := recordActions(s)

	_, err := CheckAuth.Dispatch(context.Background(), s, struct{}{})

	require.NoError(t, err)
	assert.Equal(t, domain.AuthStatusNoAuth, s.GetState().Auth.AuthorizationStatus)
	assert.NotContains(t, actionTypes(*actions), CheckAuth.Rejected())
}

func TestLogin_SavesToken(t *testing.T) {
	api := new(mockOffersAPI)
	creds := domain.Credentials{Email: "user@mail.com", Password: "a1"}
	api.On("Login", mock.Anything, creds).
		Return(&domain.AuthInfo{Email: creds.Email, Token: "tkn"}, nil).Once()

	tokens := &fakeTokens{}
	s := newTestStore(api, tokens)

	user, err := Login.Dispatch(context.Background(), s, creds)

	require.NoError(t, err)
	assert.Equal(t, "tkn", user.Token)
	assert.Equal(t, "tkn", tokens.token)
	assert.Equal(t, domain.AuthStatusAuth, s.GetState().Auth.AuthorizationStatus)
}

func TestLogin_RejectedPropagatesToCaller(t *testing.T) {
	api := new(mockOffersAPI)
	api.On("Login", mock.Anything, mock.Anything).
		Return(nil, &domain.RequestError{StatusCode: http.StatusBadRequest, Message: "Validation error"}).Once()

	tokens := &fakeTokens{}
	s := newTestStore(api, tokens)

	_, err := Login.Dispatch(context.Background(), s, domain.Credentials{Email: "x"})

	require.Error(t, err)
	assert.Equal(t, "Validation error", err.Error())
	assert.Empty(t, tokens.token)
	assert.Equal(t, domain.AuthStatusUnknown, s.GetState().Auth.AuthorizationStatus)
}

func TestLogoutUser_DropsTokenAndResetsAuth(t *testing.T) {
	tokens := &fakeTokens{token: "tkn"}
	s := NewStore(
		WithExtra(Extra{API: new(mockOffersAPI), Tokens: tokens}),
		WithPreloadedState(RootReducer(InitialState(), SetAuthStatus(domain.AuthStatusAuth))),
	)
	actions := recordActions(s)

	_, err := LogoutUser.Dispatch(context.Background(), s, struct{}{})

	require.NoError(t, err)
	assert.Empty(t, tokens.token)
	assert.Equal(t, domain.AuthStatusNoAuth, s.GetState().Auth.AuthorizationStatus)
	assert.Contains(t, actionTypes(*actions), ActionLogout)
}

func TestChangeFavoriteStatus_NotFoundUnwraps(t *testing.T) {
	api := new(mockOffersAPI)
	api.On("SetFavoriteStatus", mock.Anything, "404", domain.FavoriteStatusAdded).
		Return(nil, &domain.RequestError{StatusCode: http.StatusNotFound}).Once()

	s := newTestStore(api, &fakeTokens{})
	_, err := ChangeFavoriteStatus.Dispatch(context.Background(), s, FavoriteStatusArg{OfferID: "404", Status: domain.FavoriteStatusAdded})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, constants.ErrAddToFavoritesFailed, s.GetState().Favorites.Error)
}

func TestSubmitComment_AppendsReview(t *testing.T) {
	api := new(mockOffersAPI)
	r1 := domain.Review{ID: "r1", Rating: 3}
	r2 := domain.Review{ID: "r2", Rating: 5}
	data := domain.CommentData{Comment: "good", Rating: 5}
	api.On("GetComments", mock.Anything, "1").Return([]domain.Review{r1}, nil).Once()
	api.On("PostComment", mock.Anything, "1", data).Return(&r2, nil).Once()

	s := newTestStore(api, &fakeTokens{})
	ctx := context.Background()

	_, err := FetchComments.Dispatch(ctx, s, "1")
	require.NoError(t, err)
	_, err = SubmitComment.Dispatch(ctx, s, SubmitCommentArg{OfferID: "1", Data: data})
	require.NoError(t, err)

	assert.Equal(t, []domain.Review{r1, r2}, s.GetState().Reviews.Comments)
}

func TestAsyncThunk_WithoutAPI(t *testing.T) {
	s := NewStore()

	_, err := FetchFavorites.Dispatch(context.Background(), s, struct{}{})
	require.Error(t, err)
	assert.Equal(t, constants.ErrFetchFavoritesFailed, s.GetState().Favorites.Error)

	_, err = CheckAuth.Dispatch(context.Background(), s, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, domain.AuthStatusNoAuth, s.GetState().Auth.AuthorizationStatus)
}
