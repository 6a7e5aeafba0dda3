package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"six-cities/internal/constants"
	"six-cities/internal/contextkeys"
	"six-cities/internal/core/domain"
	"six-cities/internal/core/port"
	"six-cities/internal/core/session"
	"six-cities/internal/core/store"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// Handlers - HTTP-обработчики BFF. Каждый работает с хранилищем своей сессии,
// логгер запроса берётся из контекста (его кладёт LoggerMiddleware).
type Handlers struct{}

func NewHandlers() *Handlers {
	return &Handlers{}
}

// mustSession достаёт сессию, положенную SessionMiddleware.
func mustSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := sessionFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusInternalServerError, "Session is not available")
	}
	return s, ok
}

func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func mainPageResponse(s *session.Session) MainPageResponse {
	options := make([]SortingOption, 0, len(domain.SortingTypes))
	for _, sorting := range domain.SortingTypes {
		options = append(options, SortingOption{Value: sorting, Label: constants.SortingLabels[sorting]})
	}
	return MainPageResponse{
		MainPageViewModel: s.Selectors.MainPage(s.Store.GetState()),
		Cities:            domain.Cities,
		SortingOptions:    options,
	}
}

func offerPageResponse(s *session.Session) OfferPageResponse {
	ratings := make([]RatingOption, 0, constants.MaxReviewRating)
	for value := constants.MaxReviewRating; value >= constants.MinReviewRating; value-- {
		ratings = append(ratings, RatingOption{Value: value, Title: constants.RatingTitles[value]})
	}
	return OfferPageResponse{
		OfferPageViewModel: s.Selectors.OfferPage(s.Store.GetState()),
		RatingOptions:      ratings,
		MinCommentLength:   constants.MinCommentLength,
		MaxCommentLength:   constants.MaxCommentLength,
	}
}

// GetMainPage GET /main[?refresh=1]
// Список загружается при первом заходе или по явному запросу.
func (h *Handlers) GetMainPage(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(w, r)
	if !ok {
		return
	}
	offersState := s.Store.GetState().Offers
	firstVisit := len(offersState.Offers) == 0 && !offersState.IsLoading && offersState.Error == ""
	if firstVisit || r.URL.Query().Get("refresh") == "1" {
		// ошибка уже лежит в состоянии и попадёт в view-model
		if _, err := store.FetchOffers.Dispatch(r.Context(), s.Store, struct{}{}); err != nil {
			contextkeys.LoggerFromContext(r.Context()).Warn("Failed to fetch offers", port.Fields{"error": err.Error()})
		}
	}
	RespondWithJSON(w, http.StatusOK, mainPageResponse(s))
}

// ChangeCity PUT /main/city
func (h *Handlers) ChangeCity(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(w, r)
	if !ok {
		return
	}
	var req ChangeCityRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.City.IsValid() {
		WriteJSONError(w, http.StatusBadRequest, "Unknown city: "+string(req.City))
		return
	}
	s.Store.Dispatch(store.ChangeCity(req.City))
	RespondWithJSON(w, http.StatusOK, mainPageResponse(s))
}

// ChangeSorting PUT /main/sorting
func (h *Handlers) ChangeSorting(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(w, r)
	if !ok {
		return
	}
	var req ChangeSortingRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Sorting.IsValid() {
		WriteJSONError(w, http.StatusBadRequest, "Unknown sorting: "+string(req.Sorting))
		return
	}
	s.Store.Dispatch(store.ChangeSorting(req.Sorting))
	RespondWithJSON(w, http.StatusOK, mainPageResponse(s))
}

// ClearOffersError DELETE /main/error
func (h *Handlers) ClearOffersError(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(w, r)
	if !ok {
		return
	}
	s.Store.Dispatch(store.ClearOffersError())
	RespondWithJSON(w, http.StatusOK, mainPageResponse(s))
}

// GetOfferPage GET /offers/{id}
// Детали, соседние предложения и отзывы грузятся параллельно.
// Ошибки соседей и отзывов не мешают показать страницу.
func (h *Handlers) GetOfferPage(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(w, r)
	if !ok {
		return
	}
	offerID := chi.URLParam(r, "id")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"offer_id": offerID})

	var g errgroup.Group
	g.Go(func() error {
		_, err := store.FetchOfferDetails.Dispatch(r.Context(), s.Store, offerID)
		return err
	})
	g.Go(func() error {
		if _, err := store.FetchNearbyOffers.Dispatch(r.Context(), s.Store, offerID); err != nil {
			logger.Warn("Failed to fetch nearby offers", port.Fields{"error": err.Error()})
		}
		return nil
	})
	g.Go(func() error {
		if _, err := store.FetchComments.Dispatch(r.Context(), s.Store, offerID); err != nil {
			logger.Warn("Failed to fetch comments", port.Fields{"error": err.Error()})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			WriteJSONError(w, http.StatusNotFound, "Offer not found")
			return
		}
		logger.Error("Failed to fetch offer", err, nil)
		writeRejection(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, offerPageResponse(s))
}

// validateComment проверяет форму отзыва: оценка 1..5, текст 50..300 символов.
func validateComment(req CommentRequest) error {
	if req.Rating < constants.MinReviewRating || req.Rating > constants.MaxReviewRating {
		return errors.New("rating must be between 1 and 5")
	}
	length := utf8.RuneCountInString(strings.TrimSpace(req.Comment))
	if length < constants.MinCommentLength || length > constants.MaxCommentLength {
		return errors.New("comment must be between 50 and 300 characters")
	}
	return nil
}

// PostComment POST /offers/{id}/comments
func (h *Handlers) PostComment(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(w, r)
	if !ok {
		return
	}
	var req CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validateComment(req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	arg := store.SubmitCommentArg{
		OfferID: chi.URLParam(r, "id"),
		Data:    domain.CommentData{Comment: req.Comment, Rating: req.Rating},
	}
	review, err := store.SubmitComment.Dispatch(r.Context(), s.Store, arg)
	if err != nil {
		writeRejection(w, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, CommentCreatedResponse{
		Review:   review,
		Comments: s.Store.GetState().Reviews.Comments,
	})
}

// GetFavorites GET /favorites
func (h *Handlers) GetFavorites(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(w, r)
	if !ok {
		return
	}
	if _, err := store.FetchFavorites.Dispatch(r.Context(), s.Store, struct{}{}); err != nil {
		contextkeys.LoggerFromContext(r.Context()).Warn("Failed to fetch favorites", port.Fields{"error": err.Error()})
	}
	RespondWithJSON(w, http.StatusOK, s.Selectors.FavoritesPage(s.Store.GetState()))
}

// ChangeFavoriteStatus POST /favorites/{id}/{status}
func (h *Handlers) ChangeFavoriteStatus(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(w, r)
	if !ok {
		return
	}
	status, valid := domain.ParseFavoriteStatus(chi.URLParam(r, "status"))
	if !valid {
		WriteJSONError(w, http.StatusBadRequest, "Status must be 0 or 1")
		return
	}
	arg := store.FavoriteStatusArg{OfferID: chi.URLParam(r, "id"), Status: status}
	offer, err := store.ChangeFavoriteStatus.Dispatch(r.Context(), s.Store, arg)
	if err != nil {
		writeRejection(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, offer)
}

// ClearFavoritesError DELETE /favorites/error
func (h *Handlers) ClearFavoritesError(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(w, r)
	if !ok {
		return
	}
	s.Store.Dispatch(store.ClearFavoritesError())
	RespondWithJSON(w, http.StatusOK, s.Selectors.FavoritesPage(s.Store.GetState()))
}

// GetAuth GET /auth
func (h *Handlers) GetAuth(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(w, r)
	if !ok {
		return
	}
	RespondWithJSON(w, http.StatusOK, s.Selectors.Header(s.Store.GetState()))
}

// Login POST /auth/login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(w, r)
	if !ok {
		return
	}
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		WriteJSONError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	credentials := domain.Credentials{Email: req.Email, Password: req.Password}
	if _, err := store.Login.Dispatch(r.Context(), s.Store, credentials); err != nil {
		contextkeys.LoggerFromContext(r.Context()).Warn("Login failed", port.Fields{"email": req.Email, "error": err.Error()})
		writeRejection(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, s.Selectors.Header(s.Store.GetState()))
}

// Logout POST /auth/logout
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := mustSession(w, r)
	if !ok {
		return
	}
	// LogoutUser не завершается ошибкой: токен удаляется в любом случае
	_, _ = store.LogoutUser.Dispatch(r.Context(), s.Store, struct{}{})
	RespondWithJSON(w, http.StatusOK, s.Selectors.Header(s.Store.GetState()))
}
