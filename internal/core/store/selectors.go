package store

import (
	"six-cities/internal/constants"
	"six-cities/internal/core/domain"
	"six-cities/internal/core/mapper"

	"github.com/mmcloughlin/geohash"
)

const mapPointGeohashPrecision = 7

// MainPageViewModel - всё, что нужно главной странице.
type MainPageViewModel struct {
	CityTab       domain.CityName    `json:"cityTab"`
	Offers        []domain.Offer     `json:"offers"`
	Sorting       domain.SortingType `json:"sorting"`
	IsLoading     bool               `json:"isLoading"`
	Error         string             `json:"error,omitempty"`
	MapCenter     [2]float64         `json:"mapCenter"`
	CenterGeohash string             `json:"centerGeohash"` // ячейка центра карты той же точности, что и у маркеров
	Points        []MapPoint         `json:"points"`
}

// MapPoint - маркер на карте. Geohash позволяет клиенту группировать близкие маркеры.
type MapPoint struct {
	OfferID   string  `json:"offerId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Geohash   string  `json:"geohash"`
}

// FavoritesGroup - избранное одного города.
type FavoritesGroup struct {
	City   domain.CityName        `json:"city"`
	Offers []domain.FavoriteOffer `json:"offers"`
}

// FavoritesPageViewModel - страница избранного.
type FavoritesPageViewModel struct {
	Groups    []FavoritesGroup `json:"groups"`
	Count     int              `json:"count"`
	IsLoading bool             `json:"isLoading"`
	Error     string           `json:"error,omitempty"`
}

// OfferPageViewModel - страница предложения.
type OfferPageViewModel struct {
	Offer               *domain.OfferDetails `json:"offer"`
	TypeLabel           string               `json:"typeLabel,omitempty"`
	RatingWidth         int                  `json:"ratingWidth"`
	NearbyOffers        []domain.Offer       `json:"nearbyOffers"`
	Comments            []domain.Review      `json:"comments"`
	IsOfferLoading      bool                 `json:"isOfferLoading"`
	IsCommentsLoading   bool                 `json:"isCommentsLoading"`
	IsCommentSubmitting bool                 `json:"isCommentSubmitting"`
	Error               string               `json:"error,omitempty"`
	CanReview           bool                 `json:"canReview"`
}

// HeaderUser - публичная часть данных пользователя. Токен сюда не попадает.
type HeaderUser struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
	IsPro     bool   `json:"isPro"`
}

type HeaderViewModel struct {
	AuthorizationStatus domain.AuthorizationStatus `json:"authorizationStatus"`
	User                *HeaderUser                `json:"user"`
	FavoritesCount      int                        `json:"favoritesCount"`
}

// Базовые селекторы: простое чтение полей

func SelectCityTab(state RootState) domain.CityName          { return state.Offers.CityTab }
func SelectOffers(state RootState) []domain.Offer            { return state.Offers.Offers }
func SelectSorting(state RootState) domain.SortingType       { return state.Offers.Sorting }
func SelectIsLoading(state RootState) bool                   { return state.Offers.IsLoading }
func SelectOffersError(state RootState) string               { return state.Offers.Error }
func SelectFavorites(state RootState) []domain.FavoriteOffer { return state.Favorites.Favorites }

func SelectAuthorizationStatus(state RootState) domain.AuthorizationStatus {
	return state.Auth.AuthorizationStatus
}

type cityOffersInput struct {
	offers []domain.Offer
	city   domain.CityName
}

type sortedOffersInput struct {
	offers  []domain.Offer
	sorting domain.SortingType
}

type mainPageInput struct {
	cityTab   domain.CityName
	offers    []domain.Offer
	sorting   domain.SortingType
	isLoading bool
	err       string
	mapCenter [2]float64
	points    []MapPoint
}

type offerPageInput struct {
	details  OfferDetailsState
	reviews  ReviewsState
	isAuthed bool
}

type favoritesPageInput struct {
	groups    []FavoritesGroup
	count     int
	isLoading bool
	err       string
}

type headerInput struct {
	auth           AuthState
	favoritesCount int
}

// Selectors - мемоизированные селекторы одного хранилища.
// У каждой сессии свой экземпляр, чтобы кэши не вытесняли друг друга.
type Selectors struct {
	cityOffers      *memo[cityOffersInput, []domain.Offer]
	sortedOffers    *memo[sortedOffersInput, []domain.Offer]
	mapCenter       *memo[[]domain.Offer, [2]float64]
	mapPoints       *memo[[]domain.Offer, []MapPoint]
	mainPage        *memo[mainPageInput, MainPageViewModel]
	favoritesCount  *memo[[]domain.FavoriteOffer, int]
	favoritesByCity *memo[[]domain.FavoriteOffer, []FavoritesGroup]
	favoritesPage   *memo[favoritesPageInput, FavoritesPageViewModel]
	offerPage       *memo[offerPageInput, OfferPageViewModel]
	header          *memo[headerInput, HeaderViewModel]
}

func NewSelectors() *Selectors {
	return &Selectors{
		cityOffers: newMemo(func(a, b cityOffersInput) bool {
			return a.city == b.city && sameSlice(a.offers, b.offers)
		}, computeCityOffers),
		sortedOffers: newMemo(func(a, b sortedOffersInput) bool {
			return a.sorting == b.sorting && sameSlice(a.offers, b.offers)
		}, func(in sortedOffersInput) []domain.Offer {
			return mapper.SortOffers(in.offers, in.sorting)
		}),
		mapCenter:       newMemo(sameSlice[domain.Offer], computeMapCenter),
		mapPoints:       newMemo(sameSlice[domain.Offer], computeMapPoints),
		mainPage:        newMemo(equalMainPageInput, computeMainPage),
		favoritesCount:  newMemo(sameSlice[domain.FavoriteOffer], func(f []domain.FavoriteOffer) int { return len(f) }),
		favoritesByCity: newMemo(sameSlice[domain.FavoriteOffer], computeFavoritesByCity),
		favoritesPage: newMemo(func(a, b favoritesPageInput) bool {
			return a.count == b.count && a.isLoading == b.isLoading && a.err == b.err && sameSlice(a.groups, b.groups)
		}, func(in favoritesPageInput) FavoritesPageViewModel {
			return FavoritesPageViewModel{Groups: in.groups, Count: in.count, IsLoading: in.isLoading, Error: in.err}
		}),
		offerPage: newMemo(equalOfferPageInput, computeOfferPage),
		header: newMemo(func(a, b headerInput) bool {
			return a.auth.AuthorizationStatus == b.auth.AuthorizationStatus &&
				a.auth.User == b.auth.User &&
				a.favoritesCount == b.favoritesCount
		}, computeHeader),
	}
}

// CityOffers - предложения выбранного города в исходном порядке.
func (s *Selectors) CityOffers(state RootState) []domain.Offer {
	return s.cityOffers.get(cityOffersInput{offers: SelectOffers(state), city: SelectCityTab(state)})
}

// SortedOffers - предложения города в выбранном порядке сортировки.
func (s *Selectors) SortedOffers(state RootState) []domain.Offer {
	return s.sortedOffers.get(sortedOffersInput{offers: s.CityOffers(state), sorting: SelectSorting(state)})
}

// MapCenter - координаты первого отсортированного предложения или центр по умолчанию.
func (s *Selectors) MapCenter(state RootState) [2]float64 {
	return s.mapCenter.get(s.SortedOffers(state))
}

func (s *Selectors) MapPoints(state RootState) []MapPoint {
	return s.mapPoints.get(s.SortedOffers(state))
}

func (s *Selectors) MainPage(state RootState) MainPageViewModel {
	return s.mainPage.get(mainPageInput{
		cityTab:   SelectCityTab(state),
		offers:    s.SortedOffers(state),
		sorting:   SelectSorting(state),
		isLoading: SelectIsLoading(state),
		err:       SelectOffersError(state),
		mapCenter: s.MapCenter(state),
		points:    s.MapPoints(state),
	})
}

func (s *Selectors) FavoritesCount(state RootState) int {
	return s.favoritesCount.get(SelectFavorites(state))
}

// FavoritesByCity группирует избранное по городам в порядке первого появления города.
func (s *Selectors) FavoritesByCity(state RootState) []FavoritesGroup {
	return s.favoritesByCity.get(SelectFavorites(state))
}

func (s *Selectors) FavoritesPage(state RootState) FavoritesPageViewModel {
	return s.favoritesPage.get(favoritesPageInput{
		groups:    s.FavoritesByCity(state),
		count:     s.FavoritesCount(state),
		isLoading: state.Favorites.IsLoading,
		err:       state.Favorites.Error,
	})
}

func (s *Selectors) OfferPage(state RootState) OfferPageViewModel {
	return s.offerPage.get(offerPageInput{
		details:  state.OfferDetails,
		reviews:  state.Reviews,
		isAuthed: SelectAuthorizationStatus(state) == domain.AuthStatusAuth,
	})
}

func (s *Selectors) Header(state RootState) HeaderViewModel {
	return s.header.get(headerInput{auth: state.Auth, favoritesCount: s.FavoritesCount(state)})
}

// Recomputations возвращает число пересчётов по имени селектора.
// По изменению счётчиков сессия понимает, какие view-model отправить в браузер.
func (s *Selectors) Recomputations() map[string]int {
	return map[string]int{
		"cityOffers":      s.cityOffers.count(),
		"sortedOffers":    s.sortedOffers.count(),
		"mapCenter":       s.mapCenter.count(),
		"mapPoints":       s.mapPoints.count(),
		"mainPage":        s.mainPage.count(),
		"favoritesCount":  s.favoritesCount.count(),
		"favoritesByCity": s.favoritesByCity.count(),
		"favoritesPage":   s.favoritesPage.count(),
		"offerPage":       s.offerPage.count(),
		"header":          s.header.count(),
	}
}

func computeCityOffers(in cityOffersInput) []domain.Offer {
	filtered := make([]domain.Offer, 0, len(in.offers))
	for _, offer := range in.offers {
		if offer.City.Name == in.city {
			filtered = append(filtered, offer)
		}
	}
	return filtered
}

func computeMapCenter(offers []domain.Offer) [2]float64 {
	if len(offers) == 0 {
		return constants.DefaultMapCenter
	}
	return mapper.FirstLocation(offers[0])
}

func computeMapPoints(offers []domain.Offer) []MapPoint {
	points := make([]MapPoint, 0, len(offers))
	for _, offer := range offers {
		lat, lng := offer.Location.Latitude, offer.Location.Longitude
		points = append(points, MapPoint{
			OfferID:   offer.ID,
			Latitude:  lat,
			Longitude: lng,
			Geohash:   geohash.Encode(lat, lng)[:mapPointGeohashPrecision],
		})
	}
	return points
}

func equalMainPageInput(a, b mainPageInput) bool {
	return a.cityTab == b.cityTab &&
		a.sorting == b.sorting &&
		a.isLoading == b.isLoading &&
		a.err == b.err &&
		a.mapCenter == b.mapCenter &&
		sameSlice(a.offers, b.offers) &&
		sameSlice(a.points, b.points)
}

func computeMainPage(in mainPageInput) MainPageViewModel {
	return MainPageViewModel{
		CityTab:       in.cityTab,
		Offers:        in.offers,
		Sorting:       in.sorting,
		IsLoading:     in.isLoading,
		Error:         in.err,
		MapCenter:     in.mapCenter,
		CenterGeohash: geohash.Encode(in.mapCenter[0], in.mapCenter[1])[:mapPointGeohashPrecision],
		Points:        in.points,
	}
}

// computeFavoritesByCity группирует избранное в порядке вкладок городов. Пустые города пропускаются.
func computeFavoritesByCity(favorites []domain.FavoriteOffer) []FavoritesGroup {
	byCity := make(map[domain.CityName][]domain.FavoriteOffer)
	for _, fav := range favorites {
		byCity[fav.City] = append(byCity[fav.City], fav)
	}
	groups := make([]FavoritesGroup, 0, len(byCity))
	for _, city := range domain.Cities {
		if offers, ok := byCity[city]; ok {
			groups = append(groups, FavoritesGroup{City: city, Offers: offers})
		}
	}
	return groups
}

func equalOfferPageInput(a, b offerPageInput) bool {
	return a.isAuthed == b.isAuthed &&
		a.details.CurrentOffer == b.details.CurrentOffer &&
		a.details.IsOfferLoading == b.details.IsOfferLoading &&
		a.details.Error == b.details.Error &&
		sameSlice(a.details.NearbyOffers, b.details.NearbyOffers) &&
		a.reviews.IsCommentsLoading == b.reviews.IsCommentsLoading &&
		a.reviews.IsCommentSubmitting == b.reviews.IsCommentSubmitting &&
		sameSlice(a.reviews.Comments, b.reviews.Comments)
}

func computeOfferPage(in offerPageInput) OfferPageViewModel {
	vm := OfferPageViewModel{
		Offer:               in.details.CurrentOffer,
		NearbyOffers:        in.details.NearbyOffers,
		Comments:            in.reviews.Comments,
		IsOfferLoading:      in.details.IsOfferLoading,
		IsCommentsLoading:   in.reviews.IsCommentsLoading,
		IsCommentSubmitting: in.reviews.IsCommentSubmitting,
		Error:               in.details.Error,
		CanReview:           in.isAuthed,
	}
	if offer := in.details.CurrentOffer; offer != nil {
		vm.TypeLabel = mapper.CapitalizeFirst(offer.Type)
		vm.RatingWidth = mapper.RatingWidth(offer.Rating)
	}
	return vm
}

func computeHeader(in headerInput) HeaderViewModel {
	vm := HeaderViewModel{
		AuthorizationStatus: in.auth.AuthorizationStatus,
		FavoritesCount:      in.favoritesCount,
	}
	if user := in.auth.User; user != nil {
		vm.User = &HeaderUser{
			Name:      user.Name,
			Email:     user.Email,
			AvatarURL: user.AvatarURL,
			IsPro:     user.IsPro,
		}
	}
	return vm
}
