package domain

// Location - точка на карте вместе с масштабом.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      int     `json:"zoom"`
}

// City - город предложения и его центр на карте.
type City struct {
	Name     CityName `json:"name"`
	Location Location `json:"location"`
}

// Offer - карточка предложения об аренде в списке и на карте.
type Offer struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Type         string   `json:"type"`
	Price        int      `json:"price"`
	PreviewImage string   `json:"previewImage"`
	Rating       float64  `json:"rating"` // 0..5, непрерывная
	IsPremium    bool     `json:"isPremium"`
	IsFavorite   bool     `json:"isFavorite"`
	City         City     `json:"city"`
	Location     Location `json:"location"`
}

// Host - владелец предложения.
type Host struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	IsPro     bool   `json:"isPro"`
}

// OfferDetails - полное описание предложения для страницы оффера.
// Надмножество Offer.
type OfferDetails struct {
	Offer
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Goods       []string `json:"goods"`
	Host        Host     `json:"host"`
	Bedrooms    int      `json:"bedrooms"`
	MaxAdults   int      `json:"maxAdults"`
}

// FavoriteOffer - сокращённая проекция Offer для списка избранного.
// Всегда получается из Offer через mapper.MapOfferToFavorite.
type FavoriteOffer struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Type          string   `json:"type"`
	Price         int      `json:"price"`
	Image         string   `json:"image"`
	RatingPercent int      `json:"ratingPercent"`
	IsPremium     bool     `json:"isPremium"`
	City          CityName `json:"city"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
}

// FavoriteStatus - желаемое состояние закладки, которое уходит на сервер как 0/1.
type FavoriteStatus int

const (
	FavoriteStatusRemoved FavoriteStatus = 0
	FavoriteStatusAdded   FavoriteStatus = 1
)

// ParseFavoriteStatus принимает только "0" и "1".
func ParseFavoriteStatus(s string) (FavoriteStatus, bool) {
	switch s {
	case "0":
		return FavoriteStatusRemoved, true
	case "1":
		return FavoriteStatusAdded, true
	default:
		return 0, false
	}
}
