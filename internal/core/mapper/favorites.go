package mapper

import (
	"math"
	"six-cities/internal/core/domain"
)

// MapOfferToFavorite преобразует Offer в проекцию для списка избранного.
// ratingPercent всегда равен round(rating * 20).
func MapOfferToFavorite(offer domain.Offer) domain.FavoriteOffer {
	return domain.FavoriteOffer{
		ID:            offer.ID,
		Title:         offer.Title,
		Type:          offer.Type,
		Price:         offer.Price,
		Image:         offer.PreviewImage,
		RatingPercent: RatingPercent(offer.Rating),
		IsPremium:     offer.IsPremium,
		City:          offer.City.Name,
		Latitude:      offer.Location.Latitude,
		Longitude:     offer.Location.Longitude,
	}
}

// MapOffersToFavorites применяет MapOfferToFavorite к каждому элементу.
func MapOffersToFavorites(offers []domain.Offer) []domain.FavoriteOffer {
	favorites := make([]domain.FavoriteOffer, len(offers))
	for i, offer := range offers {
		favorites[i] = MapOfferToFavorite(offer)
	}
	return favorites
}

// RatingPercent переводит рейтинг 0..5 в проценты 0..100.
func RatingPercent(rating float64) int {
	return int(math.Round(rating * 20))
}
