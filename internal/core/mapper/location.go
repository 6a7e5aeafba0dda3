package mapper

import "six-cities/internal/core/domain"

// FirstLocation возвращает координаты предложения как пару [lat, lng].
func FirstLocation(offer domain.Offer) [2]float64 {
	return [2]float64{offer.Location.Latitude, offer.Location.Longitude}
}
