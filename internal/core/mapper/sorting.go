package mapper

import (
	"cmp"
	"slices"
	"six-cities/internal/core/domain"
)

// SortOffers возвращает новый срез, упорядоченный по sorting.
// Входной срез не изменяется, при равных ключах сохраняется исходный порядок.
func SortOffers(offers []domain.Offer, sorting domain.SortingType) []domain.Offer {
	sorted := make([]domain.Offer, len(offers))
	copy(sorted, offers)

	switch sorting {
	case domain.SortingPriceLowToHigh:
		slices.SortStableFunc(sorted, func(a, b domain.Offer) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case domain.SortingPriceHighToLow:
		slices.SortStableFunc(sorted, func(a, b domain.Offer) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case domain.SortingTopRatedFirst:
		slices.SortStableFunc(sorted, func(a, b domain.Offer) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	}
	// popular и неизвестные значения - исходный порядок

	return sorted
}
