package constants

import "six-cities/internal/core/domain"

const (
	DefaultCity    = domain.CityParis
	DefaultSorting = domain.SortingPopular
)

// DefaultMapCenter - центр карты, когда в выбранном городе нет предложений.
var DefaultMapCenter = [2]float64{52.3909553943508, 4.85309666406198}

// SortingLabels - подписи вариантов сортировки для выпадающего списка.
var SortingLabels = map[domain.SortingType]string{
	domain.SortingPopular:        "Popular",
	domain.SortingPriceLowToHigh: "Price: low to high",
	domain.SortingPriceHighToLow: "Price: high to low",
	domain.SortingTopRatedFirst:  "Top rated first",
}

// Правила формы отзыва
const (
	MinCommentLength = 50
	MaxCommentLength = 300
	MinReviewRating  = 1
	MaxReviewRating  = 5
)

// RatingTitles - подписи звёзд в форме отзыва.
var RatingTitles = map[int]string{
	5: "perfect",
	4: "good",
	3: "not bad",
	2: "badly",
	1: "terribly",
}

// AuthTokenHeader - заголовок, в котором бэкенд ожидает токен.
const AuthTokenHeader = "X-Token"
