package rest

import (
	"six-cities/internal/core/domain"
	"six-cities/internal/core/store"
)

type ErrorResponse struct {
	Error string `json:"error"`
	// Redirect - куда отправить пользователя (для приватных маршрутов)
	Redirect string `json:"redirect,omitempty"`
}

type ChangeCityRequest struct {
	City domain.CityName `json:"city"`
}

type ChangeSortingRequest struct {
	Sorting domain.SortingType `json:"sorting"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CommentRequest struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

type SortingOption struct {
	Value domain.SortingType `json:"value"`
	Label string             `json:"label"`
}

type RatingOption struct {
	Value int    `json:"value"`
	Title string `json:"title"`
}

// CommentCreatedResponse - новый отзыв и список отзывов, который теперь держит сессия.
type CommentCreatedResponse struct {
	Review   domain.Review   `json:"review"`
	Comments []domain.Review `json:"comments"`
}

// MainPageResponse - view-model главной страницы и справочники для её элементов управления.
type MainPageResponse struct {
	store.MainPageViewModel
	Cities         []domain.CityName `json:"cities"`
	SortingOptions []SortingOption   `json:"sortingOptions"`
}

// OfferPageResponse - страница предложения и правила формы отзыва.
type OfferPageResponse struct {
	store.OfferPageViewModel
	RatingOptions    []RatingOption `json:"ratingOptions"`
	MinCommentLength int            `json:"minCommentLength"`
	MaxCommentLength int            `json:"maxCommentLength"`
}
