package offersapi

import (
	"math"
	"time"

	"six-cities/internal/core/domain"
)

// DTO ответов бэкенда. Совпадают с форматом API, ядро видит только доменные типы.

type locationDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      int     `json:"zoom"`
}

type cityDTO struct {
	Name     string      `json:"name"`
	Location locationDTO `json:"location"`
}

type offerDTO struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Type         string      `json:"type"`
	Price        float64     `json:"price"`
	PreviewImage string      `json:"previewImage"`
	Rating       float64     `json:"rating"`
	IsPremium    bool        `json:"isPremium"`
	IsFavorite   bool        `json:"isFavorite"`
	City         cityDTO     `json:"city"`
	Location     locationDTO `json:"location"`
}

type userDTO struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	IsPro     bool   `json:"isPro"`
}

type offerDetailsDTO struct {
	offerDTO
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Goods       []string `json:"goods"`
	Host        userDTO  `json:"host"`
	Bedrooms    int      `json:"bedrooms"`
	MaxAdults   int      `json:"maxAdults"`
}

type reviewDTO struct {
	ID      string    `json:"id"`
	User    userDTO   `json:"user"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`
	Date    time.Time `json:"date"`
}

type authDTO struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	IsPro     bool   `json:"isPro"`
	Email     string `json:"email"`
	Token     string `json:"token"`
}

type commentRequest struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// errorResponse - тело ответа сервера с ошибкой.
type errorResponse struct {
	ErrorType string `json:"errorType"`
	Message   string `json:"message"`
}

func (l locationDTO) toDomain() domain.Location {
	return domain.Location{Latitude: l.Latitude, Longitude: l.Longitude, Zoom: l.Zoom}
}

func (o offerDTO) toDomain() domain.Offer {
	return domain.Offer{
		ID:           o.ID,
		Title:        o.Title,
		Type:         o.Type,
		Price:        int(math.Round(o.Price)),
		PreviewImage: o.PreviewImage,
		Rating:       o.Rating,
		IsPremium:    o.IsPremium,
		IsFavorite:   o.IsFavorite,
		City: domain.City{
			Name:     domain.CityName(o.City.Name),
			Location: o.City.Location.toDomain(),
		},
		Location: o.Location.toDomain(),
	}
}

func (o offerDetailsDTO) toDomain() domain.OfferDetails {
	return domain.OfferDetails{
		Offer:       o.offerDTO.toDomain(),
		Description: o.Description,
		Images:      nonNil(o.Images),
		Goods:       nonNil(o.Goods),
		Host: domain.Host{
			Name:      o.Host.Name,
			AvatarURL: o.Host.AvatarURL,
			IsPro:     o.Host.IsPro,
		},
		Bedrooms:  o.Bedrooms,
		MaxAdults: o.MaxAdults,
	}
}

func (r reviewDTO) toDomain() domain.Review {
	return domain.Review{
		ID: r.ID,
		User: domain.ReviewUser{
			Name:      r.User.Name,
			AvatarURL: r.User.AvatarURL,
			IsPro:     r.User.IsPro,
		},
		Rating:  r.Rating,
		Comment: r.Comment,
		Date:    r.Date,
	}
}

func (a authDTO) toDomain() *domain.AuthInfo {
	return &domain.AuthInfo{
		ID:        a.ID,
		Name:      a.Name,
		AvatarURL: a.AvatarURL,
		IsPro:     a.IsPro,
		Email:     a.Email,
		Token:     a.Token,
	}
}

func mapOffers(dtos []offerDTO) []domain.Offer {
	offers := make([]domain.Offer, len(dtos))
	for i, dto := range dtos {
		offers[i] = dto.toDomain()
	}
	return offers
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
