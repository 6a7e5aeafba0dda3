package domain

import "time"

// ReviewUser - автор отзыва.
type ReviewUser struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	IsPro     bool   `json:"isPro"`
}

// Review - отзыв о предложении.
type Review struct {
	ID      string     `json:"id"`
	User    ReviewUser `json:"user"`
	Rating  int        `json:"rating"` // целое 1..5
	Comment string     `json:"comment"`
	Date    time.Time  `json:"date"`
}

// CommentData - тело запроса на отправку отзыва.
type CommentData struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}
