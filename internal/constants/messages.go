package constants

// Сообщения об ошибках, если сервер не прислал своё
const (
	ErrFetchOffersFailed    = "Не удалось загрузить предложения"
	ErrFetchOfferFailed     = "Failed to load offer details"
	ErrFetchNearbyFailed    = "Failed to load nearby offers"
	ErrFetchCommentsFailed  = "Failed to load comments"
	ErrSubmitCommentFailed  = "Failed to submit comment"
	ErrFetchFavoritesFailed = "Failed to load favorites"
	ErrAddToFavoritesFailed = "Failed to update favorites"
	ErrLoginFailed          = "Failed to sign in"
	ErrDefault              = "Произошла ошибка"
)
