package store

import "six-cities/internal/core/domain"

// ReviewsState - отзывы открытого предложения.
// В отличие от OffersState, при ошибке загрузки список очищается.
type ReviewsState struct {
	Comments            []domain.Review
	IsCommentsLoading   bool
	IsCommentSubmitting bool

	offerID           string
	commentsRequestID string
}

func initialReviewsState() ReviewsState {
	return ReviewsState{
		Comments: []domain.Review{},
	}
}

// SubmitCommentArg - аргумент действия отправки отзыва.
type SubmitCommentArg struct {
	OfferID string
	Data    domain.CommentData
}

func reviewsReducer(state ReviewsState, action Action) ReviewsState {
	switch action.Type {
	case FetchComments.Pending():
		state.IsCommentsLoading = true
		state.commentsRequestID = action.Meta.RequestID
		if offerID, ok := action.Meta.Arg.(string); ok {
			state.offerID = offerID
		}
	case FetchComments.Fulfilled():
		if action.Meta.RequestID != state.commentsRequestID {
			return state
		}
		state.IsCommentsLoading = false
		if comments, ok := action.Payload.([]domain.Review); ok {
			state.Comments = comments
		}
	case FetchComments.Rejected():
		if action.Meta.RequestID != state.commentsRequestID {
			return state
		}
		state.IsCommentsLoading = false
		state.Comments = []domain.Review{}

	case SubmitComment.Pending():
		state.IsCommentSubmitting = true
	case SubmitComment.Fulfilled():
		state.IsCommentSubmitting = false
		review, ok := action.Payload.(domain.Review)
		if !ok {
			return state
		}
		// отзыв к предложению, которое уже не открыто, не добавляем
		if arg, ok := action.Meta.Arg.(SubmitCommentArg); ok && state.offerID != "" && arg.OfferID != state.offerID {
			return state
		}
		comments := make([]domain.Review, len(state.Comments), len(state.Comments)+1)
		copy(comments, state.Comments)
		state.Comments = append(comments, review)
	case SubmitComment.Rejected():
		state.IsCommentSubmitting = false
	}
	return state
}
