package domain

import (
	"time"
)

const (
	MinRating = 1
	MaxRating = 5

	MaxCommentLength = 5000
)

var (
	MessageSuccessRateRecipe      = "recipe rated successfully"
	MessageSuccessDeleteRating    = "rating deleted successfully"
	MessageSuccessGetRatings      = "success get ratings"
	MessageSuccessModerateRating  = "rating moderated successfully"
	MessageSuccessCreateComment   = "comment created successfully"
	MessageSuccessGetComments     = "success get comments"
	MessageSuccessDeleteComment   = "comment deleted successfully"
	MessageSuccessModerateComment = "comment moderated successfully"

	MessageFailedRateRecipe      = "failed to rate recipe"
	MessageFailedDeleteRating    = "failed to delete rating"
	MessageFailedGetRatings      = "failed to get ratings"
	MessageFailedModerateRating  = "failed to moderate rating"
	MessageFailedCreateComment   = "failed to create comment"
	MessageFailedGetComments     = "failed to get comments"
	MessageFailedDeleteComment   = "failed to delete comment"
	MessageFailedModerateComment = "failed to moderate comment"

	ErrRatingNotFound            = NotFound("rating not found")
	ErrCommentNotFound           = NotFound("comment not found")
	ErrUnauthorizedCommentAccess = Forbidden("you can only delete your own comments")
	ErrCommentEmpty              = Validation("content", "this field may not be blank")
	ErrModerationFieldsMissing   = Validation("non_field_errors", "at least one moderation field is required")
)

type (
	CreateCommentRequest struct {
		Content string `json:"content" validate:"required,max=5000"`
	}

	RateRecipeRequest struct {
		Rating int    `json:"rating" validate:"required,min=1,max=5"`
		Review string `json:"review" validate:"max=5000"`
	}

	ModerateCommentRequest struct {
		IsApproved *bool `json:"is_approved"`
		IsSpam     *bool `json:"is_spam"`
	}

	ModerateRatingRequest struct {
		IsSpam *bool `json:"is_spam" validate:"required"`
	}

	CommentResponse struct {
		ID         string      `json:"id"`
		RecipeID   string      `json:"recipe_id"`
		User       UserSummary `json:"user"`
		Content    string      `json:"content"`
		IsApproved bool        `json:"is_approved"`
		IsSpam     bool        `json:"is_spam"`
		CreatedAt  time.Time   `json:"created_at"`
		UpdatedAt  time.Time   `json:"updated_at"`
	}

	RatingResponse struct {
		ID        string      `json:"id"`
		RecipeID  string      `json:"recipe_id"`
		User      UserSummary `json:"user"`
		Rating    int         `json:"rating"`
		Review    string      `json:"review,omitempty"`
		IsSpam    bool        `json:"is_spam"`
		CreatedAt time.Time   `json:"created_at"`
		UpdatedAt time.Time   `json:"updated_at"`
	}

	// RatingAggregate is the recipe-level summary written back after every
	// rating change.
	RatingAggregate struct {
		AverageRating float64 `json:"average_rating"`
		TotalRatings  int     `json:"total_ratings"`
	}

	RateRecipeResponse struct {
		Rating RatingResponse `json:"rating"`
		RatingAggregate
	}
)
