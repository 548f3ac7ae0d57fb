package domain

import (
	"time"
)

var (
	MessageSuccessFollow          = "user followed successfully"
	MessageSuccessUnfollow        = "user unfollowed successfully"
	MessageSuccessFavorite        = "recipe added to favorites"
	MessageSuccessAlreadyFavorite = "recipe already favorited"
	MessageSuccessUnfavorite      = "recipe removed from favorites"
	MessageSuccessGetFavorites    = "success get favorites"
	MessageSuccessSendMessage     = "message sent successfully"
	MessageSuccessGetMessages     = "success get messages"
	MessageSuccessGetMessage      = "success get message"

	MessageFailedFollow       = "failed to follow user"
	MessageFailedUnfollow     = "failed to unfollow user"
	MessageFailedFavorite     = "failed to favorite recipe"
	MessageFailedUnfavorite   = "failed to remove favorite"
	MessageFailedGetFavorites = "failed to get favorites"
	MessageFailedSendMessage  = "failed to send message"
	MessageFailedGetMessages  = "failed to get messages"
	MessageFailedGetMessage   = "failed to get message"

	ErrSelfFollow           = Forbidden("you cannot follow yourself")
	ErrNotFollowing         = NotFound("you are not following this user")
	ErrFavoriteNotFound     = NotFound("recipe is not in your favorites")
	ErrMessageNotFound      = NotFound("message not found")
	ErrSelfMessage          = Validation("receiver_id", "you cannot message yourself")
	ErrMessageInboxMismatch = Forbidden("you can only access your own messages")
)

type (
	SendMessageRequest struct {
		ReceiverID string `json:"receiver_id" validate:"required,uuid"`
		Content    string `json:"content" validate:"required,max=5000"`
	}

	FollowResponse struct {
		FollowerID  string    `json:"follower_id"`
		FollowingID string    `json:"following_id"`
		Created     bool      `json:"created"`
		CreatedAt   time.Time `json:"created_at"`
	}

	FavoriteResponse struct {
		RecipeID  string    `json:"recipe_id"`
		Created   bool      `json:"created"`
		CreatedAt time.Time `json:"created_at"`
	}

	FavoriteRecipeResponse struct {
		Recipe      RecipeSummary `json:"recipe"`
		FavoritedAt time.Time     `json:"favorited_at"`
	}

	MessageResponse struct {
		ID        string      `json:"id"`
		Sender    UserSummary `json:"sender"`
		Receiver  UserSummary `json:"receiver"`
		Content   string      `json:"content"`
		IsRead    bool        `json:"is_read"`
		ReadAt    *time.Time  `json:"read_at,omitempty"`
		CreatedAt time.Time   `json:"created_at"`
	}
)
