package domain

import (
	"mime/multipart"
	"time"
)

const TokenTypeBearer = "Bearer"

var (
	MessageSuccessRegister       = "user registered successfully"
	MessageSuccessLogin          = "login successful"
	MessageSuccessRefreshToken   = "token refreshed successfully"
	MessageSuccessGetUser        = "success get user"
	MessageSuccessUpdateUser     = "user updated successfully"
	MessageSuccessUploadPicture  = "profile picture uploaded successfully"
	MessageFailedRegister        = "failed to register user"
	MessageFailedLogin           = "failed to login"
	MessageFailedRefreshToken    = "failed to refresh token"
	MessageFailedGetUser         = "failed to get user"
	MessageFailedUpdateUser      = "failed to update user"
	MessageFailedUploadPicture   = "failed to upload profile picture"
	MessageFailedUserIDMismatch  = "user id does not match the authenticated user"
	MessageSuccessGetFollowers   = "success get followers"
	MessageSuccessGetFollowing   = "success get following"
	MessageFailedGetFollowers    = "failed to get followers"
	MessageFailedGetFollowing    = "failed to get following"
	MessageSuccessGetUserProfile = "success get user profile"

	ErrUserNotFound               = NotFound("user not found")
	ErrUsernameTaken              = Validation("username", "a user with that username already exists")
	ErrEmailTaken                 = Validation("email", "a user with that email already exists")
	ErrInvalidCredentials         = Validation("non_field_errors", "unable to log in with provided credentials")
	ErrUnauthorizedProfileAccess  = Forbidden("you can only modify your own profile")
	ErrPasswordConfirmationFailed = Validation("password_confirm", "passwords do not match")
)

type (
	RegisterRequest struct {
		Username        string `json:"username" validate:"required,min=3,max=30"`
		Email           string `json:"email" validate:"required,email,max=254"`
		Password        string `json:"password" validate:"required,min=8,max=128"`
		PasswordConfirm string `json:"password_confirm" validate:"required"`
		FirstName       string `json:"first_name" validate:"max=150"`
		LastName        string `json:"last_name" validate:"max=150"`
	}

	// LoginRequest accepts either the username or the e-mail address in Username.
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	RefreshTokenRequest struct {
		RefreshToken string `json:"refresh" validate:"required"`
	}

	UpdateProfileRequest struct {
		Email       *string            `json:"email" validate:"omitempty,email,max=254"`
		FirstName   *string            `json:"first_name" validate:"omitempty,max=150"`
		LastName    *string            `json:"last_name" validate:"omitempty,max=150"`
		Bio         *string            `json:"bio" validate:"omitempty,max=500"`
		SocialLinks *map[string]string `json:"social_links"`
	}

	UploadProfilePictureRequest struct {
		Image *multipart.FileHeader `form:"image" validate:"required"`
	}

	UserSummary struct {
		ID             string `json:"id"`
		Username       string `json:"username"`
		ProfilePicture string `json:"profile_picture,omitempty"`
	}

	UserResponse struct {
		ID             string         `json:"id"`
		Username       string         `json:"username"`
		Email          string         `json:"email,omitempty"`
		FirstName      string         `json:"first_name"`
		LastName       string         `json:"last_name"`
		Bio            string         `json:"bio"`
		ProfilePicture string         `json:"profile_picture,omitempty"`
		SocialLinks    map[string]any `json:"social_links"`
		Role           string         `json:"role"`
		CreatedAt      time.Time      `json:"created_at"`
	}

	ProfileResponse struct {
		UserResponse
		RecipesCount   int64 `json:"recipes_count"`
		FollowersCount int64 `json:"followers_count"`
		FollowingCount int64 `json:"following_count"`
		FavoritesCount int64 `json:"favorites_count"`
		IsFollowing    bool  `json:"is_following"`
	}

	TokenResponse struct {
		AccessToken  string        `json:"access"`
		RefreshToken string        `json:"refresh,omitempty"`
		TokenType    string        `json:"token_type"`
		ExpiresIn    int64         `json:"expires_in"`
		User         *UserResponse `json:"user,omitempty"`
	}
)
