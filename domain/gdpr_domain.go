package domain

import (
	"time"
)

var (
	MessageSuccessExportData = "success export user data"
	MessageSuccessEraseData  = "user data deleted successfully"
	MessageFailedExportData  = "failed to export user data"
	MessageFailedEraseData   = "failed to delete user data"
)

type (
	ExportedRating struct {
		RecipeID  string    `json:"recipe_id"`
		Rating    int       `json:"rating"`
		Review    string    `json:"review,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}

	ExportedComment struct {
		RecipeID  string    `json:"recipe_id"`
		Content   string    `json:"content"`
		CreatedAt time.Time `json:"created_at"`
	}

	ExportedFavorite struct {
		RecipeID  string    `json:"recipe_id"`
		CreatedAt time.Time `json:"created_at"`
	}

	ExportedFollow struct {
		UserID    string    `json:"user_id"`
		CreatedAt time.Time `json:"created_at"`
	}

	ExportedMessage struct {
		ID         string    `json:"id"`
		SenderID   string    `json:"sender_id"`
		ReceiverID string    `json:"receiver_id"`
		Content    string    `json:"content"`
		IsRead     bool      `json:"is_read"`
		CreatedAt  time.Time `json:"created_at"`
	}

	// UserDataExport is the complete personal-data document for one user.
	UserDataExport struct {
		ExportedAt       time.Time              `json:"exported_at"`
		Profile          UserResponse           `json:"profile"`
		Recipes          []RecipeDetail         `json:"recipes"`
		Ratings          []ExportedRating       `json:"ratings"`
		Comments         []ExportedComment      `json:"comments"`
		Favorites        []ExportedFavorite     `json:"favorites"`
		Following        []ExportedFollow       `json:"following"`
		Followers        []ExportedFollow       `json:"followers"`
		MessagesSent     []ExportedMessage      `json:"messages_sent"`
		MessagesReceived []ExportedMessage      `json:"messages_received"`
		Notifications    []NotificationResponse `json:"notifications"`
	}
)
