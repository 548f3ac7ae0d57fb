package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Username       string            `gorm:"size:30;not null;uniqueIndex" json:"username"`
	Email          string            `gorm:"size:254;not null;uniqueIndex" json:"email"`
	Password       string            `gorm:"not null" json:"-"`
	FirstName      string            `gorm:"size:150" json:"first_name"`
	LastName       string            `gorm:"size:150" json:"last_name"`
	Bio            string            `gorm:"size:500" json:"bio"`
	ProfilePicture string            `json:"profile_picture,omitempty"`
	SocialLinks    datatypes.JSONMap `json:"social_links"`
	Role           string            `gorm:"size:10;not null;default:user" json:"role"`

	Timestamp
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

type Follow struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FollowerID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follow_pair,priority:1" json:"follower_id"`
	FollowingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follow_pair,priority:2;index" json:"following_id"`
	CreatedAt   time.Time `gorm:"type:timestamp;autoCreateTime" json:"created_at"`

	Follower  *User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Following *User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
}

func (f *Follow) BeforeCreate(*gorm.DB) error {
	ensureID(&f.ID)
	return nil
}

type Message struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	SenderID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_message_pair,priority:1" json:"sender_id"`
	ReceiverID uuid.UUID  `gorm:"type:uuid;not null;index:idx_message_pair,priority:2;index" json:"receiver_id"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	IsRead     bool       `gorm:"not null;default:false" json:"is_read"`
	ReadAt     *time.Time `gorm:"type:timestamp" json:"read_at,omitempty"`

	Sender   *User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
	Receiver *User `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE" json:"-"`
	Timestamp
}

func (m *Message) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_recipe,priority:1" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_recipe,priority:2;index" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp;autoCreateTime" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (f *Favorite) BeforeCreate(*gorm.DB) error {
	ensureID(&f.ID)
	return nil
}

type Notification struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;index:idx_notification_user_read,priority:1" json:"user_id"`
	ActorID          *uuid.UUID `gorm:"type:uuid" json:"actor_id,omitempty"`
	NotificationType string     `gorm:"size:20;not null" json:"notification_type"` // message, follow, recipe_update, comment, like, mention, rating
	Description      string     `gorm:"type:text;not null" json:"description"`
	IsRead           bool       `gorm:"not null;default:false;index:idx_notification_user_read,priority:2" json:"is_read"`
	ReadAt           *time.Time `gorm:"type:timestamp" json:"read_at,omitempty"`
	ContentType      string     `gorm:"size:50" json:"content_type,omitempty"`
	ObjectID         string     `gorm:"size:64" json:"object_id,omitempty"`

	User  *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Actor *User `gorm:"foreignKey:ActorID;constraint:OnDelete:CASCADE" json:"-"`
	Timestamp
}

func (n *Notification) BeforeCreate(*gorm.DB) error {
	ensureID(&n.ID)
	return nil
}
