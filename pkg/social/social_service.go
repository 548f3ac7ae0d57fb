package social

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"RecipeAPI/pkg/notification"
	"RecipeAPI/pkg/permission"
	"RecipeAPI/pkg/recipe"
	"RecipeAPI/pkg/user"
	"context"
	"fmt"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"strings"
	"time"
)

type (
	SocialService interface {
		Follow(ctx context.Context, userID string, principal domain.Principal) (domain.FollowResponse, error)
		Unfollow(ctx context.Context, userID string, principal domain.Principal) error
		GetFollowers(ctx context.Context, userID string, page, limit int) ([]domain.UserSummary, int64, error)
		GetFollowing(ctx context.Context, userID string, page, limit int) ([]domain.UserSummary, int64, error)

		AddFavorite(ctx context.Context, recipeID string, principal domain.Principal) (domain.FavoriteResponse, error)
		RemoveFavorite(ctx context.Context, recipeID string, principal domain.Principal) error
		GetFavorites(ctx context.Context, principal domain.Principal, page, limit int) ([]domain.FavoriteRecipeResponse, int64, error)

		SendMessage(ctx context.Context, userID string, req domain.SendMessageRequest, principal domain.Principal) (domain.MessageResponse, error)
		GetMessages(ctx context.Context, userID string, principal domain.Principal, page, limit int) ([]domain.MessageResponse, int64, error)
		GetMessage(ctx context.Context, userID string, messageID string, principal domain.Principal) (domain.MessageResponse, error)
	}

	socialService struct {
		socialRepository SocialRepository
		policy           permission.Policy
		notifier         notification.Notifier
	}
)

func NewSocialService(socialRepository SocialRepository, policy permission.Policy, notifier notification.Notifier) SocialService {
	return &socialService{
		socialRepository: socialRepository,
		policy:           policy,
		notifier:         notifier,
	}
}

func (s *socialService) notify(ctx context.Context, n domain.NewNotification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		log.Warnf("failed to send %s notification to %s: %v", n.Type, n.UserID, err)
	}
}

func toSummaries(users []entities.User) []domain.UserSummary {
	res := make([]domain.UserSummary, 0, len(users))
	for i := range users {
		res = append(res, user.ToUserSummary(&users[i]))
	}
	return res
}

func toMessageResponse(message *entities.Message) domain.MessageResponse {
	return domain.MessageResponse{
		ID:        message.ID.String(),
		Sender:    user.ToUserSummary(message.Sender),
		Receiver:  user.ToUserSummary(message.Receiver),
		Content:   message.Content,
		IsRead:    message.IsRead,
		ReadAt:    message.ReadAt,
		CreatedAt: message.CreatedAt,
	}
}

func (s *socialService) Follow(ctx context.Context, userID string, principal domain.Principal) (domain.FollowResponse, error) {
	if principal.IsAnonymous() {
		return domain.FollowResponse{}, domain.ErrTokenNotFound
	}
	id, err := domain.ParseID("id", userID)
	if err != nil {
		return domain.FollowResponse{}, err
	}
	if id == principal.UserID {
		return domain.FollowResponse{}, domain.ErrSelfFollow
	}

	if _, err := s.socialRepository.GetUser(ctx, id); err != nil {
		return domain.FollowResponse{}, err
	}
	follower, err := s.socialRepository.GetUser(ctx, principal.UserID)
	if err != nil {
		return domain.FollowResponse{}, err
	}

	follow, created, err := s.socialRepository.Follow(ctx, principal.UserID, id)
	if err != nil {
		return domain.FollowResponse{}, fmt.Errorf("follow user: %w", err)
	}
	if created {
		s.notify(ctx, domain.NewNotification{
			UserID:      id,
			ActorID:     &principal.UserID,
			Type:        domain.NotificationFollow,
			Description: fmt.Sprintf("%s started following you", follower.Username),
			ContentType: "user",
			ObjectID:    principal.UserID.String(),
		})
	}

	return domain.FollowResponse{
		FollowerID:  follow.FollowerID.String(),
		FollowingID: follow.FollowingID.String(),
		Created:     created,
		CreatedAt:   follow.CreatedAt,
	}, nil
}

func (s *socialService) Unfollow(ctx context.Context, userID string, principal domain.Principal) error {
	if principal.IsAnonymous() {
		return domain.ErrTokenNotFound
	}
	id, err := domain.ParseID("id", userID)
	if err != nil {
		return err
	}
	return s.socialRepository.Unfollow(ctx, principal.UserID, id)
}

func (s *socialService) GetFollowers(ctx context.Context, userID string, page, limit int) ([]domain.UserSummary, int64, error) {
	id, err := domain.ParseID("id", userID)
	if err != nil {
		return nil, 0, err
	}
	if _, err := s.socialRepository.GetUser(ctx, id); err != nil {
		return nil, 0, err
	}
	users, count, err := s.socialRepository.ListFollowers(ctx, id, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toSummaries(users), count, nil
}

func (s *socialService) GetFollowing(ctx context.Context, userID string, page, limit int) ([]domain.UserSummary, int64, error) {
	id, err := domain.ParseID("id", userID)
	if err != nil {
		return nil, 0, err
	}
	if _, err := s.socialRepository.GetUser(ctx, id); err != nil {
		return nil, 0, err
	}
	users, count, err := s.socialRepository.ListFollowing(ctx, id, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toSummaries(users), count, nil
}

// AddFavorite is idempotent: an existing favorite is returned with Created
// unset instead of failing.
func (s *socialService) AddFavorite(ctx context.Context, recipeID string, principal domain.Principal) (domain.FavoriteResponse, error) {
	if principal.IsAnonymous() {
		return domain.FavoriteResponse{}, domain.ErrTokenNotFound
	}
	id, err := domain.ParseID("id", recipeID)
	if err != nil {
		return domain.FavoriteResponse{}, err
	}

	rec, err := s.socialRepository.GetRecipe(ctx, id)
	if err != nil {
		return domain.FavoriteResponse{}, err
	}
	if err := s.policy.CanViewRecipe(principal, rec); err != nil {
		return domain.FavoriteResponse{}, err
	}

	favorite, created, err := s.socialRepository.AddFavorite(ctx, principal.UserID, id)
	if err != nil {
		return domain.FavoriteResponse{}, fmt.Errorf("add favorite: %w", err)
	}
	if created {
		s.notify(ctx, domain.NewNotification{
			UserID:      rec.AuthorID,
			ActorID:     &principal.UserID,
			Type:        domain.NotificationLike,
			Description: fmt.Sprintf("Your recipe %q was added to someone's favorites", rec.Title),
			ContentType: "recipe",
			ObjectID:    rec.ID.String(),
		})
	}

	return domain.FavoriteResponse{
		RecipeID:  favorite.RecipeID.String(),
		Created:   created,
		CreatedAt: favorite.CreatedAt,
	}, nil
}

func (s *socialService) RemoveFavorite(ctx context.Context, recipeID string, principal domain.Principal) error {
	if principal.IsAnonymous() {
		return domain.ErrTokenNotFound
	}
	id, err := domain.ParseID("id", recipeID)
	if err != nil {
		return err
	}
	return s.socialRepository.RemoveFavorite(ctx, principal.UserID, id)
}

func (s *socialService) GetFavorites(ctx context.Context, principal domain.Principal, page, limit int) ([]domain.FavoriteRecipeResponse, int64, error) {
	if principal.IsAnonymous() {
		return nil, 0, domain.ErrTokenNotFound
	}
	favorites, count, err := s.socialRepository.ListFavorites(ctx, principal.UserID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.FavoriteRecipeResponse, 0, len(favorites))
	for _, favorite := range favorites {
		if favorite.Recipe == nil {
			continue
		}
		res = append(res, domain.FavoriteRecipeResponse{
			Recipe:      recipe.ToRecipeSummary(favorite.Recipe),
			FavoritedAt: favorite.CreatedAt,
		})
	}
	return res, count, nil
}

// ownInbox checks that the user in the path is the caller.
func ownInbox(userID string, principal domain.Principal) (uuid.UUID, error) {
	if principal.IsAnonymous() {
		return uuid.Nil, domain.ErrTokenNotFound
	}
	id, err := domain.ParseID("id", userID)
	if err != nil {
		return uuid.Nil, err
	}
	if id != principal.UserID {
		return uuid.Nil, domain.ErrMessageInboxMismatch
	}
	return id, nil
}

func (s *socialService) SendMessage(ctx context.Context, userID string, req domain.SendMessageRequest, principal domain.Principal) (domain.MessageResponse, error) {
	senderID, err := ownInbox(userID, principal)
	if err != nil {
		return domain.MessageResponse{}, err
	}
	receiverID, err := domain.ParseID("receiver_id", req.ReceiverID)
	if err != nil {
		return domain.MessageResponse{}, err
	}
	if receiverID == senderID {
		return domain.MessageResponse{}, domain.ErrSelfMessage
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return domain.MessageResponse{}, domain.Validation("content", "this field may not be blank")
	}

	if _, err := s.socialRepository.GetUser(ctx, receiverID); err != nil {
		return domain.MessageResponse{}, err
	}

	message := &entities.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.socialRepository.CreateMessage(ctx, message); err != nil {
		return domain.MessageResponse{}, fmt.Errorf("create message: %w", err)
	}

	stored, err := s.socialRepository.GetMessage(ctx, message.ID)
	if err != nil {
		return domain.MessageResponse{}, err
	}

	s.notify(ctx, domain.NewNotification{
		UserID:      receiverID,
		ActorID:     &senderID,
		Type:        domain.NotificationMessage,
		Description: fmt.Sprintf("New message from %s", stored.Sender.Username),
		ContentType: "message",
		ObjectID:    stored.ID.String(),
	})

	return toMessageResponse(stored), nil
}

func (s *socialService) GetMessages(ctx context.Context, userID string, principal domain.Principal, page, limit int) ([]domain.MessageResponse, int64, error) {
	id, err := ownInbox(userID, principal)
	if err != nil {
		return nil, 0, err
	}
	messages, count, err := s.socialRepository.ListMessages(ctx, id, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]domain.MessageResponse, 0, len(messages))
	for i := range messages {
		res = append(res, toMessageResponse(&messages[i]))
	}
	return res, count, nil
}

// GetMessage returns one message of the caller's conversation. The receiver
// reading it marks it read.
func (s *socialService) GetMessage(ctx context.Context, userID string, messageID string, principal domain.Principal) (domain.MessageResponse, error) {
	id, err := ownInbox(userID, principal)
	if err != nil {
		return domain.MessageResponse{}, err
	}
	mid, err := domain.ParseID("messageId", messageID)
	if err != nil {
		return domain.MessageResponse{}, err
	}

	message, err := s.socialRepository.GetMessage(ctx, mid)
	if err != nil {
		return domain.MessageResponse{}, err
	}
	if message.SenderID != id && message.ReceiverID != id {
		return domain.MessageResponse{}, domain.ErrMessageNotFound
	}

	if message.ReceiverID == id && !message.IsRead {
		now := time.Now()
		if err := s.socialRepository.MarkMessageRead(ctx, message, now); err != nil {
			return domain.MessageResponse{}, err
		}
		message.IsRead = true
		message.ReadAt = &now
	}
	return toMessageResponse(message), nil
}
