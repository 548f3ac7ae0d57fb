// Package gdpr exports and erases everything the service stores about a user.
package gdpr

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"RecipeAPI/internal/utils/storage"
	"RecipeAPI/pkg/notification"
	"RecipeAPI/pkg/recipe"
	"RecipeAPI/pkg/user"
	"context"
	"fmt"
	"github.com/gofiber/fiber/v2/log"
	"time"
)

type (
	GDPRService interface {
		ExportUserData(ctx context.Context, principal domain.Principal) (domain.UserDataExport, error)
		EraseUserData(ctx context.Context, principal domain.Principal) error
	}

	gdprService struct {
		gdprRepository GDPRRepository
		s3             storage.AwsS3
	}
)

func NewGDPRService(gdprRepository GDPRRepository, s3 storage.AwsS3) GDPRService {
	return &gdprService{
		gdprRepository: gdprRepository,
		s3:             s3,
	}
}

func toExportedMessages(messages []entities.Message) []domain.ExportedMessage {
	res := make([]domain.ExportedMessage, 0, len(messages))
	for _, m := range messages {
		res = append(res, domain.ExportedMessage{
			ID:         m.ID.String(),
			SenderID:   m.SenderID.String(),
			ReceiverID: m.ReceiverID.String(),
			Content:    m.Content,
			IsRead:     m.IsRead,
			CreatedAt:  m.CreatedAt,
		})
	}
	return res
}

func (s *gdprService) ExportUserData(ctx context.Context, principal domain.Principal) (domain.UserDataExport, error) {
	if principal.IsAnonymous() {
		return domain.UserDataExport{}, domain.ErrTokenNotFound
	}
	repo := s.gdprRepository
	uid := principal.UserID

	account, err := repo.GetUser(ctx, uid)
	if err != nil {
		return domain.UserDataExport{}, err
	}
	export := domain.UserDataExport{
		ExportedAt: time.Now().UTC(),
		Profile:    user.ToUserResponse(account, true),
	}

	recipeIDs, err := repo.Recipes().RecipeIDsByAuthor(ctx, uid)
	if err != nil {
		return domain.UserDataExport{}, err
	}
	export.Recipes = make([]domain.RecipeDetail, 0, len(recipeIDs))
	for _, id := range recipeIDs {
		r, err := repo.Recipes().GetRecipeByID(ctx, id)
		if err != nil {
			return domain.UserDataExport{}, err
		}
		export.Recipes = append(export.Recipes, recipe.ToRecipeDetail(r))
	}

	ratings, err := repo.ListRatings(ctx, uid)
	if err != nil {
		return domain.UserDataExport{}, err
	}
	export.Ratings = make([]domain.ExportedRating, 0, len(ratings))
	for _, r := range ratings {
		export.Ratings = append(export.Ratings, domain.ExportedRating{
			RecipeID: r.RecipeID.String(), Rating: r.Rating, Review: r.Review, CreatedAt: r.CreatedAt,
		})
	}

	comments, err := repo.ListComments(ctx, uid)
	if err != nil {
		return domain.UserDataExport{}, err
	}
	export.Comments = make([]domain.ExportedComment, 0, len(comments))
	for _, c := range comments {
		export.Comments = append(export.Comments, domain.ExportedComment{
			RecipeID: c.RecipeID.String(), Content: c.Content, CreatedAt: c.CreatedAt,
		})
	}

	favorites, err := repo.ListFavorites(ctx, uid)
	if err != nil {
		return domain.UserDataExport{}, err
	}
	export.Favorites = make([]domain.ExportedFavorite, 0, len(favorites))
	for _, f := range favorites {
		export.Favorites = append(export.Favorites, domain.ExportedFavorite{RecipeID: f.RecipeID.String(), CreatedAt: f.CreatedAt})
	}

	following, err := repo.ListFollows(ctx, "follower_id", uid)
	if err != nil {
		return domain.UserDataExport{}, err
	}
	export.Following = make([]domain.ExportedFollow, 0, len(following))
	for _, f := range following {
		export.Following = append(export.Following, domain.ExportedFollow{UserID: f.FollowingID.String(), CreatedAt: f.CreatedAt})
	}

	followers, err := repo.ListFollows(ctx, "following_id", uid)
	if err != nil {
		return domain.UserDataExport{}, err
	}
	export.Followers = make([]domain.ExportedFollow, 0, len(followers))
	for _, f := range followers {
		export.Followers = append(export.Followers, domain.ExportedFollow{UserID: f.FollowerID.String(), CreatedAt: f.CreatedAt})
	}

	sent, err := repo.ListMessages(ctx, "sender_id", uid)
	if err != nil {
		return domain.UserDataExport{}, err
	}
	received, err := repo.ListMessages(ctx, "receiver_id", uid)
	if err != nil {
		return domain.UserDataExport{}, err
	}
	export.MessagesSent = toExportedMessages(sent)
	export.MessagesReceived = toExportedMessages(received)

	notifications, err := repo.ListNotifications(ctx, uid)
	if err != nil {
		return domain.UserDataExport{}, err
	}
	export.Notifications = make([]domain.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		export.Notifications = append(export.Notifications, notification.ToNotificationResponse(&notifications[i]))
	}

	return export, nil
}

// EraseUserData deletes the caller and everything they own in one
// transaction. Ratings on other authors' recipes are removed and those
// aggregates recomputed; versions they edited on other recipes are kept
// without attribution.
func (s *gdprService) EraseUserData(ctx context.Context, principal domain.Principal) error {
	if principal.IsAnonymous() {
		return domain.ErrTokenNotFound
	}
	uid := principal.UserID

	var links []string
	err := s.gdprRepository.Transaction(ctx, func(tx GDPRRepository) error {
		account, err := tx.GetUser(ctx, uid)
		if err != nil {
			return err
		}
		links = append(links, account.ProfilePicture)

		rated, err := tx.RatedRecipeIDs(ctx, uid)
		if err != nil {
			return err
		}
		if err := tx.DeleteActivity(ctx, uid); err != nil {
			return fmt.Errorf("delete activity: %w", err)
		}
		for _, recipeID := range rated {
			if _, err := tx.Reviews().LockRecipe(ctx, recipeID); err != nil {
				return err
			}
			if _, err := tx.Reviews().RecomputeRating(ctx, recipeID); err != nil {
				return fmt.Errorf("recompute rating of %s: %w", recipeID, err)
			}
		}

		if err := tx.DetachVersions(ctx, uid); err != nil {
			return fmt.Errorf("detach versions: %w", err)
		}

		owned, err := tx.Recipes().RecipeIDsByAuthor(ctx, uid)
		if err != nil {
			return err
		}
		for _, recipeID := range owned {
			r, err := tx.Recipes().GetRecipeByID(ctx, recipeID)
			if err != nil {
				return err
			}
			links = append(links, r.FeaturedImage)
			for _, img := range r.Images {
				links = append(links, img.ImageURL)
			}
			if err := tx.Recipes().DeleteRecipe(ctx, recipeID); err != nil {
				return fmt.Errorf("delete recipe %s: %w", recipeID, err)
			}
		}

		return tx.DeleteUser(ctx, uid)
	})
	if err != nil {
		return err
	}

	log.Infof("erased user %s", uid)
	s.deleteStoredFiles(ctx, links)
	return nil
}

func (s *gdprService) deleteStoredFiles(ctx context.Context, links []string) {
	if s.s3 == nil {
		return
	}
	seen := map[string]bool{}
	for _, link := range links {
		if link == "" || seen[link] {
			continue
		}
		seen[link] = true
		if key := s.s3.GetObjectKeyFromLink(link); key != "" {
			if err := s.s3.DeleteFile(ctx, key); err != nil {
				log.Warnf("failed to delete stored file %s: %v", key, err)
			}
		}
	}
}
