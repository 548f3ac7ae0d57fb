package review

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"RecipeAPI/pkg/notification"
	"RecipeAPI/pkg/permission"
	"RecipeAPI/pkg/user"
	"context"
	"fmt"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"strings"
	"unicode/utf8"
)

type (
	ReviewService interface {
		RateRecipe(ctx context.Context, recipeID string, req domain.RateRecipeRequest, principal domain.Principal) (domain.RateRecipeResponse, error)
		DeleteRating(ctx context.Context, recipeID string, principal domain.Principal) (domain.RatingAggregate, error)
		GetRatings(ctx context.Context, recipeID string, principal domain.Principal, page, limit int) ([]domain.RatingResponse, int64, error)
		ModerateRating(ctx context.Context, ratingID string, req domain.ModerateRatingRequest, principal domain.Principal) (domain.RatingResponse, error)

		CreateComment(ctx context.Context, recipeID string, req domain.CreateCommentRequest, principal domain.Principal) (domain.CommentResponse, error)
		GetComments(ctx context.Context, recipeID string, principal domain.Principal, page, limit int) ([]domain.CommentResponse, int64, error)
		DeleteComment(ctx context.Context, recipeID string, commentID string, principal domain.Principal) error
		ModerateComment(ctx context.Context, commentID string, req domain.ModerateCommentRequest, principal domain.Principal) (domain.CommentResponse, error)
	}

	reviewService struct {
		reviewRepository ReviewRepository
		policy           permission.Policy
		notifier         notification.Notifier
	}
)

func NewReviewService(reviewRepository ReviewRepository, policy permission.Policy, notifier notification.Notifier) ReviewService {
	return &reviewService{
		reviewRepository: reviewRepository,
		policy:           policy,
		notifier:         notifier,
	}
}

func toRatingResponse(rating *entities.Rating) domain.RatingResponse {
	return domain.RatingResponse{
		ID:        rating.ID.String(),
		RecipeID:  rating.RecipeID.String(),
		User:      user.ToUserSummary(rating.User),
		Rating:    rating.Rating,
		Review:    rating.Review,
		IsSpam:    rating.IsSpam,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}

func toCommentResponse(comment *entities.Comment) domain.CommentResponse {
	return domain.CommentResponse{
		ID:         comment.ID.String(),
		RecipeID:   comment.RecipeID.String(),
		User:       user.ToUserSummary(comment.User),
		Content:    comment.Content,
		IsApproved: comment.IsApproved,
		IsSpam:     comment.IsSpam,
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
	}
}

// notifyAuthor tells the recipe author about activity on their recipe. It
// never fails the caller.
func (s *reviewService) notifyAuthor(ctx context.Context, recipe *entities.Recipe, actor uuid.UUID, kind, contentType, objectID, description string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Notify(ctx, domain.NewNotification{
		UserID:      recipe.AuthorID,
		ActorID:     &actor,
		Type:        kind,
		Description: description,
		ContentType: contentType,
		ObjectID:    objectID,
	})
	if err != nil {
		log.Warnf("failed to notify author of recipe %s: %v", recipe.ID, err)
	}
}

func (s *reviewService) RateRecipe(ctx context.Context, recipeID string, req domain.RateRecipeRequest, principal domain.Principal) (domain.RateRecipeResponse, error) {
	id, err := domain.ParseID("id", recipeID)
	if err != nil {
		return domain.RateRecipeResponse{}, err
	}
	if req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		return domain.RateRecipeResponse{}, domain.Validation("rating", fmt.Sprintf("must be between %d and %d", domain.MinRating, domain.MaxRating))
	}

	var (
		recipe *entities.Recipe
		rating *entities.Rating
		agg    domain.RatingAggregate
	)
	err = s.reviewRepository.Transaction(ctx, func(tx ReviewRepository) error {
		var err error
		recipe, err = tx.LockRecipe(ctx, id)
		if err != nil {
			return err
		}
		if err := s.policy.CanRateRecipe(principal, recipe); err != nil {
			return err
		}

		if err := tx.UpsertRating(ctx, &entities.Rating{
			UserID:   principal.UserID,
			RecipeID: id,
			Rating:   req.Rating,
			Review:   strings.TrimSpace(req.Review),
		}); err != nil {
			return fmt.Errorf("upsert rating: %w", err)
		}

		if agg, err = tx.RecomputeRating(ctx, id); err != nil {
			return fmt.Errorf("recompute rating: %w", err)
		}

		rating, err = tx.GetUserRating(ctx, principal.UserID, id)
		return err
	})
	if err != nil {
		return domain.RateRecipeResponse{}, err
	}

	s.notifyAuthor(ctx, recipe, principal.UserID, domain.NotificationRating, "rating", rating.ID.String(),
		fmt.Sprintf("%s rated your recipe %q %d/5", rating.User.Username, recipe.Title, rating.Rating))

	return domain.RateRecipeResponse{
		Rating:          toRatingResponse(rating),
		RatingAggregate: agg,
	}, nil
}

func (s *reviewService) DeleteRating(ctx context.Context, recipeID string, principal domain.Principal) (domain.RatingAggregate, error) {
	id, err := domain.ParseID("id", recipeID)
	if err != nil {
		return domain.RatingAggregate{}, err
	}
	if principal.IsAnonymous() {
		return domain.RatingAggregate{}, domain.ErrTokenNotFound
	}

	var agg domain.RatingAggregate
	err = s.reviewRepository.Transaction(ctx, func(tx ReviewRepository) error {
		if _, err := tx.LockRecipe(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteUserRating(ctx, principal.UserID, id); err != nil {
			return err
		}
		var err error
		agg, err = tx.RecomputeRating(ctx, id)
		return err
	})
	return agg, err
}

func (s *reviewService) GetRatings(ctx context.Context, recipeID string, principal domain.Principal, page, limit int) ([]domain.RatingResponse, int64, error) {
	id, err := domain.ParseID("id", recipeID)
	if err != nil {
		return nil, 0, err
	}

	recipe, err := s.reviewRepository.GetRecipe(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if err := s.policy.CanViewRecipe(principal, recipe); err != nil {
		return nil, 0, err
	}

	ratings, count, err := s.reviewRepository.ListRatings(ctx, id, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]domain.RatingResponse, 0, len(ratings))
	for i := range ratings {
		res = append(res, toRatingResponse(&ratings[i]))
	}
	return res, count, nil
}

// ModerateRating flags or unflags a rating as spam and brings the recipe
// aggregate back in line.
func (s *reviewService) ModerateRating(ctx context.Context, ratingID string, req domain.ModerateRatingRequest, principal domain.Principal) (domain.RatingResponse, error) {
	if err := s.policy.CanModerate(principal); err != nil {
		return domain.RatingResponse{}, err
	}
	id, err := domain.ParseID("id", ratingID)
	if err != nil {
		return domain.RatingResponse{}, err
	}
	if req.IsSpam == nil {
		return domain.RatingResponse{}, domain.ErrModerationFieldsMissing
	}

	var rating *entities.Rating
	err = s.reviewRepository.Transaction(ctx, func(tx ReviewRepository) error {
		current, err := tx.GetRating(ctx, id)
		if err != nil {
			return err
		}
		if _, err := tx.LockRecipe(ctx, current.RecipeID); err != nil {
			return err
		}
		if err := tx.SetRatingSpam(ctx, id, *req.IsSpam); err != nil {
			return err
		}
		if _, err := tx.RecomputeRating(ctx, current.RecipeID); err != nil {
			return fmt.Errorf("recompute rating: %w", err)
		}
		rating, err = tx.GetRating(ctx, id)
		return err
	})
	if err != nil {
		return domain.RatingResponse{}, err
	}
	return toRatingResponse(rating), nil
}

func (s *reviewService) CreateComment(ctx context.Context, recipeID string, req domain.CreateCommentRequest, principal domain.Principal) (domain.CommentResponse, error) {
	if principal.IsAnonymous() {
		return domain.CommentResponse{}, domain.ErrTokenNotFound
	}
	id, err := domain.ParseID("id", recipeID)
	if err != nil {
		return domain.CommentResponse{}, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return domain.CommentResponse{}, domain.ErrCommentEmpty
	}
	if utf8.RuneCountInString(content) > domain.MaxCommentLength {
		return domain.CommentResponse{}, domain.Validation("content", fmt.Sprintf("must be at most %d characters", domain.MaxCommentLength))
	}

	recipe, err := s.reviewRepository.GetRecipe(ctx, id)
	if err != nil {
		return domain.CommentResponse{}, err
	}
	if err := s.policy.CanViewRecipe(principal, recipe); err != nil {
		return domain.CommentResponse{}, err
	}

	comment := &entities.Comment{
		RecipeID:   id,
		UserID:     principal.UserID,
		Content:    content,
		IsApproved: true,
	}
	if err := s.reviewRepository.CreateComment(ctx, comment); err != nil {
		return domain.CommentResponse{}, fmt.Errorf("create comment: %w", err)
	}

	created, err := s.reviewRepository.GetComment(ctx, comment.ID)
	if err != nil {
		return domain.CommentResponse{}, err
	}

	s.notifyAuthor(ctx, recipe, principal.UserID, domain.NotificationComment, "comment", created.ID.String(),
		fmt.Sprintf("%s commented on your recipe %q", created.User.Username, recipe.Title))

	return toCommentResponse(created), nil
}

func (s *reviewService) GetComments(ctx context.Context, recipeID string, principal domain.Principal, page, limit int) ([]domain.CommentResponse, int64, error) {
	id, err := domain.ParseID("id", recipeID)
	if err != nil {
		return nil, 0, err
	}

	recipe, err := s.reviewRepository.GetRecipe(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if err := s.policy.CanViewRecipe(principal, recipe); err != nil {
		return nil, 0, err
	}

	comments, count, err := s.reviewRepository.ListComments(ctx, id, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]domain.CommentResponse, 0, len(comments))
	for i := range comments {
		res = append(res, toCommentResponse(&comments[i]))
	}
	return res, count, nil
}

func (s *reviewService) DeleteComment(ctx context.Context, recipeID string, commentID string, principal domain.Principal) error {
	if principal.IsAnonymous() {
		return domain.ErrTokenNotFound
	}
	rid, err := domain.ParseID("id", recipeID)
	if err != nil {
		return err
	}
	cid, err := domain.ParseID("commentId", commentID)
	if err != nil {
		return err
	}

	comment, err := s.reviewRepository.GetComment(ctx, cid)
	if err != nil {
		return err
	}
	if comment.RecipeID != rid {
		return domain.ErrCommentNotFound
	}
	if comment.UserID != principal.UserID && !principal.IsAdmin() {
		return domain.ErrUnauthorizedCommentAccess
	}
	return s.reviewRepository.DeleteComment(ctx, cid)
}

func (s *reviewService) ModerateComment(ctx context.Context, commentID string, req domain.ModerateCommentRequest, principal domain.Principal) (domain.CommentResponse, error) {
	if err := s.policy.CanModerate(principal); err != nil {
		return domain.CommentResponse{}, err
	}
	id, err := domain.ParseID("id", commentID)
	if err != nil {
		return domain.CommentResponse{}, err
	}
	if req.IsApproved == nil && req.IsSpam == nil {
		return domain.CommentResponse{}, domain.ErrModerationFieldsMissing
	}

	comment, err := s.reviewRepository.GetComment(ctx, id)
	if err != nil {
		return domain.CommentResponse{}, err
	}
	if req.IsApproved != nil {
		comment.IsApproved = *req.IsApproved
	}
	if req.IsSpam != nil {
		comment.IsSpam = *req.IsSpam
	}
	if err := s.reviewRepository.ModerateComment(ctx, comment); err != nil {
		return domain.CommentResponse{}, err
	}
	return toCommentResponse(comment), nil
}
