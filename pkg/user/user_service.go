package user

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"RecipeAPI/internal/utils"
	"RecipeAPI/internal/utils/storage"
	"RecipeAPI/pkg/jwt"
	"context"
	"errors"
	"fmt"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"strings"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.TokenResponse, error)
		RefreshToken(ctx context.Context, req domain.RefreshTokenRequest) (domain.TokenResponse, error)
		Me(ctx context.Context, principal domain.Principal) (domain.ProfileResponse, error)
		GetProfile(ctx context.Context, userID string, principal domain.Principal) (domain.ProfileResponse, error)
		UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest, principal domain.Principal) (domain.ProfileResponse, error)
		UploadProfilePicture(ctx context.Context, userID string, req domain.UploadProfilePictureRequest, principal domain.Principal) (domain.UserResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		s3             storage.AwsS3
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, s3 storage.AwsS3) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		s3:             s3,
	}
}

func ToUserSummary(user *entities.User) domain.UserSummary {
	if user == nil {
		return domain.UserSummary{}
	}
	return domain.UserSummary{
		ID:             user.ID.String(),
		Username:       user.Username,
		ProfilePicture: user.ProfilePicture,
	}
}

// ToUserResponse renders a user. The e-mail address is only included when
// withEmail is set (the user themself or an admin).
func ToUserResponse(user *entities.User, withEmail bool) domain.UserResponse {
	res := domain.UserResponse{
		ID:             user.ID.String(),
		Username:       user.Username,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		SocialLinks:    map[string]any(user.SocialLinks),
		Role:           user.Role,
		CreatedAt:      user.CreatedAt,
	}
	if res.SocialLinks == nil {
		res.SocialLinks = map[string]any{}
	}
	if withEmail {
		res.Email = user.Email
	}
	return res
}

func canSeePrivate(principal domain.Principal, userID uuid.UUID) bool {
	return principal.UserID == userID || principal.IsAdmin()
}

func (s *userService) uniquenessErrors(ctx context.Context, username, email string, self uuid.UUID) error {
	verr := &domain.ValidationError{}
	if username != "" {
		taken, err := s.userRepository.UsernameExists(ctx, username)
		if err != nil {
			return err
		}
		if taken {
			verr.Add("username", domain.ErrUsernameTaken.Fields["username"])
		}
	}
	if email != "" {
		taken, err := s.userRepository.EmailExists(ctx, email, self)
		if err != nil {
			return err
		}
		if taken {
			verr.Add("email", domain.ErrEmailTaken.Fields["email"])
		}
	}
	return verr.OrNil()
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if req.Password != req.PasswordConfirm {
		return domain.UserResponse{}, domain.ErrPasswordConfirmationFailed
	}
	if err := s.uniquenessErrors(ctx, username, email, uuid.Nil); err != nil {
		return domain.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user := &entities.User{
		Username:    username,
		Email:       email,
		Password:    string(hash),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		SocialLinks: datatypes.JSONMap{},
		Role:        domain.RoleUser,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if utils.IsDuplicateKey(err) {
			if verr := s.uniquenessErrors(ctx, username, email, uuid.Nil); verr != nil {
				return domain.UserResponse{}, verr
			}
			return domain.UserResponse{}, domain.ErrUsernameTaken
		}
		return domain.UserResponse{}, fmt.Errorf("create user: %w", err)
	}

	log.Infof("registered user %s", user.ID)
	return ToUserResponse(user, true), nil
}

func (s *userService) issueTokens(user *entities.User, withRefresh bool) (domain.TokenResponse, error) {
	access, err := s.jwtService.GenerateAccessToken(user.ID.String(), user.Role)
	if err != nil {
		return domain.TokenResponse{}, err
	}
	res := domain.TokenResponse{
		AccessToken: access,
		TokenType:   domain.TokenTypeBearer,
		ExpiresIn:   int64(s.jwtService.AccessTTL().Seconds()),
	}
	if withRefresh {
		if res.RefreshToken, err = s.jwtService.GenerateRefreshToken(user.ID.String(), user.Role); err != nil {
			return domain.TokenResponse{}, err
		}
	}
	return res, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.TokenResponse, error) {
	user, err := s.userRepository.GetUserByLogin(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.TokenResponse{}, domain.ErrInvalidCredentials
		}
		return domain.TokenResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.TokenResponse{}, domain.ErrInvalidCredentials
	}

	res, err := s.issueTokens(user, true)
	if err != nil {
		return domain.TokenResponse{}, err
	}
	profile := ToUserResponse(user, true)
	res.User = &profile
	return res, nil
}

func (s *userService) RefreshToken(ctx context.Context, req domain.RefreshTokenRequest) (domain.TokenResponse, error) {
	userID, _, err := s.jwtService.GetUserIDByRefreshToken(req.RefreshToken)
	if err != nil {
		return domain.TokenResponse{}, err
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.TokenResponse{}, domain.ErrTokenInvalid
	}

	// The role is read again so demotions take effect on refresh.
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.TokenResponse{}, domain.ErrTokenInvalid
		}
		return domain.TokenResponse{}, err
	}
	return s.issueTokens(user, false)
}

func (s *userService) Me(ctx context.Context, principal domain.Principal) (domain.ProfileResponse, error) {
	if principal.IsAnonymous() {
		return domain.ProfileResponse{}, domain.ErrTokenNotFound
	}
	user, err := s.userRepository.GetUserByID(ctx, principal.UserID)
	if err != nil {
		return domain.ProfileResponse{}, err
	}
	return s.toProfile(ctx, user, principal)
}

func (s *userService) GetProfile(ctx context.Context, userID string, principal domain.Principal) (domain.ProfileResponse, error) {
	id, err := domain.ParseID("id", userID)
	if err != nil {
		return domain.ProfileResponse{}, err
	}
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return domain.ProfileResponse{}, err
	}
	return s.toProfile(ctx, user, principal)
}

func (s *userService) toProfile(ctx context.Context, user *entities.User, principal domain.Principal) (domain.ProfileResponse, error) {
	private := canSeePrivate(principal, user.ID)
	counts, err := s.userRepository.GetProfileCounts(ctx, user.ID, !private)
	if err != nil {
		return domain.ProfileResponse{}, err
	}

	res := domain.ProfileResponse{
		UserResponse:   ToUserResponse(user, private),
		RecipesCount:   counts.Recipes,
		FollowersCount: counts.Followers,
		FollowingCount: counts.Following,
		FavoritesCount: counts.Favorites,
	}
	if !principal.IsAnonymous() && principal.UserID != user.ID {
		if res.IsFollowing, err = s.userRepository.IsFollowing(ctx, principal.UserID, user.ID); err != nil {
			return domain.ProfileResponse{}, err
		}
	}
	return res, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest, principal domain.Principal) (domain.ProfileResponse, error) {
	id, err := domain.ParseID("id", userID)
	if err != nil {
		return domain.ProfileResponse{}, err
	}
	if principal.IsAnonymous() {
		return domain.ProfileResponse{}, domain.ErrTokenNotFound
	}
	if !canSeePrivate(principal, id) {
		return domain.ProfileResponse{}, domain.ErrUnauthorizedProfileAccess
	}

	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return domain.ProfileResponse{}, err
	}

	var columns []string
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if err := s.uniquenessErrors(ctx, "", email, user.ID); err != nil {
			return domain.ProfileResponse{}, err
		}
		user.Email = email
		columns = append(columns, "email")
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
		columns = append(columns, "first_name")
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
		columns = append(columns, "last_name")
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
		columns = append(columns, "bio")
	}
	if req.SocialLinks != nil {
		links := datatypes.JSONMap{}
		for k, v := range *req.SocialLinks {
			links[k] = v
		}
		user.SocialLinks = links
		columns = append(columns, "social_links")
	}

	if len(columns) > 0 {
		if err := s.userRepository.UpdateUser(ctx, user, columns...); err != nil {
			if utils.IsDuplicateKey(err) {
				return domain.ProfileResponse{}, domain.ErrEmailTaken
			}
			return domain.ProfileResponse{}, fmt.Errorf("update user: %w", err)
		}
	}
	return s.toProfile(ctx, user, principal)
}

func (s *userService) UploadProfilePicture(ctx context.Context, userID string, req domain.UploadProfilePictureRequest, principal domain.Principal) (domain.UserResponse, error) {
	id, err := domain.ParseID("id", userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	if principal.IsAnonymous() {
		return domain.UserResponse{}, domain.ErrTokenNotFound
	}
	if !canSeePrivate(principal, id) {
		return domain.UserResponse{}, domain.ErrUnauthorizedProfileAccess
	}

	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return domain.UserResponse{}, err
	}

	objectKey, err := s.s3.UploadFile(ctx, user.Username, req.Image, "profile_pictures", storage.AllowImage...)
	if err != nil {
		return domain.UserResponse{}, err
	}

	previous := user.ProfilePicture
	user.ProfilePicture = s.s3.GetPublicLinkKey(objectKey)
	if err := s.userRepository.UpdateUser(ctx, user, "profile_picture"); err != nil {
		_ = s.s3.DeleteFile(ctx, objectKey)
		return domain.UserResponse{}, fmt.Errorf("update profile picture: %w", err)
	}

	if key := s.s3.GetObjectKeyFromLink(previous); key != "" {
		if err := s.s3.DeleteFile(ctx, key); err != nil {
			log.Warnf("failed to delete old profile picture %s: %v", key, err)
		}
	}
	return ToUserResponse(user, true), nil
}
