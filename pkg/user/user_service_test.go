package user

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"RecipeAPI/internal/testutil"
	"RecipeAPI/internal/utils/storage"
	"RecipeAPI/pkg/jwt"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type userFixture struct {
	db      *gorm.DB
	jwt     jwt.JWTService
	storage *storage.Memory
	service UserService
}

func newUserFixture(t *testing.T) *userFixture {
	db := testutil.NewDB(t)
	jwtService := jwt.NewJWTService("test-secret", time.Hour, 24*time.Hour)
	memory := storage.NewMemoryStorage("http://cdn.test")
	return &userFixture{
		db:      db,
		jwt:     jwtService,
		storage: memory,
		service: NewUserService(NewUserRepository(db), jwtService, memory),
	}
}

func (f *userFixture) register(t *testing.T, username string) domain.UserResponse {
	res, err := f.service.Register(context.Background(), domain.RegisterRequest{
		Username:        username,
		Email:           username + "@Example.com",
		Password:        "s3cret-pass",
		PasswordConfirm: "s3cret-pass",
	})
	require.NoError(t, err)
	return res
}

func TestRegister(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	created := f.register(t, "alice")
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, "alice@example.com", created.Email)
	assert.Equal(t, domain.RoleUser, created.Role)

	var stored entities.User
	require.NoError(t, f.db.First(&stored, "username = ?", "alice").Error)
	assert.NotEqual(t, "s3cret-pass", stored.Password)

	_, err := f.service.Register(ctx, domain.RegisterRequest{
		Username: "Alice", Email: "ALICE@example.com", Password: "another-pass", PasswordConfirm: "another-pass",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "email")

	_, err = f.service.Register(ctx, domain.RegisterRequest{
		Username: "bob", Email: "bob@example.com", Password: "one-password", PasswordConfirm: "two-password",
	})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password_confirm")
}

func TestLoginAndRefresh(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	created := f.register(t, "alice")

	for _, login := range []string{"alice", "ALICE@example.com"} {
		tokens, err := f.service.Login(ctx, domain.LoginRequest{Username: login, Password: "s3cret-pass"})
		require.NoError(t, err, login)
		assert.Equal(t, domain.TokenTypeBearer, tokens.TokenType)
		assert.EqualValues(t, 3600, tokens.ExpiresIn)
		require.NotNil(t, tokens.User)
		assert.Equal(t, created.ID, tokens.User.ID)

		userID, role, err := f.jwt.GetUserIDByToken(tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, created.ID, userID)
		assert.Equal(t, domain.RoleUser, role)
	}

	_, err := f.service.Login(ctx, domain.LoginRequest{Username: "alice", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.service.Login(ctx, domain.LoginRequest{Username: "nobody", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	tokens, err := f.service.Login(ctx, domain.LoginRequest{Username: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)

	refreshed, err := f.service.RefreshToken(ctx, domain.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Empty(t, refreshed.RefreshToken)

	// An access token is not accepted where a refresh token is expected.
	_, err = f.service.RefreshToken(ctx, domain.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestProfile(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	admin := testutil.CreateAdmin(t, f.db, "root")

	var aliceRow, bobRow entities.User
	require.NoError(t, f.db.First(&aliceRow, "username = ?", "alice").Error)
	require.NoError(t, f.db.First(&bobRow, "username = ?", "bob").Error)
	require.NoError(t, f.db.Create(&entities.Follow{FollowerID: bobRow.ID, FollowingID: aliceRow.ID}).Error)
	testutil.CreateRecipe(t, f.db, &aliceRow, "Toast", 1)

	asBob := testutil.Principal(&bobRow)
	profile, err := f.service.GetProfile(ctx, alice.ID, asBob)
	require.NoError(t, err)
	assert.Empty(t, profile.Email)
	assert.EqualValues(t, 1, profile.FollowersCount)
	assert.EqualValues(t, 1, profile.RecipesCount)
	assert.True(t, profile.IsFollowing)

	me, err := f.service.Me(ctx, testutil.Principal(&aliceRow))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", me.Email)

	_, err = f.service.UpdateProfile(ctx, alice.ID, domain.UpdateProfileRequest{Bio: ptr("hi")}, asBob)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.service.UpdateProfile(ctx, bob.ID, domain.UpdateProfileRequest{Email: ptr("alice@example.com")}, asBob)
	assert.ErrorIs(t, err, domain.ErrValidation)

	updated, err := f.service.UpdateProfile(ctx, bob.ID, domain.UpdateProfileRequest{
		Bio:         ptr("  Home cook  "),
		SocialLinks: &map[string]string{"site": "https://bob.example.com"},
	}, asBob)
	require.NoError(t, err)
	assert.Equal(t, "Home cook", updated.Bio)
	assert.Equal(t, "https://bob.example.com", updated.SocialLinks["site"])

	updated, err = f.service.UpdateProfile(ctx, alice.ID, domain.UpdateProfileRequest{FirstName: ptr("Alice")}, testutil.Principal(admin))
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, "alice@example.com", updated.Email)

	_, err = f.service.GetProfile(ctx, "00000000-0000-0000-0000-000000000001", asBob)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUploadProfilePicture(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	var row entities.User
	require.NoError(t, f.db.First(&row, "username = ?", "alice").Error)
	owner := testutil.Principal(&row)

	_, err := f.service.UploadProfilePicture(ctx, alice.ID, domain.UploadProfilePictureRequest{
		Image: testutil.FileHeader(t, "image", "notes.txt", []byte("plain text, not an image")),
	}, owner)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, f.storage.Len())

	first, err := f.service.UploadProfilePicture(ctx, alice.ID, domain.UploadProfilePictureRequest{
		Image: testutil.FileHeader(t, "image", "me.png", testutil.PNGHeader),
	}, owner)
	require.NoError(t, err)
	assert.True(t, f.storage.Has(f.storage.GetObjectKeyFromLink(first.ProfilePicture)))

	second, err := f.service.UploadProfilePicture(ctx, alice.ID, domain.UploadProfilePictureRequest{
		Image: testutil.FileHeader(t, "image", "me2.png", testutil.PNGHeader),
	}, owner)
	require.NoError(t, err)
	assert.NotEqual(t, first.ProfilePicture, second.ProfilePicture)
	assert.Equal(t, 1, f.storage.Len())

	_, err = f.service.UploadProfilePicture(ctx, alice.ID, domain.UploadProfilePictureRequest{
		Image: testutil.FileHeader(t, "image", "me.png", testutil.PNGHeader),
	}, domain.Principal{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func ptr[T any](v T) *T { return &v }
