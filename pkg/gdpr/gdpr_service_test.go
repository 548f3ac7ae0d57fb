package gdpr

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"RecipeAPI/internal/testutil"
	"RecipeAPI/internal/utils/storage"
	"RecipeAPI/pkg/notification"
	"RecipeAPI/pkg/permission"
	"RecipeAPI/pkg/review"
	"RecipeAPI/pkg/social"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type gdprFixture struct {
	db      *gorm.DB
	store   *storage.Memory
	service GDPRService
	alice   *entities.User
	bob     *entities.User
	carol   *entities.User
	soup    *entities.Recipe
	stew    *entities.Recipe
	image   string
	version *entities.RecipeVersion
}

// newGDPRFixture gives alice a recipe with a stored image plus activity on
// bob's recipe: a rating, a comment, a favorite, follows, a message and an
// attributed version.
func newGDPRFixture(t *testing.T) *gdprFixture {
	t.Helper()
	ctx := context.Background()
	db := testutil.NewDB(t)
	store := storage.NewMemoryStorage("http://cdn.test")
	f := &gdprFixture{
		db:      db,
		store:   store,
		service: NewGDPRService(NewGDPRRepository(db), store),
		alice:   testutil.CreateUser(t, db, "alice"),
		bob:     testutil.CreateUser(t, db, "bob"),
		carol:   testutil.CreateUser(t, db, "carol"),
	}
	f.soup = testutil.CreateRecipe(t, db, f.alice, "Soup", 2,
		entities.Ingredient{Name: "Leek", Quantity: testutil.Qty("2")})
	f.stew = testutil.CreateRecipe(t, db, f.bob, "Stew", 4)

	key, err := store.UploadFile(ctx, "soup", testutil.FileHeader(t, "image", "soup.png", testutil.PNGHeader), "recipes", storage.AllowImage...)
	require.NoError(t, err)
	f.image = key
	require.NoError(t, db.Model(f.soup).Update("featured_image", store.GetPublicLinkKey(key)).Error)

	notifier := notification.NewNotificationService(notification.NewNotificationRepository(db), nil)
	policy := permission.NewPolicy(false)
	reviews := review.NewReviewService(review.NewReviewRepository(db), policy, notifier)
	socials := social.NewSocialService(social.NewSocialRepository(db), policy, notifier)
	asAlice := testutil.Principal(f.alice)

	_, err = reviews.RateRecipe(ctx, f.stew.ID.String(), domain.RateRecipeRequest{Rating: 5}, asAlice)
	require.NoError(t, err)
	_, err = reviews.RateRecipe(ctx, f.stew.ID.String(), domain.RateRecipeRequest{Rating: 3}, testutil.Principal(f.carol))
	require.NoError(t, err)
	_, err = reviews.CreateComment(ctx, f.stew.ID.String(), domain.CreateCommentRequest{Content: "Lovely"}, asAlice)
	require.NoError(t, err)
	_, err = socials.AddFavorite(ctx, f.stew.ID.String(), asAlice)
	require.NoError(t, err)
	_, err = socials.Follow(ctx, f.bob.ID.String(), asAlice)
	require.NoError(t, err)
	_, err = socials.Follow(ctx, f.alice.ID.String(), testutil.Principal(f.bob))
	require.NoError(t, err)
	_, err = socials.SendMessage(ctx, f.alice.ID.String(),
		domain.SendMessageRequest{ReceiverID: f.bob.ID.String(), Content: "Can I borrow the stew recipe?"}, asAlice)
	require.NoError(t, err)

	f.version = &entities.RecipeVersion{
		RecipeID:            f.stew.ID,
		VersionNumber:       1,
		Title:               "Stew",
		IngredientsSnapshot: datatypes.JSONSlice[entities.IngredientSnapshot]{},
		ChangedByID:         &f.alice.ID,
		ChangeSummary:       "Fixed a typo",
	}
	require.NoError(t, db.Omit("Recipe", "ChangedBy").Create(f.version).Error)
	return f
}

func (f *gdprFixture) count(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func TestExportUserData(t *testing.T) {
	f := newGDPRFixture(t)

	export, err := f.service.ExportUserData(context.Background(), testutil.Principal(f.alice))
	require.NoError(t, err)

	assert.Equal(t, "alice", export.Profile.Username)
	assert.Equal(t, "alice@example.com", export.Profile.Email)
	require.Len(t, export.Recipes, 1)
	assert.Equal(t, "Soup", export.Recipes[0].Title)
	assert.Len(t, export.Recipes[0].Ingredients, 1)

	require.Len(t, export.Ratings, 1)
	assert.Equal(t, 5, export.Ratings[0].Rating)
	assert.Equal(t, f.stew.ID.String(), export.Ratings[0].RecipeID)
	require.Len(t, export.Comments, 1)
	assert.Equal(t, "Lovely", export.Comments[0].Content)
	assert.Len(t, export.Favorites, 1)

	require.Len(t, export.Following, 1)
	assert.Equal(t, f.bob.ID.String(), export.Following[0].UserID)
	require.Len(t, export.Followers, 1)
	assert.Equal(t, f.bob.ID.String(), export.Followers[0].UserID)

	assert.Len(t, export.MessagesSent, 1)
	assert.Empty(t, export.MessagesReceived)
	require.Len(t, export.Notifications, 1)
	assert.Equal(t, domain.NotificationFollow, export.Notifications[0].NotificationType)

	_, err = f.service.ExportUserData(context.Background(), domain.Principal{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestEraseUserData(t *testing.T) {
	f := newGDPRFixture(t)
	ctx := context.Background()
	require.True(t, f.store.Has(f.image))

	require.NoError(t, f.service.EraseUserData(ctx, testutil.Principal(f.alice)))

	assert.Zero(t, f.count(t, &entities.User{}, "id = ?", f.alice.ID))
	assert.Zero(t, f.count(t, &entities.Recipe{}, "author_id = ?", f.alice.ID))
	assert.Zero(t, f.count(t, &entities.Ingredient{}, "recipe_id = ?", f.soup.ID))
	assert.Zero(t, f.count(t, &entities.Rating{}, "user_id = ?", f.alice.ID))
	assert.Zero(t, f.count(t, &entities.Comment{}, "user_id = ?", f.alice.ID))
	assert.Zero(t, f.count(t, &entities.Favorite{}, "user_id = ?", f.alice.ID))
	assert.Zero(t, f.count(t, &entities.Follow{}, "follower_id = ? OR following_id = ?", f.alice.ID, f.alice.ID))
	assert.Zero(t, f.count(t, &entities.Message{}, "sender_id = ? OR receiver_id = ?", f.alice.ID, f.alice.ID))
	assert.Zero(t, f.count(t, &entities.Notification{}, "user_id = ? OR actor_id = ?", f.alice.ID, f.alice.ID))

	var stew entities.Recipe
	require.NoError(t, f.db.First(&stew, "id = ?", f.stew.ID).Error)
	assert.Equal(t, 3.0, stew.AverageRating)
	assert.Equal(t, 1, stew.TotalRatings)

	var version entities.RecipeVersion
	require.NoError(t, f.db.First(&version, "id = ?", f.version.ID).Error)
	assert.Nil(t, version.ChangedByID)
	assert.Equal(t, "Fixed a typo", version.ChangeSummary)

	assert.False(t, f.store.Has(f.image))
	assert.EqualValues(t, 1, f.count(t, &entities.User{}, "id = ?", f.bob.ID))

	assert.ErrorIs(t, f.service.EraseUserData(ctx, testutil.Principal(f.alice)), domain.ErrNotFound)
}
