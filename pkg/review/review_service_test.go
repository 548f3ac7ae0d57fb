package review

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"RecipeAPI/internal/testutil"
	"RecipeAPI/pkg/notification"
	"RecipeAPI/pkg/permission"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type reviewFixture struct {
	db      *gorm.DB
	service ReviewService
	author  *entities.User
	alice   *entities.User
	bob     *entities.User
	admin   *entities.User
	recipe  *entities.Recipe
}

func newReviewFixture(t *testing.T) *reviewFixture {
	db := testutil.NewDB(t)
	author := testutil.CreateUser(t, db, "chef")
	notifier := notification.NewNotificationService(notification.NewNotificationRepository(db), nil)
	return &reviewFixture{
		db:      db,
		service: NewReviewService(NewReviewRepository(db), permission.NewPolicy(false), notifier),
		author:  author,
		alice:   testutil.CreateUser(t, db, "alice"),
		bob:     testutil.CreateUser(t, db, "bob"),
		admin:   testutil.CreateAdmin(t, db, "root"),
		recipe:  testutil.CreateRecipe(t, db, author, "Stew", 4),
	}
}

func (f *reviewFixture) storedAggregate(t *testing.T) (float64, int) {
	var recipe entities.Recipe
	require.NoError(t, f.db.First(&recipe, "id = ?", f.recipe.ID).Error)
	return recipe.AverageRating, recipe.TotalRatings
}

func (f *reviewFixture) rate(t *testing.T, user *entities.User, score int) domain.RateRecipeResponse {
	res, err := f.service.RateRecipe(context.Background(), f.recipe.ID.String(),
		domain.RateRecipeRequest{Rating: score}, testutil.Principal(user))
	require.NoError(t, err)
	return res
}

func TestRateRecipeRecomputesAggregate(t *testing.T) {
	f := newReviewFixture(t)

	f.rate(t, f.alice, 5)
	res := f.rate(t, f.bob, 3)
	assert.InDelta(t, 4.0, res.AverageRating, 1e-9)
	assert.Equal(t, 2, res.TotalRatings)
	assert.Equal(t, "bob", res.Rating.User.Username)

	avg, total := f.storedAggregate(t)
	assert.InDelta(t, 4.0, avg, 1e-9)
	assert.Equal(t, 2, total)

	// Rating again replaces the earlier score instead of adding a row.
	res = f.rate(t, f.alice, 1)
	assert.InDelta(t, 2.0, res.AverageRating, 1e-9)
	assert.Equal(t, 2, res.TotalRatings)

	var rows int64
	require.NoError(t, f.db.Model(&entities.Rating{}).Where("recipe_id = ?", f.recipe.ID).Count(&rows).Error)
	assert.EqualValues(t, 2, rows)

	var notified int64
	require.NoError(t, f.db.Model(&entities.Notification{}).
		Where("user_id = ? AND notification_type = ?", f.author.ID, domain.NotificationRating).
		Count(&notified).Error)
	assert.EqualValues(t, 3, notified)
}

func TestModerateRatingSpamLeavesAggregate(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	f.rate(t, f.alice, 5)
	spam := f.rate(t, f.bob, 3)

	_, err := f.service.ModerateRating(ctx, spam.Rating.ID, domain.ModerateRatingRequest{IsSpam: ptr(true)}, testutil.Principal(f.alice))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	moderated, err := f.service.ModerateRating(ctx, spam.Rating.ID, domain.ModerateRatingRequest{IsSpam: ptr(true)}, testutil.Principal(f.admin))
	require.NoError(t, err)
	assert.True(t, moderated.IsSpam)

	avg, total := f.storedAggregate(t)
	assert.InDelta(t, 5.0, avg, 1e-9)
	assert.Equal(t, 1, total)

	// Re-rating keeps the spam flag, so the aggregate is untouched.
	res := f.rate(t, f.bob, 1)
	assert.True(t, res.Rating.IsSpam)
	assert.InDelta(t, 5.0, res.AverageRating, 1e-9)
	assert.Equal(t, 1, res.TotalRatings)

	list, count, err := f.service.GetRatings(ctx, f.recipe.ID.String(), domain.Principal{}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].User.Username)

	_, err = f.service.ModerateRating(ctx, spam.Rating.ID, domain.ModerateRatingRequest{IsSpam: ptr(false)}, testutil.Principal(f.admin))
	require.NoError(t, err)
	avg, total = f.storedAggregate(t)
	assert.InDelta(t, 3.0, avg, 1e-9)
	assert.Equal(t, 2, total)
}

func TestDeleteRating(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	f.rate(t, f.alice, 4)
	agg, err := f.service.DeleteRating(ctx, f.recipe.ID.String(), testutil.Principal(f.alice))
	require.NoError(t, err)
	assert.Zero(t, agg.AverageRating)
	assert.Zero(t, agg.TotalRatings)

	avg, total := f.storedAggregate(t)
	assert.Zero(t, avg)
	assert.Zero(t, total)

	_, err = f.service.DeleteRating(ctx, f.recipe.ID.String(), testutil.Principal(f.alice))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRateRecipeRejects(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	require.NoError(t, f.db.Model(f.recipe).Update("visibility", domain.VisibilityDraft).Error)

	tests := []struct {
		name      string
		recipeID  string
		score     int
		principal domain.Principal
		kind      error
	}{
		{"anonymous", f.recipe.ID.String(), 4, domain.Principal{}, domain.ErrUnauthorized},
		{"draft by stranger", f.recipe.ID.String(), 4, testutil.Principal(f.alice), domain.ErrForbidden},
		{"out of range", f.recipe.ID.String(), 6, testutil.Principal(f.alice), domain.ErrValidation},
		{"zero", f.recipe.ID.String(), 0, testutil.Principal(f.alice), domain.ErrValidation},
		{"bad id", "nope", 4, testutil.Principal(f.alice), domain.ErrValidation},
		{"missing recipe", "00000000-0000-0000-0000-000000000001", 4, testutil.Principal(f.alice), domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.RateRecipe(ctx, tt.recipeID, domain.RateRecipeRequest{Rating: tt.score}, tt.principal)
			assert.ErrorIs(t, err, tt.kind)
		})
	}

	// The author may rate their own draft and is not notified about it.
	res, err := f.service.RateRecipe(ctx, f.recipe.ID.String(), domain.RateRecipeRequest{Rating: 5}, testutil.Principal(f.author))
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalRatings)

	var notified int64
	require.NoError(t, f.db.Model(&entities.Notification{}).Where("user_id = ?", f.author.ID).Count(&notified).Error)
	assert.Zero(t, notified)
}

func TestCommentLifecycle(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	recipeID := f.recipe.ID.String()

	_, err := f.service.CreateComment(ctx, recipeID, domain.CreateCommentRequest{Content: "   "}, testutil.Principal(f.alice))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.service.CreateComment(ctx, recipeID, domain.CreateCommentRequest{Content: "hi"}, domain.Principal{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	first, err := f.service.CreateComment(ctx, recipeID, domain.CreateCommentRequest{Content: "  Lovely stew  "}, testutil.Principal(f.alice))
	require.NoError(t, err)
	assert.Equal(t, "Lovely stew", first.Content)
	assert.True(t, first.IsApproved)
	assert.Equal(t, "alice", first.User.Username)

	second, err := f.service.CreateComment(ctx, recipeID, domain.CreateCommentRequest{Content: "Buy cheap pills"}, testutil.Principal(f.bob))
	require.NoError(t, err)

	list, count, err := f.service.GetComments(ctx, recipeID, domain.Principal{}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Len(t, list, 2)

	_, err = f.service.ModerateComment(ctx, second.ID, domain.ModerateCommentRequest{}, testutil.Principal(f.admin))
	assert.ErrorIs(t, err, domain.ErrValidation)

	moderated, err := f.service.ModerateComment(ctx, second.ID, domain.ModerateCommentRequest{IsSpam: ptr(true)}, testutil.Principal(f.admin))
	require.NoError(t, err)
	assert.True(t, moderated.IsSpam)

	list, count, err = f.service.GetComments(ctx, recipeID, domain.Principal{}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, first.ID, list[0].ID)

	assert.ErrorIs(t, f.service.DeleteComment(ctx, recipeID, first.ID, testutil.Principal(f.bob)), domain.ErrForbidden)
	other := testutil.CreateRecipe(t, f.db, f.author, "Pie", 2)
	assert.ErrorIs(t, f.service.DeleteComment(ctx, other.ID.String(), first.ID, testutil.Principal(f.alice)), domain.ErrNotFound)

	require.NoError(t, f.service.DeleteComment(ctx, recipeID, first.ID, testutil.Principal(f.alice)))
	require.NoError(t, f.service.DeleteComment(ctx, recipeID, second.ID, testutil.Principal(f.admin)))
	assert.ErrorIs(t, f.service.DeleteComment(ctx, recipeID, second.ID, testutil.Principal(f.admin)), domain.ErrNotFound)

	var notified int64
	require.NoError(t, f.db.Model(&entities.Notification{}).
		Where("user_id = ? AND notification_type = ?", f.author.ID, domain.NotificationComment).
		Count(&notified).Error)
	assert.EqualValues(t, 2, notified)
}

func ptr[T any](v T) *T { return &v }
