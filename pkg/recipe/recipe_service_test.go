package recipe

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"RecipeAPI/internal/testutil"
	"RecipeAPI/internal/utils/storage"
	"RecipeAPI/pkg/permission"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type serviceFixture struct {
	db      *gorm.DB
	service RecipeService
	catalog CatalogService
	store   *storage.Memory
	author  *entities.User
	other   *entities.User
	admin   *entities.User
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db := testutil.NewDB(t)
	store := storage.NewMemoryStorage("http://cdn.test")
	policy := permission.NewPolicy(false)
	repo := NewRecipeRepository(db)
	tags := NewTagRepository(db)

	return &serviceFixture{
		db:      db,
		service: NewRecipeService(repo, tags, policy, store, time.Minute),
		catalog: NewCatalogService(repo, tags, policy),
		store:   store,
		author:  testutil.CreateUser(t, db, "author"),
		other:   testutil.CreateUser(t, db, "other"),
		admin:   testutil.CreateAdmin(t, db, "admin"),
	}
}

func (f *serviceFixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func carbonaraRequest() domain.CreateRecipeRequest {
	servings := 4
	return domain.CreateRecipeRequest{
		Title:        "Pasta Carbonara!",
		Description:  "Roman classic",
		ServingSize:  &servings,
		CookTime:     20,
		PrepTime:     10,
		Instructions: []string{"Boil pasta", "Mix eggs and cheese", "Combine"},
		Ingredients: []domain.IngredientRequest{
			{Name: "Spaghetti", Quantity: testutil.Qty("400"), Unit: "g"},
			{Name: "Eggs", Quantity: testutil.Qty("3"), Unit: "piece"},
			{Name: "Pecorino", Quantity: testutil.Qty("50"), Unit: "g", Notes: "grated"},
		},
	}
}

func TestCreateRecipe(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	detail, err := f.service.CreateRecipe(ctx, carbonaraRequest(), testutil.Principal(f.author))
	require.NoError(t, err)

	assert.Equal(t, "pasta-carbonara", detail.Slug)
	assert.Equal(t, domain.VisibilityDraft, detail.Visibility)
	assert.Equal(t, domain.DifficultyMedium, detail.Difficulty)
	assert.Equal(t, 30, detail.TotalTime)
	assert.Zero(t, detail.AverageRating)
	assert.Zero(t, detail.TotalRatings)
	assert.Zero(t, detail.ViewCount)
	require.Len(t, detail.Ingredients, 3)
	assert.Equal(t, "Spaghetti", detail.Ingredients[0].Name)
	assert.Equal(t, domain.IngredientTypeMain, detail.Ingredients[0].Type)
	assert.Equal(t, "Pecorino (grated)", detail.Ingredients[2].FullName)

	versions, total, err := f.service.GetVersions(ctx, detail.ID, testutil.Principal(f.author), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, versions, 1)
	assert.Equal(t, 1, versions[0].VersionNumber)
	assert.Equal(t, domain.InitialVersionSummary, versions[0].ChangeSummary)
	assert.Len(t, versions[0].IngredientsSnapshot, 3)
	require.NotNil(t, versions[0].ChangedByID)
	assert.Equal(t, f.author.ID.String(), *versions[0].ChangedByID)
}

func TestCreateRecipeDefaults(t *testing.T) {
	f := newServiceFixture(t)

	detail, err := f.service.CreateRecipe(context.Background(), domain.CreateRecipeRequest{
		Title:    "Toast",
		CookTime: 2,
	}, testutil.Principal(f.author))
	require.NoError(t, err)

	assert.Equal(t, 1, detail.ServingSize)
	assert.Equal(t, 0, detail.PrepTime)
	assert.Empty(t, detail.Ingredients)
	assert.NotNil(t, detail.Instructions)
}

func TestCreateRecipeRejectsMalformedIngredientAtomically(t *testing.T) {
	f := newServiceFixture(t)
	req := carbonaraRequest()
	req.Ingredients[1].Quantity = testutil.Qty("-1")
	req.Ingredients[2].Name = "   "

	_, err := f.service.CreateRecipe(context.Background(), req, testutil.Principal(f.author))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "ingredients[1].quantity")
	assert.Contains(t, verr.Fields, "ingredients[2].name")

	assert.Zero(t, f.count(t, &entities.Recipe{}))
	assert.Zero(t, f.count(t, &entities.Ingredient{}))
	assert.Zero(t, f.count(t, &entities.RecipeVersion{}))
}

func TestCreateRecipeValidation(t *testing.T) {
	f := newServiceFixture(t)
	zero := 0

	tests := []struct {
		name  string
		req   domain.CreateRecipeRequest
		field string
	}{
		{"blank title", domain.CreateRecipeRequest{Title: "  ", CookTime: 5}, "title"},
		{"title without slug characters", domain.CreateRecipeRequest{Title: "!!!", CookTime: 5}, "title"},
		{"cook time", domain.CreateRecipeRequest{Title: "Soup", CookTime: 0}, "cook_time"},
		{"serving size", domain.CreateRecipeRequest{Title: "Soup", CookTime: 5, ServingSize: &zero}, "serving_size"},
		{"unknown unit", domain.CreateRecipeRequest{Title: "Soup", CookTime: 5, Ingredients: []domain.IngredientRequest{
			{Name: "Water", Quantity: testutil.Qty("1"), Unit: "bucket"},
		}}, "ingredients[0].unit"},
		{"negative quantity", domain.CreateRecipeRequest{Title: "Soup", CookTime: 5, Ingredients: []domain.IngredientRequest{
			{Name: "Water", Quantity: testutil.Qty("-1"), Unit: "ml"},
		}}, "ingredients[0].quantity"},
		{"quantity rounds up to the column limit", domain.CreateRecipeRequest{Title: "Soup", CookTime: 5, Ingredients: []domain.IngredientRequest{
			{Name: "Water", Quantity: testutil.Qty("99999999.995"), Unit: "ml"},
		}}, "ingredients[0].quantity"},
		{"bad tag id", domain.CreateRecipeRequest{Title: "Soup", CookTime: 5, TagIDs: []string{"nope"}}, "tag_ids[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateRecipe(context.Background(), tt.req, testutil.Principal(f.author))
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
	assert.Zero(t, f.count(t, &entities.Recipe{}))
}

func TestCreateRecipeLargestQuantity(t *testing.T) {
	f := newServiceFixture(t)

	created, err := f.service.CreateRecipe(context.Background(), domain.CreateRecipeRequest{
		Title:    "Stock",
		CookTime: 5,
		Ingredients: []domain.IngredientRequest{
			{Name: "Water", Quantity: testutil.Qty("99999999.994"), Unit: "ml"},
		},
	}, testutil.Principal(f.author))
	require.NoError(t, err)
	require.Len(t, created.Ingredients, 1)
	assert.True(t, testutil.Qty("99999999.99").Equal(created.Ingredients[0].Quantity))
}

func TestCreateRecipeSlugConflict(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateRecipe(ctx, carbonaraRequest(), testutil.Principal(f.author))
	require.NoError(t, err)

	req := carbonaraRequest()
	req.Title = "pasta   carbonara"
	_, err = f.service.CreateRecipe(ctx, req, testutil.Principal(f.other))
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.EqualValues(t, 1, f.count(t, &entities.Recipe{}))
	assert.EqualValues(t, 3, f.count(t, &entities.Ingredient{}))
	assert.EqualValues(t, 1, f.count(t, &entities.RecipeVersion{}))
}

func TestCreateRecipeRequiresAuthor(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.service.CreateRecipe(context.Background(), carbonaraRequest(), domain.Principal{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUpdateRecipeReplacesIngredients(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	owner := testutil.Principal(f.author)

	created, err := f.service.CreateRecipe(ctx, carbonaraRequest(), owner)
	require.NoError(t, err)

	newTitle := "Carbonara, lighter"
	replacement := []domain.IngredientRequest{
		{Name: "Rigatoni", Quantity: testutil.Qty("350"), Unit: "g"},
		{Name: "Egg yolks", Quantity: testutil.Qty("4"), Unit: "piece"},
	}
	updated, err := f.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{
		Title:         &newTitle,
		Ingredients:   &replacement,
		ChangeSummary: "Swap pasta shape",
	}, owner)
	require.NoError(t, err)

	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, "pasta-carbonara", updated.Slug)
	assert.Equal(t, "Roman classic", updated.Description)
	require.Len(t, updated.Ingredients, 2)
	assert.Equal(t, "Rigatoni", updated.Ingredients[0].Name)
	assert.Equal(t, "Egg yolks", updated.Ingredients[1].Name)
	assert.EqualValues(t, 2, f.count(t, &entities.Ingredient{}))

	versions, total, err := f.service.GetVersions(ctx, created.ID, owner, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, 2, versions[0].VersionNumber)
	assert.Equal(t, "Swap pasta shape", versions[0].ChangeSummary)
	assert.Equal(t, newTitle, versions[0].Title)
	assert.Len(t, versions[0].IngredientsSnapshot, 2)

	first := versions[1]
	assert.Equal(t, 1, first.VersionNumber)
	assert.Equal(t, "Pasta Carbonara!", first.Title)
	require.Len(t, first.IngredientsSnapshot, 3)
	assert.Equal(t, "Spaghetti", first.IngredientsSnapshot[0].Name)
	assert.True(t, first.IngredientsSnapshot[0].Quantity.Equal(testutil.Qty("400")))
}

func TestUpdateRecipeWithoutIngredientsKeepsThem(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	owner := testutil.Principal(f.author)

	created, err := f.service.CreateRecipe(ctx, carbonaraRequest(), owner)
	require.NoError(t, err)

	cookTime := 25
	updated, err := f.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{CookTime: &cookTime}, owner)
	require.NoError(t, err)

	assert.Equal(t, 25, updated.CookTime)
	assert.Len(t, updated.Ingredients, 3)

	version, err := f.service.GetVersion(ctx, created.ID, 2, owner)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultUpdateSummary, version.ChangeSummary)
}

func TestUpdateRecipeEmptyIngredientListClearsThem(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	owner := testutil.Principal(f.author)

	created, err := f.service.CreateRecipe(ctx, carbonaraRequest(), owner)
	require.NoError(t, err)

	empty := []domain.IngredientRequest{}
	updated, err := f.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{Ingredients: &empty}, owner)
	require.NoError(t, err)
	assert.Empty(t, updated.Ingredients)
	assert.Zero(t, f.count(t, &entities.Ingredient{}))
}

func TestUpdateRecipeAuthorization(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	req := carbonaraRequest()
	req.Visibility = domain.VisibilityPublic
	created, err := f.service.CreateRecipe(ctx, req, testutil.Principal(f.author))
	require.NoError(t, err)

	title := "Hijacked"
	_, err = f.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{Title: &title}, testutil.Principal(f.other))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.EqualValues(t, 1, f.count(t, &entities.RecipeVersion{}))

	title = "Admin edit"
	updated, err := f.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{Title: &title}, testutil.Principal(f.admin))
	require.NoError(t, err)
	assert.Equal(t, "Admin edit", updated.Title)
}

func TestUpdateRecipeRollsBackOnInvalidInput(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	owner := testutil.Principal(f.author)

	created, err := f.service.CreateRecipe(ctx, carbonaraRequest(), owner)
	require.NoError(t, err)

	title := "New title"
	bad := []domain.IngredientRequest{{Name: "", Quantity: testutil.Qty("1")}}
	_, err = f.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{Title: &title, Ingredients: &bad}, owner)
	assert.ErrorIs(t, err, domain.ErrValidation)

	detail, err := f.service.GetRecipeDetail(ctx, created.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Pasta Carbonara!", detail.Title)
	assert.Len(t, detail.Ingredients, 3)
	assert.EqualValues(t, 1, f.count(t, &entities.RecipeVersion{}))
}

// SQLite runs on one pooled connection here, so the writers are serialized by
// the pool rather than the row lock. The unique-index backstop is covered by
// TestVersionLedgerLosingWriterConflicts.
func TestConcurrentUpdatesProduceGaplessVersions(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	owner := testutil.Principal(f.author)

	created, err := f.service.CreateRecipe(ctx, carbonaraRequest(), owner)
	require.NoError(t, err)

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			desc := fmt.Sprintf("edit %d", i)
			_, err := f.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{Description: &desc}, owner)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	versions, total, err := f.service.GetVersions(ctx, created.ID, owner, 1, 100)
	require.NoError(t, err)
	require.EqualValues(t, writers+1, total)
	for i, v := range versions {
		assert.Equal(t, writers+1-i, v.VersionNumber)
	}
}

func TestScaleIngredientsPreview(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	owner := testutil.Principal(f.author)

	req := carbonaraRequest()
	req.Visibility = domain.VisibilityPublic
	created, err := f.service.CreateRecipe(ctx, req, owner)
	require.NoError(t, err)

	res, err := f.service.ScaleIngredients(ctx, created.ID, domain.ScaleIngredientsRequest{NewServingSize: 6}, testutil.Principal(f.other))
	require.NoError(t, err)
	assert.Equal(t, 4, res.OriginalServingSize)
	assert.Equal(t, 6, res.NewServingSize)
	require.Len(t, res.ScaledIngredients, 3)
	assert.True(t, res.ScaledIngredients[0].Quantity.Equal(testutil.Qty("600")))
	assert.True(t, res.ScaledIngredients[1].Quantity.Equal(testutil.Qty("4.5")))
	assert.Equal(t, "piece", res.ScaledIngredients[1].Unit)

	same, err := f.service.ScaleIngredients(ctx, created.ID, domain.ScaleIngredientsRequest{NewServingSize: 4}, owner)
	require.NoError(t, err)
	for i, ing := range same.ScaledIngredients {
		assert.True(t, ing.Quantity.Equal(created.Ingredients[i].Quantity))
	}

	detail, err := f.service.GetRecipeDetail(ctx, created.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, 4, detail.ServingSize)
	assert.True(t, detail.Ingredients[0].Quantity.Equal(testutil.Qty("400")))
	assert.EqualValues(t, 1, f.count(t, &entities.RecipeVersion{}))
}

func TestScaleIngredientsRejectsNonPositiveSize(t *testing.T) {
	f := newServiceFixture(t)

	for _, n := range []int{0, -1} {
		// The recipe does not exist: the size check must fire before any lookup.
		_, err := f.service.ScaleIngredients(context.Background(), "00000000-0000-0000-0000-000000000001",
			domain.ScaleIngredientsRequest{NewServingSize: n}, testutil.Principal(f.author))
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestScaleIngredientsHiddenRecipe(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, carbonaraRequest(), testutil.Principal(f.author))
	require.NoError(t, err)

	_, err = f.service.ScaleIngredients(ctx, created.ID, domain.ScaleIngredientsRequest{NewServingSize: 2}, testutil.Principal(f.other))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPublishRecipe(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	owner := testutil.Principal(f.author)

	created, err := f.service.CreateRecipe(ctx, carbonaraRequest(), owner)
	require.NoError(t, err)

	_, err = f.service.PublishRecipe(ctx, created.ID, testutil.Principal(f.other))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	published, err := f.service.PublishRecipe(ctx, created.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityPublic, published.Visibility)

	version, err := f.service.GetVersion(ctx, created.ID, 2, owner)
	require.NoError(t, err)
	assert.Equal(t, domain.PublishSummary, version.ChangeSummary)

	_, err = f.service.PublishRecipe(ctx, created.ID, owner)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualValues(t, 2, f.count(t, &entities.RecipeVersion{}))
}

func TestGetRecipeDetailCountsViewsAndHidesDrafts(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	owner := testutil.Principal(f.author)

	created, err := f.service.CreateRecipe(ctx, carbonaraRequest(), owner)
	require.NoError(t, err)

	_, err = f.service.GetRecipeDetail(ctx, created.ID, testutil.Principal(f.other))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.service.GetRecipeDetail(ctx, created.ID, domain.Principal{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	first, err := f.service.GetRecipeDetail(ctx, created.ID, owner)
	require.NoError(t, err)
	second, err := f.service.GetRecipeDetail(ctx, created.ID, owner)
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.ViewCount)
	assert.EqualValues(t, 2, second.ViewCount)

	_, err = f.service.GetRecipeDetail(ctx, "not-a-uuid", owner)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteRecipeCascades(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	owner := testutil.Principal(f.author)

	req := carbonaraRequest()
	req.Visibility = domain.VisibilityPublic
	created, err := f.service.CreateRecipe(ctx, req, owner)
	require.NoError(t, err)

	image, err := f.service.UploadRecipeImage(ctx, created.ID, domain.UploadRecipeImageRequest{
		Image:     testutil.FileHeader(t, "image", "dish.png", testutil.PNGHeader),
		ImageType: "featured",
	}, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.Len())

	require.NoError(t, f.db.Create(&entities.Favorite{UserID: f.other.ID, RecipeID: uuid.MustParse(created.ID)}).Error)

	assert.ErrorIs(t, f.service.DeleteRecipe(ctx, created.ID, testutil.Principal(f.other)), domain.ErrForbidden)
	require.NoError(t, f.service.DeleteRecipe(ctx, created.ID, owner))

	for _, model := range []any{&entities.Recipe{}, &entities.Ingredient{}, &entities.RecipeVersion{}, &entities.RecipeImage{}, &entities.Favorite{}} {
		assert.Zero(t, f.count(t, model), "%T", model)
	}
	assert.False(t, f.store.Has(f.store.GetObjectKeyFromLink(image.ImageURL)))

	_, err = f.service.GetRecipeDetail(ctx, created.ID, owner)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUploadRecipeImageRejectsNonImage(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	owner := testutil.Principal(f.author)

	created, err := f.service.CreateRecipe(ctx, carbonaraRequest(), owner)
	require.NoError(t, err)

	_, err = f.service.UploadRecipeImage(ctx, created.ID, domain.UploadRecipeImageRequest{
		Image: testutil.FileHeader(t, "image", "notes.txt", []byte("just some text")),
	}, owner)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, f.store.Len())
	assert.Zero(t, f.count(t, &entities.RecipeImage{}))
}

func TestUploadRecipeImageRemovesUploadWhenSaveFails(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	owner := testutil.Principal(f.author)

	created, err := f.service.CreateRecipe(ctx, carbonaraRequest(), owner)
	require.NoError(t, err)

	saveErr := errors.New("insert failed")
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:fail_image", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*entities.RecipeImage); ok {
			_ = tx.AddError(saveErr)
		}
	}))

	_, err = f.service.UploadRecipeImage(ctx, created.ID, domain.UploadRecipeImageRequest{
		Image:     testutil.FileHeader(t, "image", "dish.png", testutil.PNGHeader),
		ImageType: "featured",
	}, owner)
	assert.ErrorIs(t, err, saveErr)
	assert.Zero(t, f.store.Len())
	assert.Zero(t, f.count(t, &entities.RecipeImage{}))
}

func TestListAndSearchRecipes(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	owner := testutil.Principal(f.author)

	tag, err := f.catalog.CreateTag(ctx, domain.CreateTagRequest{Name: "Italian", Type: "cuisine"}, testutil.Principal(f.admin))
	require.NoError(t, err)

	req := carbonaraRequest()
	req.Visibility = domain.VisibilityPublic
	req.Difficulty = domain.DifficultyEasy
	req.TagIDs = []string{tag.ID}
	_, err = f.service.CreateRecipe(ctx, req, owner)
	require.NoError(t, err)

	_, err = f.service.CreateRecipe(ctx, domain.CreateRecipeRequest{
		Title: "Slow Stew", CookTime: 180, Visibility: domain.VisibilityPublic, Difficulty: domain.DifficultyHard,
		Ingredients: []domain.IngredientRequest{{Name: "Beef", Quantity: testutil.Qty("1"), Unit: "kg"}},
	}, owner)
	require.NoError(t, err)

	_, err = f.service.CreateRecipe(ctx, domain.CreateRecipeRequest{Title: "Secret Draft", CookTime: 5}, owner)
	require.NoError(t, err)

	all, total, err := f.service.GetRecipes(ctx, domain.RecipeFilter{}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	cases := []struct {
		name   string
		filter domain.RecipeFilter
		want   string
	}{
		{"title search", domain.RecipeFilter{Search: "carbo"}, "Pasta Carbonara!"},
		{"description search", domain.RecipeFilter{Search: "ROMAN"}, "Pasta Carbonara!"},
		{"difficulty", domain.RecipeFilter{Difficulty: domain.DifficultyHard}, "Slow Stew"},
		{"max cook time", domain.RecipeFilter{MaxCookTime: 30}, "Pasta Carbonara!"},
		{"tag", domain.RecipeFilter{Tag: "italian"}, "Pasta Carbonara!"},
		{"ingredient", domain.RecipeFilter{Ingredient: "beef"}, "Slow Stew"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, total, err := f.service.GetRecipes(ctx, tc.filter, 1, 20)
			require.NoError(t, err)
			require.EqualValues(t, 1, total)
			assert.Equal(t, tc.want, res[0].Title)
		})
	}

	page, total, err := f.service.GetRecipes(ctx, domain.RecipeFilter{}, 2, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, page, 1)
}

func TestTrendingRecipesUsesCache(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	owner := testutil.Principal(f.author)

	var ids []string
	for _, title := range []string{"First", "Second"} {
		created, err := f.service.CreateRecipe(ctx, domain.CreateRecipeRequest{
			Title: title, CookTime: 5, Visibility: domain.VisibilityPublic,
		}, owner)
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	_, err := f.service.GetRecipeDetail(ctx, ids[1], owner)
	require.NoError(t, err)

	trending, err := f.service.GetTrendingRecipes(ctx, 10)
	require.NoError(t, err)
	require.Len(t, trending, 2)
	assert.Equal(t, "Second", trending[0].Title)

	for i := 0; i < 3; i++ {
		_, err = f.service.GetRecipeDetail(ctx, ids[0], owner)
		require.NoError(t, err)
	}

	cached, err := f.service.GetTrendingRecipes(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Second", cached[0].Title, "cached result is served until the TTL passes")

	fresh := NewRecipeService(NewRecipeRepository(f.db), NewTagRepository(f.db), permission.NewPolicy(false), f.store, time.Minute)
	recomputed, err := fresh.GetTrendingRecipes(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "First", recomputed[0].Title)
}

func TestGetRecipeStats(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	owner := testutil.Principal(f.author)

	req := carbonaraRequest()
	req.Visibility = domain.VisibilityPublic
	created, err := f.service.CreateRecipe(ctx, req, owner)
	require.NoError(t, err)

	_, err = f.service.GetRecipeDetail(ctx, created.ID, owner)
	require.NoError(t, err)

	stats, err := f.service.GetRecipeStats(ctx, created.ID, testutil.Principal(f.other))
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalViews)
	assert.EqualValues(t, 1, stats.TotalVersions)
	assert.Equal(t, 30, stats.TotalTime)
}

func TestCatalog(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.catalog.CreateTag(ctx, domain.CreateTagRequest{Name: "Vegan"}, testutil.Principal(f.author))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	tag, err := f.catalog.CreateTag(ctx, domain.CreateTagRequest{Name: "Vegan", Type: "dietary"}, testutil.Principal(f.admin))
	require.NoError(t, err)
	assert.Equal(t, "vegan", tag.Slug)

	_, err = f.catalog.CreateTag(ctx, domain.CreateTagRequest{Name: "Vegan"}, testutil.Principal(f.admin))
	assert.ErrorIs(t, err, domain.ErrConflict)

	req := carbonaraRequest()
	req.Visibility = domain.VisibilityPublic
	req.TagIDs = []string{tag.ID}
	created, err := f.service.CreateRecipe(ctx, req, testutil.Principal(f.author))
	require.NoError(t, err)
	require.Len(t, created.Tags, 1)

	got, err := f.catalog.GetTag(ctx, "vegan")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.RecipeCount)

	_, err = f.catalog.GetTag(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ingredients, total, err := f.catalog.GetIngredients(ctx, "egg", 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assert.Equal(t, "Eggs", ingredients[0].Name)
	assert.Equal(t, "Pasta Carbonara!", ingredients[0].RecipeTitle)

	one, err := f.catalog.GetIngredient(ctx, ingredients[0].ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, one.RecipeID)
}
