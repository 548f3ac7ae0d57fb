package domain

import (
	"mime/multipart"
	"time"

	"github.com/shopspring/decimal"
)

const (
	VisibilityDraft   = "draft"
	VisibilityPrivate = "private"
	VisibilityPending = "pending"
	VisibilityPublic  = "public"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	IngredientTypeMain = "main"
	DefaultUnit        = "units"

	// QuantityPlaces is the stored precision of ingredient quantities (numeric(10,2)).
	QuantityPlaces = 2

	InitialVersionSummary = "Initial version"
	DefaultUpdateSummary  = "Recipe updated"
	PublishSummary        = "Published"
)

var (
	IngredientUnits = []string{"g", "kg", "mg", "ml", "l", "tsp", "tbsp", "cup", "oz", "lb", "piece", "units", "pinch", "to_taste"}
	IngredientTypes = []string{"main", "spice", "seasoning", "garnish", "other"}

	MessageSuccessCreateRecipe     = "recipe created successfully"
	MessageSuccessUpdateRecipe     = "recipe updated successfully"
	MessageSuccessDeleteRecipe     = "recipe deleted successfully"
	MessageSuccessGetRecipes       = "success get recipes"
	MessageSuccessGetRecipeDetail  = "success get recipe detail"
	MessageSuccessPublishRecipe    = "recipe published successfully"
	MessageSuccessScaleIngredients = "ingredients scaled successfully"
	MessageSuccessGetVersions      = "success get recipe versions"
	MessageSuccessGetStats         = "success get recipe stats"
	MessageSuccessUploadImage      = "recipe image uploaded successfully"
	MessageSuccessGetTags          = "success get tags"
	MessageSuccessCreateTag        = "tag created successfully"
	MessageSuccessGetIngredients   = "success get ingredients"

	MessageFailedCreateRecipe     = "failed to create recipe"
	MessageFailedUpdateRecipe     = "failed to update recipe"
	MessageFailedDeleteRecipe     = "failed to delete recipe"
	MessageFailedGetRecipes       = "failed to get recipes"
	MessageFailedGetRecipeDetail  = "failed to get recipe detail"
	MessageFailedPublishRecipe    = "failed to publish recipe"
	MessageFailedScaleIngredients = "failed to scale ingredients"
	MessageFailedGetVersions      = "failed to get recipe versions"
	MessageFailedGetStats         = "failed to get recipe stats"
	MessageFailedUploadImage      = "failed to upload recipe image"
	MessageFailedGetTags          = "failed to get tags"
	MessageFailedCreateTag        = "failed to create tag"
	MessageFailedGetIngredients   = "failed to get ingredients"

	ErrRecipeNotFound           = NotFound("recipe not found")
	ErrIngredientNotFound       = NotFound("ingredient not found")
	ErrVersionNotFound          = NotFound("recipe version not found")
	ErrTagNotFound              = NotFound("tag not found")
	ErrSlugTaken                = Conflict("a recipe with this slug already exists")
	ErrVersionConflict          = Conflict("another change to this recipe was recorded concurrently, resubmit")
	ErrTagExists                = Conflict("tag already exists")
	ErrUnauthorizedRecipeAccess = Forbidden("unauthorized access to recipe")
	ErrRecipeAlreadyPublic      = Validation("visibility", "recipe is already public")
	ErrInvalidServingSize       = Validation("new_serving_size", "must be greater than zero")
	ErrInvalidImage             = Validation("image", "unsupported image type")
)

type (
	IngredientRequest struct {
		Name     string          `json:"name" validate:"required,max=200"`
		Quantity decimal.Decimal `json:"quantity"`
		Unit     string          `json:"unit" validate:"omitempty,oneof=g kg mg ml l tsp tbsp cup oz lb piece units pinch to_taste"`
		Type     string          `json:"type" validate:"omitempty,oneof=main spice seasoning garnish other"`
		Notes    string          `json:"notes" validate:"max=255"`
	}

	CreateRecipeRequest struct {
		Title         string              `json:"title" validate:"required,max=255"`
		Description   string              `json:"description"`
		ServingSize   *int                `json:"serving_size" validate:"omitempty,min=1"`
		CookTime      int                 `json:"cook_time" validate:"min=1"`
		PrepTime      int                 `json:"prep_time" validate:"min=0"`
		Equipment     []string            `json:"equipment" validate:"dive,max=100"`
		Instructions  []string            `json:"instructions" validate:"dive,required"`
		Tips          string              `json:"tips"`
		Difficulty    string              `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
		Visibility    string              `json:"visibility" validate:"omitempty,oneof=draft private pending public"`
		VideoURL      string              `json:"video_url" validate:"omitempty,url"`
		NutritionInfo map[string]any      `json:"nutrition_info"`
		Ingredients   []IngredientRequest `json:"ingredients" validate:"dive"`
		TagIDs        []string            `json:"tag_ids" validate:"dive,uuid"`
	}

	// UpdateRecipeRequest applies only the fields that are present. A present
	// ingredients list replaces the whole ingredient set.
	UpdateRecipeRequest struct {
		Title         *string              `json:"title" validate:"omitempty,min=1,max=255"`
		Description   *string              `json:"description"`
		ServingSize   *int                 `json:"serving_size" validate:"omitempty,min=1"`
		CookTime      *int                 `json:"cook_time" validate:"omitempty,min=1"`
		PrepTime      *int                 `json:"prep_time" validate:"omitempty,min=0"`
		Equipment     *[]string            `json:"equipment"`
		Instructions  *[]string            `json:"instructions"`
		Tips          *string              `json:"tips"`
		Difficulty    *string              `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
		Visibility    *string              `json:"visibility" validate:"omitempty,oneof=draft private pending public"`
		VideoURL      *string              `json:"video_url"`
		NutritionInfo map[string]any       `json:"nutrition_info"`
		Ingredients   *[]IngredientRequest `json:"ingredients"`
		TagIDs        *[]string            `json:"tag_ids"`
		ChangeSummary string               `json:"change_summary" validate:"max=500"`
	}

	ScaleIngredientsRequest struct {
		NewServingSize int `json:"new_serving_size"`
	}

	RecipeFilter struct {
		AuthorID    string
		Difficulty  string
		Tag         string
		Search      string
		Ingredient  string
		MaxCookTime int
	}

	UploadRecipeImageRequest struct {
		Image      *multipart.FileHeader `form:"image" validate:"required"`
		ImageType  string                `form:"image_type" validate:"omitempty,oneof=featured step gallery"`
		StepNumber *int                  `form:"step_number" validate:"omitempty,min=1"`
		Caption    string                `form:"caption" validate:"max=255"`
		Order      int                   `form:"order" validate:"min=0"`
	}

	CreateTagRequest struct {
		Name        string `json:"name" validate:"required,max=50"`
		Type        string `json:"type" validate:"omitempty,oneof=cuisine dietary meal other"`
		Description string `json:"description"`
	}

	IngredientResponse struct {
		ID       string          `json:"id"`
		Name     string          `json:"name"`
		FullName string          `json:"full_name"`
		Quantity decimal.Decimal `json:"quantity"`
		Unit     string          `json:"unit"`
		Type     string          `json:"type"`
		Notes    string          `json:"notes,omitempty"`
	}

	IngredientListItem struct {
		IngredientResponse
		RecipeID    string `json:"recipe_id"`
		RecipeTitle string `json:"recipe_title"`
	}

	TagResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Type        string `json:"type"`
		Description string `json:"description,omitempty"`
		RecipeCount int64  `json:"recipe_count"`
	}

	RecipeImageResponse struct {
		ID         string    `json:"id"`
		ImageURL   string    `json:"image_url"`
		ImageType  string    `json:"image_type"`
		StepNumber *int      `json:"step_number,omitempty"`
		Caption    string    `json:"caption,omitempty"`
		Order      int       `json:"order"`
		UploadedAt time.Time `json:"uploaded_at"`
	}

	RecipeSummary struct {
		ID             string    `json:"id"`
		Title          string    `json:"title"`
		Slug           string    `json:"slug"`
		Description    string    `json:"description"`
		AuthorID       string    `json:"author_id"`
		AuthorUsername string    `json:"author_username,omitempty"`
		ServingSize    int       `json:"serving_size"`
		CookTime       int       `json:"cook_time"`
		PrepTime       int       `json:"prep_time"`
		TotalTime      int       `json:"total_time"`
		Difficulty     string    `json:"difficulty"`
		Visibility     string    `json:"visibility"`
		FeaturedImage  string    `json:"featured_image,omitempty"`
		AverageRating  float64   `json:"average_rating"`
		TotalRatings   int       `json:"total_ratings"`
		ViewCount      int64     `json:"view_count"`
		CreatedAt      time.Time `json:"created_at"`
		UpdatedAt      time.Time `json:"updated_at"`
	}

	RecipeDetail struct {
		RecipeSummary
		Equipment     []string              `json:"equipment"`
		Instructions  []string              `json:"instructions"`
		Tips          string                `json:"tips"`
		VideoURL      string                `json:"video_url,omitempty"`
		NutritionInfo map[string]any        `json:"nutrition_info,omitempty"`
		Ingredients   []IngredientResponse  `json:"ingredients"`
		Tags          []TagResponse         `json:"tags"`
		Images        []RecipeImageResponse `json:"images"`
	}

	ScaledIngredient struct {
		Name     string          `json:"name"`
		Quantity decimal.Decimal `json:"quantity"`
		Unit     string          `json:"unit"`
		Type     string          `json:"type"`
		Notes    string          `json:"notes,omitempty"`
	}

	ScaleIngredientsResponse struct {
		RecipeID            string             `json:"recipe_id"`
		OriginalServingSize int                `json:"original_serving_size"`
		NewServingSize      int                `json:"new_serving_size"`
		ScaledIngredients   []ScaledIngredient `json:"scaled_ingredients"`
	}

	IngredientSnapshotResponse struct {
		Name     string          `json:"name"`
		Quantity decimal.Decimal `json:"quantity"`
		Unit     string          `json:"unit"`
		Type     string          `json:"type"`
		Notes    string          `json:"notes,omitempty"`
	}

	RecipeVersionResponse struct {
		ID                  string                       `json:"id"`
		RecipeID            string                       `json:"recipe_id"`
		VersionNumber       int                          `json:"version_number"`
		Title               string                       `json:"title"`
		Description         string                       `json:"description"`
		Instructions        []string                     `json:"instructions"`
		IngredientsSnapshot []IngredientSnapshotResponse `json:"ingredients_snapshot"`
		ChangedByID         *string                      `json:"changed_by_id"`
		ChangeSummary       string                       `json:"change_summary"`
		CreatedAt           time.Time                    `json:"created_at"`
	}

	RecipeStatsResponse struct {
		RecipeID       string  `json:"recipe_id"`
		TotalViews     int64   `json:"total_views"`
		AverageRating  float64 `json:"average_rating"`
		TotalRatings   int     `json:"total_ratings"`
		TotalComments  int64   `json:"total_comments"`
		TotalFavorites int64   `json:"total_favorites"`
		TotalVersions  int64   `json:"total_versions"`
		TotalTime      int     `json:"total_time"`
	}
)
