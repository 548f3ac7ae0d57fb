package recipe

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"RecipeAPI/internal/utils"
	"RecipeAPI/internal/utils/storage"
	"RecipeAPI/pkg/permission"
	"context"
	"fmt"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"slices"
	"strings"
	"time"
)

// maxQuantity is the exclusive upper bound of numeric(10,2).
var maxQuantity = decimal.New(1, 8)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, author domain.Principal) (domain.RecipeDetail, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, principal domain.Principal) (domain.RecipeDetail, error)
		ScaleIngredients(ctx context.Context, recipeID string, req domain.ScaleIngredientsRequest, principal domain.Principal) (domain.ScaleIngredientsResponse, error)
		PublishRecipe(ctx context.Context, recipeID string, principal domain.Principal) (domain.RecipeDetail, error)
		DeleteRecipe(ctx context.Context, recipeID string, principal domain.Principal) error
		GetRecipeDetail(ctx context.Context, recipeID string, principal domain.Principal) (domain.RecipeDetail, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]domain.RecipeSummary, int64, error)
		GetTrendingRecipes(ctx context.Context, limit int) ([]domain.RecipeSummary, error)
		GetRecipeStats(ctx context.Context, recipeID string, principal domain.Principal) (domain.RecipeStatsResponse, error)
		GetVersions(ctx context.Context, recipeID string, principal domain.Principal, page, limit int) ([]domain.RecipeVersionResponse, int64, error)
		GetVersion(ctx context.Context, recipeID string, number int, principal domain.Principal) (domain.RecipeVersionResponse, error)
		UploadRecipeImage(ctx context.Context, recipeID string, req domain.UploadRecipeImageRequest, principal domain.Principal) (domain.RecipeImageResponse, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		tagRepository    TagRepository
		policy           permission.Policy
		s3               storage.AwsS3
		trending         *trendingCache
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	tagRepository TagRepository,
	policy permission.Policy,
	s3 storage.AwsS3,
	trendingTTL time.Duration,
) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		tagRepository:    tagRepository,
		policy:           policy,
		s3:               s3,
		trending:         newTrendingCache(trendingTTL),
	}
}

// buildIngredients validates ingredient input and converts it to rows in
// request order. Problems are collected into verr under "ingredients[i].field".
func buildIngredients(reqs []domain.IngredientRequest, verr *domain.ValidationError) []entities.Ingredient {
	ingredients := make([]entities.Ingredient, 0, len(reqs))
	for i, req := range reqs {
		field := func(name string) string { return fmt.Sprintf("ingredients[%d].%s", i, name) }

		name := strings.TrimSpace(req.Name)
		switch {
		case name == "":
			verr.Add(field("name"), "this field is required")
		case len(name) > 200:
			verr.Add(field("name"), "must be at most 200 characters")
		}
		quantity := req.Quantity.Round(domain.QuantityPlaces)
		if quantity.IsNegative() {
			verr.Add(field("quantity"), "must be zero or greater")
		} else if quantity.GreaterThanOrEqual(maxQuantity) {
			verr.Add(field("quantity"), "is too large")
		}

		unit := req.Unit
		if unit == "" {
			unit = domain.DefaultUnit
		}
		if !slices.Contains(domain.IngredientUnits, unit) {
			verr.Add(field("unit"), "must be one of: "+strings.Join(domain.IngredientUnits, ", "))
		}
		ingType := req.Type
		if ingType == "" {
			ingType = domain.IngredientTypeMain
		}
		if !slices.Contains(domain.IngredientTypes, ingType) {
			verr.Add(field("type"), "must be one of: "+strings.Join(domain.IngredientTypes, ", "))
		}

		ingredients = append(ingredients, entities.Ingredient{
			Name:     name,
			Quantity: quantity,
			Unit:     unit,
			Type:     ingType,
			Notes:    strings.TrimSpace(req.Notes),
			Position: i,
		})
	}
	return ingredients
}

func parseTagIDs(raw []string, verr *domain.ValidationError) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			verr.Add(fmt.Sprintf("tag_ids[%d]", i), "must be a valid UUID")
			continue
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, author domain.Principal) (domain.RecipeDetail, error) {
	if author.IsAnonymous() {
		return domain.RecipeDetail{}, domain.ErrTokenNotFound
	}

	verr := &domain.ValidationError{}
	title := strings.TrimSpace(req.Title)
	slug := utils.Slugify(title)
	switch {
	case title == "":
		verr.Add("title", "this field is required")
	case len(title) > 255:
		verr.Add("title", "must be at most 255 characters")
	case slug == "":
		verr.Add("title", "must contain at least one letter or digit")
	}
	if req.CookTime < 1 {
		verr.Add("cook_time", "must be at least 1")
	}
	if req.PrepTime < 0 {
		verr.Add("prep_time", "must be at least 0")
	}
	servingSize := 1
	if req.ServingSize != nil {
		servingSize = *req.ServingSize
		if servingSize < 1 {
			verr.Add("serving_size", "must be at least 1")
		}
	}
	ingredients := buildIngredients(req.Ingredients, verr)
	tagIDs := parseTagIDs(req.TagIDs, verr)
	if err := verr.OrNil(); err != nil {
		return domain.RecipeDetail{}, err
	}

	tags, err := s.tagRepository.GetTagsByIDs(ctx, tagIDs)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	recipe := &entities.Recipe{
		ID:            uuid.New(),
		AuthorID:      author.UserID,
		Title:         title,
		Slug:          slug,
		Description:   req.Description,
		ServingSize:   servingSize,
		CookTime:      req.CookTime,
		PrepTime:      req.PrepTime,
		Equipment:     datatypes.JSONSlice[string](nonNil(req.Equipment)),
		Instructions:  datatypes.JSONSlice[string](nonNil(req.Instructions)),
		Tips:          req.Tips,
		Difficulty:    orDefault(req.Difficulty, domain.DifficultyMedium),
		Visibility:    orDefault(req.Visibility, domain.VisibilityDraft),
		VideoURL:      req.VideoURL,
		NutritionInfo: req.NutritionInfo,
	}

	err = s.recipeRepository.Transaction(ctx, func(repo RecipeRepository) error {
		exists, err := repo.SlugExists(ctx, slug)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrSlugTaken
		}
		if err := repo.CreateRecipe(ctx, recipe); err != nil {
			return err
		}
		if err := repo.ReplaceIngredients(ctx, recipe.ID, ingredients); err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := repo.ReplaceTags(ctx, recipe, tags); err != nil {
				return err
			}
		}
		_, err = repo.Versions().Append(ctx, recipe, &author.UserID, domain.InitialVersionSummary)
		return err
	})
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	return s.loadDetail(ctx, recipe.ID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, principal domain.Principal) (domain.RecipeDetail, error) {
	id, err := domain.ParseID("id", recipeID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	verr := &domain.ValidationError{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			verr.Add("title", "this field is required")
		} else if len(title) > 255 {
			verr.Add("title", "must be at most 255 characters")
		}
		req.Title = &title
	}
	if req.ServingSize != nil && *req.ServingSize < 1 {
		verr.Add("serving_size", "must be at least 1")
	}
	if req.CookTime != nil && *req.CookTime < 1 {
		verr.Add("cook_time", "must be at least 1")
	}
	if req.PrepTime != nil && *req.PrepTime < 0 {
		verr.Add("prep_time", "must be at least 0")
	}
	var ingredients []entities.Ingredient
	if req.Ingredients != nil {
		ingredients = buildIngredients(*req.Ingredients, verr)
	}
	var tagIDs []uuid.UUID
	if req.TagIDs != nil {
		tagIDs = parseTagIDs(*req.TagIDs, verr)
	}
	if err := verr.OrNil(); err != nil {
		return domain.RecipeDetail{}, err
	}

	var tags []entities.Tag
	if req.TagIDs != nil {
		if tags, err = s.tagRepository.GetTagsByIDs(ctx, tagIDs); err != nil {
			return domain.RecipeDetail{}, err
		}
	}

	summary := strings.TrimSpace(req.ChangeSummary)
	if summary == "" {
		summary = domain.DefaultUpdateSummary
	}

	err = s.recipeRepository.Transaction(ctx, func(repo RecipeRepository) error {
		recipe, err := repo.LockRecipe(ctx, id)
		if err != nil {
			return err
		}
		if err := s.policy.CanEditRecipe(principal, recipe); err != nil {
			return err
		}

		applyUpdate(recipe, req)
		if err := repo.UpdateRecipe(ctx, recipe); err != nil {
			return err
		}
		if req.Ingredients != nil {
			if err := repo.ReplaceIngredients(ctx, recipe.ID, ingredients); err != nil {
				return err
			}
		}
		if req.TagIDs != nil {
			if err := repo.ReplaceTags(ctx, recipe, tags); err != nil {
				return err
			}
		}

		_, err = repo.Versions().Append(ctx, recipe, &principal.UserID, summary)
		return err
	})
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	return s.loadDetail(ctx, id)
}

func applyUpdate(recipe *entities.Recipe, req domain.UpdateRecipeRequest) {
	if req.Title != nil {
		recipe.Title = *req.Title
	}
	if req.Description != nil {
		recipe.Description = *req.Description
	}
	if req.ServingSize != nil {
		recipe.ServingSize = *req.ServingSize
	}
	if req.CookTime != nil {
		recipe.CookTime = *req.CookTime
	}
	if req.PrepTime != nil {
		recipe.PrepTime = *req.PrepTime
	}
	if req.Equipment != nil {
		recipe.Equipment = datatypes.JSONSlice[string](nonNil(*req.Equipment))
	}
	if req.Instructions != nil {
		recipe.Instructions = datatypes.JSONSlice[string](nonNil(*req.Instructions))
	}
	if req.Tips != nil {
		recipe.Tips = *req.Tips
	}
	if req.Difficulty != nil {
		recipe.Difficulty = *req.Difficulty
	}
	if req.Visibility != nil {
		recipe.Visibility = *req.Visibility
	}
	if req.VideoURL != nil {
		recipe.VideoURL = *req.VideoURL
	}
	if req.NutritionInfo != nil {
		recipe.NutritionInfo = req.NutritionInfo
	}
}

// ScaleIngredients is a read-only preview: nothing is written and no version
// is recorded.
func (s *recipeService) ScaleIngredients(ctx context.Context, recipeID string, req domain.ScaleIngredientsRequest, principal domain.Principal) (domain.ScaleIngredientsResponse, error) {
	if req.NewServingSize <= 0 {
		return domain.ScaleIngredientsResponse{}, domain.ErrInvalidServingSize
	}
	id, err := domain.ParseID("id", recipeID)
	if err != nil {
		return domain.ScaleIngredientsResponse{}, err
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return domain.ScaleIngredientsResponse{}, err
	}
	if err := s.policy.CanScaleRecipe(principal, recipe); err != nil {
		return domain.ScaleIngredientsResponse{}, err
	}

	return domain.ScaleIngredientsResponse{
		RecipeID:            recipe.ID.String(),
		OriginalServingSize: recipe.ServingSize,
		NewServingSize:      req.NewServingSize,
		ScaledIngredients:   ScaleIngredients(recipe.Ingredients, recipe.ServingSize, req.NewServingSize),
	}, nil
}

func (s *recipeService) PublishRecipe(ctx context.Context, recipeID string, principal domain.Principal) (domain.RecipeDetail, error) {
	id, err := domain.ParseID("id", recipeID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	err = s.recipeRepository.Transaction(ctx, func(repo RecipeRepository) error {
		recipe, err := repo.LockRecipe(ctx, id)
		if err != nil {
			return err
		}
		if err := s.policy.CanEditRecipe(principal, recipe); err != nil {
			return err
		}
		if recipe.Visibility == domain.VisibilityPublic {
			return domain.ErrRecipeAlreadyPublic
		}

		if err := repo.SetVisibility(ctx, id, domain.VisibilityPublic); err != nil {
			return err
		}
		recipe.Visibility = domain.VisibilityPublic
		_, err = repo.Versions().Append(ctx, recipe, &principal.UserID, domain.PublishSummary)
		return err
	})
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	return s.loadDetail(ctx, id)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, principal domain.Principal) error {
	id, err := domain.ParseID("id", recipeID)
	if err != nil {
		return err
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.policy.CanEditRecipe(principal, recipe); err != nil {
		return err
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, id); err != nil {
		return err
	}

	links := []string{recipe.FeaturedImage}
	for _, img := range recipe.Images {
		links = append(links, img.ImageURL)
	}
	s.deleteStoredImages(ctx, links)
	return nil
}

// deleteStoredImages removes uploaded objects after their rows are gone.
// Failures only leave orphaned objects behind, so they are logged.
func (s *recipeService) deleteStoredImages(ctx context.Context, links []string) {
	if s.s3 == nil {
		return
	}
	seen := map[string]bool{}
	for _, link := range links {
		if link == "" || seen[link] {
			continue
		}
		seen[link] = true
		if objectKey := s.s3.GetObjectKeyFromLink(link); objectKey != "" {
			if err := s.s3.DeleteFile(ctx, objectKey); err != nil {
				log.Warnf("failed to delete recipe image %s: %v", objectKey, err)
			}
		}
	}
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID string, principal domain.Principal) (domain.RecipeDetail, error) {
	id, err := domain.ParseID("id", recipeID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	if err := s.policy.CanViewRecipe(principal, recipe); err != nil {
		return domain.RecipeDetail{}, err
	}

	if err := s.recipeRepository.IncrementViewCount(ctx, id); err != nil {
		return domain.RecipeDetail{}, err
	}
	recipe.ViewCount++

	return ToRecipeDetail(recipe), nil
}

func (s *recipeService) loadDetail(ctx context.Context, id uuid.UUID) (domain.RecipeDetail, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	return ToRecipeDetail(recipe), nil
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]domain.RecipeSummary, int64, error) {
	if filter.AuthorID != "" {
		if _, err := domain.ParseID("author", filter.AuthorID); err != nil {
			return nil, 0, err
		}
	}

	recipes, count, err := s.recipeRepository.ListRecipes(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.RecipeSummary, 0, len(recipes))
	for i := range recipes {
		response = append(response, ToRecipeSummary(&recipes[i]))
	}
	return response, count, nil
}

// GetTrendingRecipes serves from a TTL cache; results can lag writes by up to
// the cache TTL.
func (s *recipeService) GetTrendingRecipes(ctx context.Context, limit int) ([]domain.RecipeSummary, error) {
	if limit < 1 {
		limit = 10
	}
	if limit > MaxTrendingLimit {
		limit = MaxTrendingLimit
	}

	if cached, ok := s.trending.get(limit); ok {
		return cached, nil
	}

	recipes, err := s.recipeRepository.TrendingRecipes(ctx, limit)
	if err != nil {
		return nil, err
	}
	response := make([]domain.RecipeSummary, 0, len(recipes))
	for i := range recipes {
		response = append(response, ToRecipeSummary(&recipes[i]))
	}

	s.trending.put(limit, response)
	return response, nil
}

func (s *recipeService) GetRecipeStats(ctx context.Context, recipeID string, principal domain.Principal) (domain.RecipeStatsResponse, error) {
	id, err := domain.ParseID("id", recipeID)
	if err != nil {
		return domain.RecipeStatsResponse{}, err
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return domain.RecipeStatsResponse{}, err
	}
	if err := s.policy.CanViewRecipe(principal, recipe); err != nil {
		return domain.RecipeStatsResponse{}, err
	}

	counts, err := s.recipeRepository.CountRelated(ctx, id)
	if err != nil {
		return domain.RecipeStatsResponse{}, err
	}

	return domain.RecipeStatsResponse{
		RecipeID:       recipe.ID.String(),
		TotalViews:     recipe.ViewCount,
		AverageRating:  recipe.AverageRating,
		TotalRatings:   recipe.TotalRatings,
		TotalComments:  counts.Comments,
		TotalFavorites: counts.Favorites,
		TotalVersions:  counts.Versions,
		TotalTime:      recipe.CookTime + recipe.PrepTime,
	}, nil
}

func (s *recipeService) GetVersions(ctx context.Context, recipeID string, principal domain.Principal, page, limit int) ([]domain.RecipeVersionResponse, int64, error) {
	id, err := domain.ParseID("id", recipeID)
	if err != nil {
		return nil, 0, err
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if err := s.policy.CanViewRecipe(principal, recipe); err != nil {
		return nil, 0, err
	}

	versions, count, err := s.recipeRepository.Versions().List(ctx, id, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.RecipeVersionResponse, 0, len(versions))
	for i := range versions {
		response = append(response, toVersionResponse(&versions[i]))
	}
	return response, count, nil
}

func (s *recipeService) GetVersion(ctx context.Context, recipeID string, number int, principal domain.Principal) (domain.RecipeVersionResponse, error) {
	id, err := domain.ParseID("id", recipeID)
	if err != nil {
		return domain.RecipeVersionResponse{}, err
	}
	if number < 1 {
		return domain.RecipeVersionResponse{}, domain.Validation("number", "must be at least 1")
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return domain.RecipeVersionResponse{}, err
	}
	if err := s.policy.CanViewRecipe(principal, recipe); err != nil {
		return domain.RecipeVersionResponse{}, err
	}

	version, err := s.recipeRepository.Versions().Get(ctx, id, number)
	if err != nil {
		return domain.RecipeVersionResponse{}, err
	}
	return toVersionResponse(version), nil
}

func (s *recipeService) UploadRecipeImage(ctx context.Context, recipeID string, req domain.UploadRecipeImageRequest, principal domain.Principal) (domain.RecipeImageResponse, error) {
	id, err := domain.ParseID("id", recipeID)
	if err != nil {
		return domain.RecipeImageResponse{}, err
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return domain.RecipeImageResponse{}, err
	}
	if err := s.policy.CanEditRecipe(principal, recipe); err != nil {
		return domain.RecipeImageResponse{}, err
	}

	imageType := orDefault(req.ImageType, "gallery")
	if imageType == "step" && req.StepNumber == nil {
		return domain.RecipeImageResponse{}, domain.Validation("step_number", "is required for step images")
	}

	objectKey, err := s.s3.UploadFile(ctx, recipe.Slug, req.Image, "recipes/"+recipe.ID.String(), storage.AllowImage...)
	if err != nil {
		return domain.RecipeImageResponse{}, err
	}
	imageURL := s.s3.GetPublicLinkKey(objectKey)

	image := &entities.RecipeImage{
		RecipeID:   recipe.ID,
		ImageURL:   imageURL,
		ImageType:  imageType,
		StepNumber: req.StepNumber,
		Caption:    req.Caption,
		SortOrder:  req.Order,
	}
	err = s.recipeRepository.Transaction(ctx, func(repo RecipeRepository) error {
		if err := repo.AddImage(ctx, image); err != nil {
			return err
		}
		if imageType == "featured" {
			return repo.SetFeaturedImage(ctx, recipe.ID, imageURL)
		}
		return nil
	})
	if err != nil {
		if delErr := s.s3.DeleteFile(ctx, objectKey); delErr != nil {
			log.Warnf("failed to delete orphaned image %s: %v", objectKey, delErr)
		}
		return domain.RecipeImageResponse{}, err
	}

	return toImageResponse(*image), nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
