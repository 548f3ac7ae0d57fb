package recipe

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"RecipeAPI/internal/utils"
	"RecipeAPI/pkg/permission"
	"context"
	"strings"
)

type (
	// CatalogService serves the browse-only lists: tags and the ingredients
	// of public recipes.
	CatalogService interface {
		GetTags(ctx context.Context, tagType string) ([]domain.TagResponse, error)
		GetTag(ctx context.Context, slug string) (domain.TagResponse, error)
		CreateTag(ctx context.Context, req domain.CreateTagRequest, principal domain.Principal) (domain.TagResponse, error)
		GetIngredients(ctx context.Context, search string, page, limit int) ([]domain.IngredientListItem, int64, error)
		GetIngredient(ctx context.Context, ingredientID string) (domain.IngredientListItem, error)
	}

	catalogService struct {
		recipeRepository RecipeRepository
		tagRepository    TagRepository
		policy           permission.Policy
	}
)

func NewCatalogService(recipeRepository RecipeRepository, tagRepository TagRepository, policy permission.Policy) CatalogService {
	return &catalogService{
		recipeRepository: recipeRepository,
		tagRepository:    tagRepository,
		policy:           policy,
	}
}

func (s *catalogService) GetTags(ctx context.Context, tagType string) ([]domain.TagResponse, error) {
	rows, err := s.tagRepository.ListTags(ctx, tagType)
	if err != nil {
		return nil, err
	}
	response := make([]domain.TagResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, toTagResponse(row.Tag, row.RecipeCount))
	}
	return response, nil
}

func (s *catalogService) GetTag(ctx context.Context, slug string) (domain.TagResponse, error) {
	row, err := s.tagRepository.GetTagBySlug(ctx, slug)
	if err != nil {
		return domain.TagResponse{}, err
	}
	return toTagResponse(row.Tag, row.RecipeCount), nil
}

func (s *catalogService) CreateTag(ctx context.Context, req domain.CreateTagRequest, principal domain.Principal) (domain.TagResponse, error) {
	if err := s.policy.CanModerate(principal); err != nil {
		return domain.TagResponse{}, err
	}

	name := strings.TrimSpace(req.Name)
	slug := utils.Slugify(name)
	if slug == "" {
		return domain.TagResponse{}, domain.Validation("name", "must contain at least one letter or digit")
	}

	tag := &entities.Tag{
		Name:        name,
		Slug:        slug,
		Type:        orDefault(req.Type, "other"),
		Description: req.Description,
	}
	if err := s.tagRepository.CreateTag(ctx, tag); err != nil {
		return domain.TagResponse{}, err
	}
	return toTagResponse(*tag, 0), nil
}

func (s *catalogService) GetIngredients(ctx context.Context, search string, page, limit int) ([]domain.IngredientListItem, int64, error) {
	rows, count, err := s.recipeRepository.ListIngredients(ctx, strings.TrimSpace(search), page, limit)
	if err != nil {
		return nil, 0, err
	}
	response := make([]domain.IngredientListItem, 0, len(rows))
	for _, row := range rows {
		response = append(response, toIngredientListItem(row))
	}
	return response, count, nil
}

func (s *catalogService) GetIngredient(ctx context.Context, ingredientID string) (domain.IngredientListItem, error) {
	id, err := domain.ParseID("id", ingredientID)
	if err != nil {
		return domain.IngredientListItem{}, err
	}
	row, err := s.recipeRepository.GetPublicIngredient(ctx, id)
	if err != nil {
		return domain.IngredientListItem{}, err
	}
	return toIngredientListItem(*row), nil
}
