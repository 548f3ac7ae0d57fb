package recipe

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
)

func ToRecipeSummary(recipe *entities.Recipe) domain.RecipeSummary {
	summary := domain.RecipeSummary{
		ID:            recipe.ID.String(),
		Title:         recipe.Title,
		Slug:          recipe.Slug,
		Description:   recipe.Description,
		AuthorID:      recipe.AuthorID.String(),
		ServingSize:   recipe.ServingSize,
		CookTime:      recipe.CookTime,
		PrepTime:      recipe.PrepTime,
		TotalTime:     recipe.CookTime + recipe.PrepTime,
		Difficulty:    recipe.Difficulty,
		Visibility:    recipe.Visibility,
		FeaturedImage: recipe.FeaturedImage,
		AverageRating: recipe.AverageRating,
		TotalRatings:  recipe.TotalRatings,
		ViewCount:     recipe.ViewCount,
		CreatedAt:     recipe.CreatedAt,
		UpdatedAt:     recipe.UpdatedAt,
	}
	if recipe.Author != nil {
		summary.AuthorUsername = recipe.Author.Username
	}
	return summary
}

func toIngredientResponse(ing entities.Ingredient) domain.IngredientResponse {
	fullName := ing.Name
	if ing.Notes != "" {
		fullName += " (" + ing.Notes + ")"
	}
	return domain.IngredientResponse{
		ID:       ing.ID.String(),
		Name:     ing.Name,
		FullName: fullName,
		Quantity: ing.Quantity,
		Unit:     ing.Unit,
		Type:     ing.Type,
		Notes:    ing.Notes,
	}
}

func toTagResponse(tag entities.Tag, recipeCount int64) domain.TagResponse {
	return domain.TagResponse{
		ID:          tag.ID.String(),
		Name:        tag.Name,
		Slug:        tag.Slug,
		Type:        tag.Type,
		Description: tag.Description,
		RecipeCount: recipeCount,
	}
}

func toImageResponse(img entities.RecipeImage) domain.RecipeImageResponse {
	return domain.RecipeImageResponse{
		ID:         img.ID.String(),
		ImageURL:   img.ImageURL,
		ImageType:  img.ImageType,
		StepNumber: img.StepNumber,
		Caption:    img.Caption,
		Order:      img.SortOrder,
		UploadedAt: img.UploadedAt,
	}
}

func ToRecipeDetail(recipe *entities.Recipe) domain.RecipeDetail {
	detail := domain.RecipeDetail{
		RecipeSummary: ToRecipeSummary(recipe),
		Equipment:     append([]string{}, recipe.Equipment...),
		Instructions:  append([]string{}, recipe.Instructions...),
		Tips:          recipe.Tips,
		VideoURL:      recipe.VideoURL,
		NutritionInfo: recipe.NutritionInfo,
		Ingredients:   make([]domain.IngredientResponse, 0, len(recipe.Ingredients)),
		Tags:          make([]domain.TagResponse, 0, len(recipe.Tags)),
		Images:        make([]domain.RecipeImageResponse, 0, len(recipe.Images)),
	}
	for _, ing := range recipe.Ingredients {
		detail.Ingredients = append(detail.Ingredients, toIngredientResponse(ing))
	}
	for _, tag := range recipe.Tags {
		detail.Tags = append(detail.Tags, toTagResponse(tag, 0))
	}
	for _, img := range recipe.Images {
		detail.Images = append(detail.Images, toImageResponse(img))
	}
	return detail
}

func toVersionResponse(v *entities.RecipeVersion) domain.RecipeVersionResponse {
	res := domain.RecipeVersionResponse{
		ID:                  v.ID.String(),
		RecipeID:            v.RecipeID.String(),
		VersionNumber:       v.VersionNumber,
		Title:               v.Title,
		Description:         v.Description,
		Instructions:        append([]string{}, v.Instructions...),
		IngredientsSnapshot: make([]domain.IngredientSnapshotResponse, 0, len(v.IngredientsSnapshot)),
		ChangeSummary:       v.ChangeSummary,
		CreatedAt:           v.CreatedAt,
	}
	if v.ChangedByID != nil {
		id := v.ChangedByID.String()
		res.ChangedByID = &id
	}
	for _, ing := range v.IngredientsSnapshot {
		res.IngredientsSnapshot = append(res.IngredientsSnapshot, domain.IngredientSnapshotResponse{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
			Type:     ing.Type,
			Notes:    ing.Notes,
		})
	}
	return res
}

func toIngredientListItem(row IngredientRow) domain.IngredientListItem {
	return domain.IngredientListItem{
		IngredientResponse: toIngredientResponse(row.Ingredient),
		RecipeID:           row.RecipeID.String(),
		RecipeTitle:        row.RecipeTitle,
	}
}
