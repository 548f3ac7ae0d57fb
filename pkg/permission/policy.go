// Package permission decides who may read or change a recipe. Services load
// the recipe and ask the policy before touching it.
package permission

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
)

type (
	Policy interface {
		CanViewRecipe(p domain.Principal, recipe *entities.Recipe) error
		CanEditRecipe(p domain.Principal, recipe *entities.Recipe) error
		CanScaleRecipe(p domain.Principal, recipe *entities.Recipe) error
		CanRateRecipe(p domain.Principal, recipe *entities.Recipe) error
		CanModerate(p domain.Principal) error
	}

	policy struct {
		scaleRequiresOwner bool
	}
)

func NewPolicy(scaleRequiresOwner bool) Policy {
	return &policy{scaleRequiresOwner: scaleRequiresOwner}
}

func isOwner(p domain.Principal, recipe *entities.Recipe) bool {
	return !p.IsAnonymous() && recipe.AuthorID == p.UserID
}

// CanViewRecipe hides non-public recipes from everyone but their author and
// admins by reporting them as missing.
func (pl *policy) CanViewRecipe(p domain.Principal, recipe *entities.Recipe) error {
	if recipe == nil {
		return domain.ErrRecipeNotFound
	}
	if recipe.Visibility == domain.VisibilityPublic || isOwner(p, recipe) || p.IsAdmin() {
		return nil
	}
	return domain.ErrRecipeNotFound
}

func (pl *policy) CanEditRecipe(p domain.Principal, recipe *entities.Recipe) error {
	if err := pl.CanViewRecipe(p, recipe); err != nil {
		return err
	}
	if p.IsAnonymous() {
		return domain.ErrTokenNotFound
	}
	if isOwner(p, recipe) || p.IsAdmin() {
		return nil
	}
	return domain.ErrUnauthorizedRecipeAccess
}

func (pl *policy) CanScaleRecipe(p domain.Principal, recipe *entities.Recipe) error {
	if err := pl.CanViewRecipe(p, recipe); err != nil {
		return err
	}
	if pl.scaleRequiresOwner && !isOwner(p, recipe) && !p.IsAdmin() {
		return domain.ErrUnauthorizedRecipeAccess
	}
	return nil
}

func (pl *policy) CanRateRecipe(p domain.Principal, recipe *entities.Recipe) error {
	if recipe == nil {
		return domain.ErrRecipeNotFound
	}
	if p.IsAnonymous() {
		return domain.ErrTokenNotFound
	}
	if recipe.Visibility == domain.VisibilityPublic || isOwner(p, recipe) {
		return nil
	}
	return domain.ErrUnauthorizedRecipeAccess
}

func (pl *policy) CanModerate(p domain.Principal) error {
	if p.IsAdmin() {
		return nil
	}
	return domain.ErrAdminRequired
}
