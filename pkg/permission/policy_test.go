package permission

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestPolicy(t *testing.T) {
	author := domain.Principal{UserID: uuid.New(), Role: domain.RoleUser}
	stranger := domain.Principal{UserID: uuid.New(), Role: domain.RoleUser}
	admin := domain.Principal{UserID: uuid.New(), Role: domain.RoleAdmin}
	anonymous := domain.Principal{}

	draft := &entities.Recipe{AuthorID: author.UserID, Visibility: domain.VisibilityDraft}
	public := &entities.Recipe{AuthorID: author.UserID, Visibility: domain.VisibilityPublic}

	t.Run("view", func(t *testing.T) {
		p := NewPolicy(false)
		assert.NoError(t, p.CanViewRecipe(anonymous, public))
		assert.NoError(t, p.CanViewRecipe(author, draft))
		assert.NoError(t, p.CanViewRecipe(admin, draft))
		assert.ErrorIs(t, p.CanViewRecipe(stranger, draft), domain.ErrNotFound)
		assert.ErrorIs(t, p.CanViewRecipe(stranger, nil), domain.ErrNotFound)
	})

	t.Run("edit", func(t *testing.T) {
		p := NewPolicy(false)
		assert.NoError(t, p.CanEditRecipe(author, public))
		assert.NoError(t, p.CanEditRecipe(admin, public))
		assert.ErrorIs(t, p.CanEditRecipe(stranger, public), domain.ErrForbidden)
		assert.ErrorIs(t, p.CanEditRecipe(anonymous, public), domain.ErrUnauthorized)
		assert.ErrorIs(t, p.CanEditRecipe(stranger, draft), domain.ErrNotFound)
	})

	t.Run("scale open to viewers by default", func(t *testing.T) {
		p := NewPolicy(false)
		assert.NoError(t, p.CanScaleRecipe(stranger, public))
		assert.NoError(t, p.CanScaleRecipe(anonymous, public))
		assert.ErrorIs(t, p.CanScaleRecipe(stranger, draft), domain.ErrNotFound)
	})

	t.Run("scale restricted to owner when configured", func(t *testing.T) {
		p := NewPolicy(true)
		assert.NoError(t, p.CanScaleRecipe(author, public))
		assert.NoError(t, p.CanScaleRecipe(admin, public))
		assert.ErrorIs(t, p.CanScaleRecipe(stranger, public), domain.ErrForbidden)
	})

	t.Run("rate", func(t *testing.T) {
		p := NewPolicy(false)
		assert.NoError(t, p.CanRateRecipe(stranger, public))
		assert.NoError(t, p.CanRateRecipe(author, draft))
		assert.ErrorIs(t, p.CanRateRecipe(stranger, draft), domain.ErrForbidden)
		assert.ErrorIs(t, p.CanRateRecipe(anonymous, public), domain.ErrUnauthorized)
	})

	t.Run("moderate", func(t *testing.T) {
		p := NewPolicy(false)
		assert.NoError(t, p.CanModerate(admin))
		assert.ErrorIs(t, p.CanModerate(author), domain.ErrForbidden)
	})
}
