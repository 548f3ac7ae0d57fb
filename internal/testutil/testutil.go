// Package testutil opens throwaway databases and seeds rows for package tests.
package testutil

import (
	migration "RecipeAPI/cmd/database/migrate"
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"bytes"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated SQLite database in a temp dir. A single connection
// keeps concurrent transactions serialized the way row locks would.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.Migrate(db))
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, username string) *entities.User {
	t.Helper()
	return createUser(t, db, username, domain.RoleUser)
}

func CreateAdmin(t testing.TB, db *gorm.DB, username string) *entities.User {
	t.Helper()
	return createUser(t, db, username, domain.RoleAdmin)
}

func createUser(t testing.TB, db *gorm.DB, username, role string) *entities.User {
	user := &entities.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "x",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func Principal(user *entities.User) domain.Principal {
	return domain.Principal{UserID: user.ID, Role: user.Role}
}

// CreateRecipe inserts a public recipe with the given ingredients directly,
// bypassing the service (no version rows).
func CreateRecipe(t testing.TB, db *gorm.DB, author *entities.User, title string, servings int, ingredients ...entities.Ingredient) *entities.Recipe {
	t.Helper()

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Title:       title,
		Slug:        fmt.Sprintf("%s-%s", title, uuid.NewString()[:8]),
		ServingSize: servings,
		CookTime:    10,
		Difficulty:  domain.DifficultyMedium,
		Visibility:  domain.VisibilityPublic,
	}
	require.NoError(t, db.Omit("Ingredients", "Tags", "Images", "Author").Create(recipe).Error)

	for i := range ingredients {
		ingredients[i].RecipeID = recipe.ID
		ingredients[i].Position = i
		if ingredients[i].Unit == "" {
			ingredients[i].Unit = domain.DefaultUnit
		}
		if ingredients[i].Type == "" {
			ingredients[i].Type = domain.IngredientTypeMain
		}
		require.NoError(t, db.Create(&ingredients[i]).Error)
	}
	recipe.Ingredients = ingredients
	return recipe
}

func Qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// PNGHeader is enough of a PNG for content sniffing.
var PNGHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

// FileHeader builds a multipart file header holding content, as Fiber would
// hand it to a handler.
func FileHeader(t testing.TB, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	require.Len(t, form.File[field], 1)
	return form.File[field][0]
}
