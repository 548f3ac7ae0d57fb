package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Recipe struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	AuthorID      uuid.UUID                   `gorm:"type:uuid;not null;index" json:"author_id"`
	Title         string                      `gorm:"size:255;not null" json:"title"`
	Slug          string                      `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description   string                      `gorm:"type:text" json:"description"`
	ServingSize   int                         `gorm:"not null;default:1;check:chk_recipe_serving_size,serving_size >= 1" json:"serving_size"`
	CookTime      int                         `gorm:"not null;check:chk_recipe_cook_time,cook_time >= 1" json:"cook_time"`
	PrepTime      int                         `gorm:"not null;default:0" json:"prep_time"`
	Equipment     datatypes.JSONSlice[string] `json:"equipment"`
	Instructions  datatypes.JSONSlice[string] `json:"instructions"`
	Tips          string                      `gorm:"type:text" json:"tips"`
	Difficulty    string                      `gorm:"size:10;not null;default:medium" json:"difficulty"`  // easy, medium, hard
	Visibility    string                      `gorm:"size:10;not null;default:draft;index" json:"visibility"` // draft, private, pending, public
	FeaturedImage string                      `json:"featured_image,omitempty"`
	VideoURL      string                      `json:"video_url,omitempty"`
	NutritionInfo datatypes.JSONMap           `json:"nutrition_info,omitempty"`
	AverageRating float64                     `gorm:"not null;default:0" json:"average_rating"`
	TotalRatings  int                         `gorm:"not null;default:0" json:"total_ratings"`
	ViewCount     int64                       `gorm:"not null;default:0" json:"view_count"`

	Author      *User         `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Ingredients []Ingredient  `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
	Images      []RecipeImage `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Tags        []Tag         `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Timestamp
}

func (r *Recipe) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

type Ingredient struct {
	ID       uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID uuid.UUID       `gorm:"type:uuid;not null;index" json:"recipe_id"`
	Name     string          `gorm:"size:200;not null;index" json:"name"`
	Quantity decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"quantity"`
	Unit     string          `gorm:"size:20;not null" json:"unit"`
	Type     string          `gorm:"size:20;not null;default:main" json:"type"` // main, spice, seasoning, garnish, other
	Notes    string          `gorm:"size:255" json:"notes,omitempty"`
	Position int             `gorm:"not null;default:0" json:"position"`

	Timestamp
}

func (i *Ingredient) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

type Tag struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"size:50;not null;uniqueIndex" json:"name"`
	Slug        string    `gorm:"size:60;not null;uniqueIndex" json:"slug"`
	Type        string    `gorm:"size:20;not null;default:other" json:"type"` // cuisine, dietary, meal, other
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"type:timestamp;autoCreateTime" json:"created_at"`
}

func (t *Tag) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

type RecipeImage struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID   uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	ImageURL   string    `gorm:"not null" json:"image_url"`
	ImageType  string    `gorm:"size:20;not null;default:gallery" json:"image_type"` // featured, step, gallery
	StepNumber *int      `json:"step_number,omitempty"`
	Caption    string    `gorm:"size:255" json:"caption,omitempty"`
	SortOrder  int       `gorm:"not null;default:0" json:"order"`
	UploadedAt time.Time `gorm:"type:timestamp;autoCreateTime" json:"uploaded_at"`
}

func (i *RecipeImage) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// RecipeVersion is an append-only snapshot of a recipe's editable content.
// Rows are never updated; they disappear only together with their recipe.
type RecipeVersion struct {
	ID                  uuid.UUID                               `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID            uuid.UUID                               `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_version_number,priority:1" json:"recipe_id"`
	VersionNumber       int                                     `gorm:"not null;uniqueIndex:idx_recipe_version_number,priority:2" json:"version_number"`
	Title               string                                  `gorm:"size:255;not null" json:"title"`
	Description         string                                  `gorm:"type:text" json:"description"`
	Instructions        datatypes.JSONSlice[string]             `json:"instructions"`
	IngredientsSnapshot datatypes.JSONSlice[IngredientSnapshot] `gorm:"not null" json:"ingredients_snapshot"`
	ChangedByID         *uuid.UUID                              `gorm:"type:uuid;index" json:"changed_by_id,omitempty"`
	ChangeSummary       string                                  `gorm:"type:text" json:"change_summary"`
	CreatedAt           time.Time                               `gorm:"type:timestamp;autoCreateTime" json:"created_at"`

	Recipe    *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	ChangedBy *User   `gorm:"foreignKey:ChangedByID;constraint:OnDelete:SET NULL" json:"-"`
}

func (v *RecipeVersion) BeforeCreate(*gorm.DB) error {
	ensureID(&v.ID)
	return nil
}

// IngredientSnapshot is the frozen JSON shape stored inside a RecipeVersion.
// It must not follow later changes to the Ingredient table.
type IngredientSnapshot struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Type     string          `json:"type"`
	Notes    string          `json:"notes"`
}
