package recipe

import (
	"RecipeAPI/domain"
	"RecipeAPI/entities"
	"RecipeAPI/internal/utils"
	"context"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	TagRepository interface {
		ListTags(ctx context.Context, tagType string) ([]TagRow, error)
		GetTagBySlug(ctx context.Context, slug string) (*TagRow, error)
		GetTagsByIDs(ctx context.Context, ids []uuid.UUID) ([]entities.Tag, error)
		CreateTag(ctx context.Context, tag *entities.Tag) error
	}

	TagRow struct {
		entities.Tag `gorm:"embedded"`
		RecipeCount  int64
	}

	tagRepository struct {
		db *gorm.DB
	}
)

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) withCounts(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&entities.Tag{}).
		Select("tags.*, COUNT(recipe_tags.recipe_id) AS recipe_count").
		Joins("LEFT JOIN recipe_tags ON recipe_tags.tag_id = tags.id").
		Group("tags.id")
}

func (r *tagRepository) ListTags(ctx context.Context, tagType string) ([]TagRow, error) {
	var rows []TagRow
	q := r.withCounts(ctx)
	if tagType != "" {
		q = q.Where("tags.type = ?", tagType)
	}
	if err := q.Order("tags.name ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *tagRepository) GetTagBySlug(ctx context.Context, slug string) (*TagRow, error) {
	var rows []TagRow
	if err := r.withCounts(ctx).Where("tags.slug = ?", slug).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrTagNotFound
	}
	return &rows[0], nil
}

func (r *tagRepository) GetTagsByIDs(ctx context.Context, ids []uuid.UUID) ([]entities.Tag, error) {
	var tags []entities.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, domain.Validation("tag_ids", "one or more tags do not exist")
	}
	return tags, nil
}

func (r *tagRepository) CreateTag(ctx context.Context, tag *entities.Tag) error {
	err := r.db.WithContext(ctx).Create(tag).Error
	if utils.IsDuplicateKey(err) {
		return domain.ErrTagExists
	}
	return err
}
