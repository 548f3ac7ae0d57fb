package migration

import (
	entities2 "RecipeAPI/entities"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// Models lists every table in dependency order: owners before the rows that
// reference them.
func Models() []any {
	return []any{
		&entities2.User{},
		&entities2.Tag{},
		&entities2.Recipe{},
		&entities2.Ingredient{},
		&entities2.RecipeImage{},
		&entities2.RecipeVersion{},
		&entities2.Comment{},
		&entities2.Rating{},
		&entities2.Follow{},
		&entities2.Favorite{},
		&entities2.Message{},
		&entities2.Notification{},
	}
}

func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			log.Warnf("could not create uuid-ossp extension: %v", err)
		}
	}

	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrating %T: %w", model, err)
		}
	}

	log.Info("Database migration complete")
	return nil
}
