package migrations

import (
	"kalban_greenbag/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Product{},
		&models.CustomizationOption{},
		&models.Material{},
		&models.Order{},
		&models.OrderItem{},
		&models.ProductCustomization{},
	}
}

// RunMigrations creates or updates the schema. With reset every table is dropped first.
func RunMigrations(db *gorm.DB, reset bool, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	if reset {
		log.Warn("Dropping existing tables...")
		tables := Models()
		// drop children before parents
		for i, j := 0, len(tables)-1; i < j; i, j = i+1, j-1 {
			tables[i], tables[j] = tables[j], tables[i]
		}
		if err := db.Migrator().DropTable(tables...); err != nil {
			log.WithError(err).Warn("Error dropping tables")
		}
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}

	log.Info("Database migrations completed successfully")
	return nil
}

// SeedCatalog inserts a demo user and catalog rows when they are missing.
func SeedCatalog(db *gorm.DB, log *logrus.Logger) error {
	log.Info("Creating default data...")

	rows := []interface{}{
		&models.User{ID: uuid.MustParse("8a6e0804-2bd0-4672-b79d-d97027f9071a"), Username: "demo", Email: "demo@kalban.local", Status: "ACTIVE"},
		&models.Product{ID: uuid.MustParse("0b7f5c4e-53f8-4a53-9d3e-7c1f4b8a2e01"), Name: "Canvas tote bag", BasePrice: decimal.RequireFromString("120000"), FinalPrice: decimal.RequireFromString("150000"), Status: "ACTIVE"},
		&models.CustomizationOption{ID: uuid.MustParse("4f0c8c56-0c8e-4b8e-a3f4-1d2b7f9a6c02"), Name: "Embroidered name", Type: "TEXT", Price: decimal.RequireFromString("30000"), Status: "ACTIVE"},
		&models.Material{ID: uuid.MustParse("b3a1e9d2-7c44-4f5b-8e61-2a9d0c3f5e03"), Name: "Recycled canvas", Unit: "m", Price: decimal.RequireFromString("45000")},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			if err := tx.FirstOrCreate(row).Error; err != nil {
				return err
			}
		}
		log.WithField("rows", len(rows)).Info("Default data ready")
		return nil
	})
}
