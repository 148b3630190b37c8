package migration

import (
	"fmt"
	"log"

	"ghibli-backend/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.StateSnapshot{}); err != nil {
		log.Fatalf("Error migrating state snapshot database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.PurchaseOrder{}); err != nil {
		log.Fatalf("Error migrating purchase order database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
