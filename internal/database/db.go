package database

import (
	"log"

	"github.com/glebarez/sqlite"
	"github.com/jobintellect/jobintellect/internal/models"
	"gorm.io/gorm"
)

// Connect opens the SQLite database at path and migrates the schema. The
// foreign-key columns carry indexes via the model tags.
func Connect(path string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("Database connection established")

	log.Println("Running Migrations...")
	if err := db.AutoMigrate(&models.SearchSession{}, &models.Job{}, &models.JobSkill{}); err != nil {
		log.Fatal("Migration failed:", err)
	}
	return db
}
