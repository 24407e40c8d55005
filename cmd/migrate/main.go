package main

import (
	"log"
	"os"

	"featureboard-be/internal/model"
	"featureboard-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. AutoMigrate. The votes unique index (uk_vote_user_feature) comes from the model tags.
	log.Println("Step 1: Running AutoMigrate for 4 Tables...")

	models := []interface{}{
		&model.Product{},
		&model.Feature{},
		&model.Vote{},
		&model.Comment{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 4. Post-Migration: constraints and views
	log.Println("Step 2: Creating Constraints and Views...")

	postMigrationSQL := []string{
		`DO $$ BEGIN
		   IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_features_vote_count') THEN
		     ALTER TABLE features ADD CONSTRAINT chk_features_vote_count CHECK (vote_count >= 0);
		   END IF;
		 END $$;`,

		// View: feature_vote_drift lists features whose cached count disagrees with the votes table.
		`CREATE OR REPLACE VIEW feature_vote_drift AS
		 SELECT f.id AS feature_id, f.vote_count, COUNT(v.id) AS actual_votes
		 FROM features f LEFT JOIN votes v ON v.feature_id = f.id
		 GROUP BY f.id, f.vote_count
		 HAVING f.vote_count <> COUNT(v.id);`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
