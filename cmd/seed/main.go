package main

import (
	"log"
	"os"

	"featureboard-be/internal/model"
	"featureboard-be/internal/pkg/serverutils"
	"featureboard-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

const (
	demoOwner   = "owner-demo"
	demoProduct = "Featureboard Demo"
)

type seedFeature struct {
	Title       string
	Description string
	Category    string
	Status      string
	AuthorId    string
	Voters      []string
	Comments    []model.Comment
}

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding demo product...")

	var existing model.Product
	if err := db.Where("name = ?", demoProduct).First(&existing).Error; err == nil {
		color.Yellow("Product '%s' already exists (id %d), skipping...", demoProduct, existing.Id)
		printTokens()
		return
	}

	product := model.Product{
		Name:        demoProduct,
		Description: "Sample board used for local development",
		OwnerId:     demoOwner,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		for _, f := range demoFeatures() {
			if err := seedOne(tx, product.Id, f); err != nil {
				return err
			}
			color.Green("  ✓ %s (%s, %d votes)", f.Title, f.Status, len(f.Voters))
		}
		return nil
	})
	if err != nil {
		color.Red("Seeding failed: %v", err)
		os.Exit(1)
	}

	color.Green("Seeded product %d", product.Id)
	printTokens()
}

// seedOne inserts a feature, one vote per voter and its comments. The author
// is always among the voters, matching what the API does on submission.
func seedOne(tx *gorm.DB, productId int64, f seedFeature) error {
	voters := append([]string{f.AuthorId}, f.Voters...)
	feature := model.Feature{
		ProductId:   productId,
		Title:       f.Title,
		Description: f.Description,
		Category:    f.Category,
		Status:      f.Status,
		AuthorId:    f.AuthorId,
		VoteCount:   len(voters),
	}
	if err := tx.Create(&feature).Error; err != nil {
		return err
	}

	votes := make([]model.Vote, 0, len(voters))
	for _, userId := range voters {
		votes = append(votes, model.Vote{UserId: userId, FeatureId: feature.Id})
	}
	if err := tx.Create(&votes).Error; err != nil {
		return err
	}

	for _, c := range f.Comments {
		c.FeatureId = feature.Id
		c.IsOfficial = c.AuthorId == demoOwner
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
	}
	return nil
}

func demoFeatures() []seedFeature {
	return []seedFeature{
		{
			Title:       "Dark mode",
			Description: "A dark theme for the whole dashboard",
			Category:    "UI/UX Improvement",
			Status:      "planned",
			AuthorId:    "alice",
			Voters:      []string{"bob", "carol", "dave"},
			Comments: []model.Comment{
				{AuthorId: "bob", AuthorName: "Bob", Content: "Please also cover the embeddable widget."},
				{AuthorId: demoOwner, AuthorName: "Team", Content: "Scheduled for next quarter."},
			},
		},
		{
			Title:       "Slack integration",
			Description: "Post roadmap changes to a Slack channel",
			Category:    "Integration",
			Status:      "under-review",
			AuthorId:    "bob",
			Voters:      []string{"carol"},
		},
		{
			Title:       "CSV export",
			Description: "Export all feature requests and vote counts as CSV",
			Category:    "New Feature",
			Status:      "submitted",
			AuthorId:    "carol",
		},
		{
			Title:       "Faster board load",
			Description: "The board takes several seconds with many features",
			Category:    "Performance",
			Status:      "in-progress",
			AuthorId:    "dave",
			Voters:      []string{"alice", "bob"},
		},
		{
			Title:       "Public API docs",
			Description: "Document the REST endpoints for integrators",
			Category:    "Documentation",
			Status:      "live",
			AuthorId:    "alice",
		},
	}
}

func printTokens() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-me"
	}
	color.Cyan("Demo tokens:")
	for _, userId := range []string{demoOwner, "alice", "bob"} {
		token, err := serverutils.SignToken(secret, userId)
		if err != nil {
			color.Red("  %s: %v", userId, err)
			continue
		}
		color.White("  %-12s %s", userId, token)
	}
}
