package main

import (
	"context"
	"errors"
	"log"

	"github.com/hearthplan/backend/config"
	"github.com/hearthplan/backend/internal/database"
	"github.com/hearthplan/backend/internal/models"
	"github.com/hearthplan/backend/internal/service"
)

type seedUser struct {
	email    string
	password string
	name     string
	role     string
}

var seedUsers = []seedUser{
	{"parent@hearthplan.dev", "parent123", "Pat Parent", models.RoleParent},
	{"cook@hearthplan.dev", "cook123", "Casey Cook", models.RoleCook},
	{"kid@hearthplan.dev", "kid123", "Kim Kid", models.RoleChild},
}

var seedMeals = []models.Meal{
	{
		Name:            "Spaghetti Bolognese",
		Description:     "Classic pasta with a slow-simmered meat sauce",
		Cuisine:         "Italian",
		Ingredients:     models.JSONBStringArray{"spaghetti", "ground beef", "tomato sauce", "onion", "garlic"},
		Instructions:    "Brown the beef, add sauce, simmer, serve over pasta.",
		MealType:        "dinner",
		Servings:        4,
		PrepTimeMinutes: 35,
	},
	{
		Name:            "Veggie Omelette",
		Description:     "Quick breakfast with whatever is in the fridge",
		Cuisine:         "French",
		Ingredients:     models.JSONBStringArray{"eggs", "bell pepper", "onion", "cheese"},
		Instructions:    "Whisk eggs, cook with vegetables, fold with cheese.",
		MealType:        "breakfast",
		Servings:        2,
		PrepTimeMinutes: 10,
	},
	{
		Name:            "Chicken Tacos",
		Description:     "Weeknight tacos with shredded chicken",
		Cuisine:         "Mexican",
		Ingredients:     models.JSONBStringArray{"chicken breast", "tortillas", "salsa", "lettuce", "cheese"},
		Instructions:    "Cook and shred chicken, warm tortillas, assemble.",
		MealType:        "dinner",
		Servings:        4,
		PrepTimeMinutes: 25,
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	ctx := context.Background()
	auth := service.NewAuthService(db)

	var parent *models.User
	for _, su := range seedUsers {
		user, err := auth.Register(ctx, su.email, su.password, su.name, su.role)
		if err != nil {
			if errors.Is(err, service.ErrConflict) {
				log.Printf("User %s already exists, skipping", su.email)
				continue
			}
			log.Fatalf("Failed to seed user %s: %v", su.email, err)
		}
		if su.role == models.RoleParent && parent == nil {
			parent = user
		}
		log.Printf("Seeded %s user %s", su.role, su.email)
	}

	if parent == nil {
		// Re-run against an already seeded database: reuse the existing parent
		// as the meal author.
		var existing models.User
		if err := db.Where("role = ?", models.RoleParent).First(&existing).Error; err != nil {
			log.Fatalf("No parent user available to own seed meals: %v", err)
		}
		parent = &existing
	}

	for _, meal := range seedMeals {
		var count int64
		if err := db.Model(&models.Meal{}).Where("name = ?", meal.Name).Count(&count).Error; err != nil {
			log.Fatalf("Failed to check meal %s: %v", meal.Name, err)
		}
		if count > 0 {
			log.Printf("Meal %s already exists, skipping", meal.Name)
			continue
		}

		meal.CreatedBy = parent.ID
		meal.Embedding = service.GenerateEmbedding(meal.Name + " " + meal.Cuisine)
		if err := db.Create(&meal).Error; err != nil {
			log.Fatalf("Failed to seed meal %s: %v", meal.Name, err)
		}
		log.Printf("Seeded meal %s", meal.Name)
	}

	log.Println("Seeding complete")
}
