package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hearthplan/backend/internal/api"
	"github.com/hearthplan/backend/internal/middleware"
	"github.com/hearthplan/backend/internal/models"
)

// Handlers bundles the resource handlers wired into the route table.
type Handlers struct {
	Auth       *api.AuthHandler
	Users      *api.UsersHandler
	Meals      *api.MealsHandler
	MealPlans  *api.MealPlansHandler
	Activities *api.ActivitiesHandler
	Shopping   *api.ShoppingHandler
}

// SetupRouter configures the application routes. aiLimit may be nil; the
// AI-backed endpoints are then unthrottled.
func SetupRouter(h Handlers, sessions middleware.SessionResolver, aiLimit *middleware.RateLimiter) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://frontend:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Accept", "Origin", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	requireAuth := middleware.SessionAuth(sessions)

	throttled := func() gin.HandlerFunc {
		if aiLimit == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return aiLimit.Middleware()
	}()

	auth := router.Group("/api/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/logout", requireAuth, h.Auth.Logout)
		auth.GET("/me", requireAuth, h.Auth.Me)
	}

	users := router.Group("/api/users", requireAuth)
	{
		users.GET("", h.Users.List)
		users.GET("/:id", h.Users.Get)
		users.POST("", middleware.RequireRole(models.RoleParent), h.Users.Create)
		users.PATCH("/:id", h.Users.Update)
		users.POST("/:id/avatar", h.Users.UploadAvatar)
	}

	meals := router.Group("/api/meals", requireAuth, middleware.RequireRole(models.RoleParent, models.RoleCook))
	{
		meals.GET("", h.Meals.List)
		meals.POST("", h.Meals.Create)
		meals.POST("/suggestions", throttled, h.Meals.Suggestions)
	}

	mealPlans := router.Group("/api/meal-plans", requireAuth, middleware.RequireRole(models.RoleParent, models.RoleCook))
	{
		mealPlans.GET("", h.MealPlans.List)
		mealPlans.POST("", h.MealPlans.Create)
		mealPlans.PUT("/:id", h.MealPlans.Update)
		mealPlans.DELETE("/:id", h.MealPlans.Delete)
	}

	activities := router.Group("/api/activities", requireAuth)
	{
		activities.GET("", middleware.RequireRole(models.RoleParent, models.RoleChild), h.Activities.List)
		activities.POST("", middleware.RequireRole(models.RoleParent), h.Activities.Create)
		activities.PUT("/:id", middleware.RequireRole(models.RoleParent), h.Activities.Update)
		activities.DELETE("/:id", middleware.RequireRole(models.RoleParent), h.Activities.Delete)
	}

	lists := router.Group("/api/shopping-lists", requireAuth)
	{
		lists.GET("", h.Shopping.ListLists)
		lists.POST("", middleware.RequireRole(models.RoleParent, models.RoleCook), h.Shopping.CreateList)
		lists.DELETE("/:id", middleware.RequireRole(models.RoleParent, models.RoleCook), h.Shopping.DeleteList)
		lists.POST("/generate", middleware.RequireRole(models.RoleParent, models.RoleCook), h.Shopping.Generate)
		lists.POST("/generate-from-meals", middleware.RequireRole(models.RoleParent, models.RoleCook), throttled, h.Shopping.GenerateFromMeals)
	}

	items := router.Group("/api/shopping-items", requireAuth)
	{
		items.POST("", h.Shopping.CreateItem)
		items.PUT("/:id", h.Shopping.UpdateItem)
		items.DELETE("/:id", h.Shopping.DeleteItem)
	}

	return router
}
