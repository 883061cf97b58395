package api

import (
	"net/http"

	"alcyxob/trainer-link/internal/domain"
	"alcyxob/trainer-link/internal/logging"
	"alcyxob/trainer-link/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles what the routes dispatch to.
type Services struct {
	Auth       service.AuthService
	TrainerKey service.TrainerKeyService
	Profile    service.ProfileService
	Exercise   service.ExerciseService
	Catalog    CatalogSource
}

func SetupRoutes(router *gin.Engine, jwtSecret string, svc Services, log logging.Logger) {
	authHandler := NewAuthHandler(svc.Auth, log)
	trainerHandler := NewTrainerHandler(svc.TrainerKey, svc.Profile, log)
	profileHandler := NewProfileHandler(svc.Profile, log)
	exerciseHandler := NewExerciseHandler(svc.Exercise, log)
	catalogHandler := NewCatalogHandler(svc.Catalog, log)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/signup", authHandler.SignUp)
			authGroup.POST("/signin", authHandler.SignIn)
		}

		// Public so the signup screen can confirm a key before an account exists.
		keyGroup := apiV1.Group("/trainer-keys")
		{
			keyGroup.GET("/generate", trainerHandler.GenerateKey)
			keyGroup.GET("/:key", trainerHandler.ValidateKey)
		}

		catalogGroup := apiV1.Group("/catalog")
		{
			catalogGroup.GET("/categories", catalogHandler.GetCategories)
			catalogGroup.GET("/exercises", catalogHandler.GetExercises)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		meGroup := protected.Group("/me")
		{
			meGroup.GET("", profileHandler.GetMe)
			meGroup.PATCH("", profileHandler.UpdateMe)
			meGroup.POST("/avatar", profileHandler.RequestAvatarUpload)
			meGroup.PUT("/trainer", RoleMiddleware(domain.RoleStudent), profileHandler.LinkTrainer)
		}

		// --- Trainer Specific Routes ---
		trainerApiGroup := protected.Group("/trainer")
		trainerApiGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerApiGroup.GET("/students", trainerHandler.GetStudents)

			exerciseGroup := trainerApiGroup.Group("/exercises")
			{
				exerciseGroup.GET("", exerciseHandler.GetTrainerExercises)
				exerciseGroup.POST("", exerciseHandler.CreateExercise)
				exerciseGroup.GET("/cards", exerciseHandler.GetExerciseCards)
				exerciseGroup.PUT("/:id", exerciseHandler.UpdateExercise)
				exerciseGroup.DELETE("/:id", exerciseHandler.DeleteExercise)
				exerciseGroup.POST("/:id/images", exerciseHandler.RequestImageUpload)
				exerciseGroup.DELETE("/:id/images", exerciseHandler.DeleteExerciseImage)
			}
		}
	}
}
