package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/siprista/backend/internal/app/controllers"
	"github.com/siprista/backend/internal/app/models"
	"github.com/siprista/backend/internal/middleware"
)

// Controllers groups every handler the router mounts.
type Controllers struct {
	Auth        *controllers.AuthController
	Student     *controllers.StudentController
	Guru        *controllers.GuruController
	Achievement *controllers.AchievementController
	Report      *controllers.ReportController
	Health      *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	api.GET("/health", c.Health.Health)

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/login", c.Auth.Login)
		auth.POST("/logout", authMiddleware.JWTAuth(), c.Auth.Logout)
		auth.GET("/me", authMiddleware.JWTAuth(), c.Auth.Me)
	}

	// Achievement listing is public with ?public=true, so the token is optional there.
	api.GET("/prestasi", authMiddleware.OptionalAuth(), c.Achievement.List)

	// --- Authenticated Routes Group ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)

	siswa := authenticated.Group("/siswa")
	{
		siswa.GET("", c.Student.List)
		siswa.GET("/:id", c.Student.Get)
		siswa.POST("", adminOnly, c.Student.Create)
		siswa.PUT("/:id", adminOnly, c.Student.Update)
		siswa.DELETE("/:id", adminOnly, c.Student.Delete)
	}

	guru := authenticated.Group("/guru", adminOnly)
	{
		guru.GET("", c.Guru.List)
		guru.GET("/:id", c.Guru.Get)
		guru.POST("", c.Guru.Create)
		guru.PUT("/:id", c.Guru.Update)
		guru.DELETE("/:id", c.Guru.Delete)
	}

	prestasi := authenticated.Group("/prestasi")
	{
		prestasi.GET("/:id", c.Achievement.Get)
		prestasi.POST("", c.Achievement.Create)
		prestasi.PUT("/:id", c.Achievement.Update)
		prestasi.DELETE("/:id", c.Achievement.Delete)
	}

	laporan := authenticated.Group("/laporan")
	{
		laporan.GET("", c.Report.Get)
		laporan.GET("/export", c.Report.Export)
	}

	// Browsers cannot set headers on websocket requests; JWTAuth also reads ?token=.
	authenticated.GET("/live", c.Report.Live)
}
