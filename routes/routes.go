package routes

import (
	"law-office-api/controllers"
	"law-office-api/middleware"
	"law-office-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	staff := []int{models.RoleLawyer, models.RoleAssistant, models.RoleAdmin}
	lawyers := []int{models.RoleLawyer, models.RoleAdmin}

	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)
			public.POST("/refresh", controllers.RefreshToken)
			public.POST("/forgot-password", controllers.ForgotPassword)
			public.POST("/reset-password", controllers.ResetPassword)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Law Office API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/logout", controllers.Logout)
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			clients := protected.Group("/clients", middleware.RequireRole(staff...))
			{
				clients.GET("", controllers.GetClients)
				clients.GET("/:id", controllers.GetClient)
				clients.POST("", controllers.CreateClient)
				clients.PUT("/:id", controllers.UpdateClient)
				clients.DELETE("/:id", middleware.RequireRole(lawyers...), controllers.DeleteClient)
			}

			// Clause library and base minutes used by the contract form
			protected.GET("/clauses", middleware.RequireRole(staff...), controllers.GetClauseLibrary)
			protected.GET("/contract-templates", middleware.RequireRole(staff...), controllers.GetContractTemplates)
			protected.GET("/contract-templates/:id", middleware.RequireRole(staff...), controllers.GetContractTemplate)

			contracts := protected.Group("/contracts", middleware.RequireRole(staff...))
			{
				contracts.POST("/preview", controllers.PreviewContract)
				contracts.POST("/payment-plan", controllers.PreviewPaymentPlan)
				contracts.GET("", controllers.GetContracts)
				contracts.GET("/export", controllers.ExportContracts)
				contracts.GET("/:id", controllers.GetContract)
				contracts.GET("/:id/download", controllers.DownloadContract)

				contracts.POST("", middleware.RequireRole(lawyers...), controllers.CreateContract)
				contracts.PATCH("/:id/status", middleware.RequireRole(lawyers...), controllers.UpdateContractStatus)
				contracts.POST("/:id/email", middleware.RequireRole(lawyers...), controllers.EmailContract)
				contracts.DELETE("/:id", middleware.RequireRole(lawyers...), controllers.DeleteContract)
			}

			admin := protected.Group("/admin", middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/clauses", controllers.GetClausesAdmin)
				admin.POST("/clauses", controllers.CreateClause)
				admin.PUT("/clauses/:id", controllers.UpdateClause)
				admin.DELETE("/clauses/:id", controllers.DeleteClause)
				admin.PUT("/clauses/reorder", controllers.ReorderClauses)

				admin.GET("/contract-templates", controllers.GetContractTemplatesAdmin)
				admin.POST("/contract-templates", controllers.CreateContractTemplate)
				admin.PUT("/contract-templates/:id", controllers.UpdateContractTemplate)
				admin.DELETE("/contract-templates/:id", controllers.DeleteContractTemplate)
			}
		}
	}
}
