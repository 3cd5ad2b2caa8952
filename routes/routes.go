package routes

import (
	"os"
	"strings"

	"weddingops-backend/config"
	"weddingops-backend/controllers"
	"weddingops-backend/models"
	"weddingops-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())
	r.Use(config.MetricsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", config.MetricsHandler())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		staffOnly := utils.RequireRoles(models.RoleAdmin, models.RoleStaff)

		// Lead routes
		leads := api.Group("/leads")
		{
			leads.POST("", staffOnly, controllers.CreateLead)
			leads.GET("", staffOnly, controllers.GetLeads)
			leads.GET("/:id", controllers.GetLead)
			leads.PUT("/:id", staffOnly, controllers.UpdateLead)
			leads.PATCH("/:id/status", staffOnly, controllers.UpdateLeadStatus)
			leads.PATCH("/status", staffOnly, controllers.BulkUpdateLeadStatus)
			leads.DELETE("/:id", staffOnly, controllers.ArchiveLead)

			// Matching and cards
			leads.GET("/:id/matches", staffOnly, controllers.GetLeadMatches)
			leads.POST("/:id/cards", staffOnly, controllers.AssignVendorTeams)
			leads.GET("/:id/cards", controllers.GetLeadCards)

			// Wedding plan
			leads.GET("/:id/plan", controllers.GetWeddingPlan)
			leads.PUT("/:id/plan", controllers.UpsertWeddingPlan)

			// Latest proposal for a lead
			leads.GET("/:id/proposal", controllers.GetLeadProposal)
		}

		// Pipeline board
		api.GET("/pipeline/boards", staffOnly, controllers.GetPipelineBoards)

		// Vendor routes
		vendors := api.Group("/vendors", staffOnly)
		{
			vendors.POST("", controllers.CreateVendor)
			vendors.GET("", controllers.GetVendors)
			vendors.GET("/:id", controllers.GetVendor)
			vendors.PUT("/:id", controllers.UpdateVendor)
			vendors.DELETE("/:id", controllers.DeleteVendor)
			vendors.POST("/:id/teams", controllers.CreateTeam)
			vendors.POST("/teams/:teamId/members", controllers.AddTeamMember)
			vendors.POST("/:id/services", controllers.CreateVendorCatalogService)
		}

		// Proposal routes
		proposals := api.Group("/proposals")
		{
			proposals.POST("/draft", staffOnly, controllers.SaveProposalDraft)
			proposals.GET("/:id", controllers.GetProposal)
			proposals.POST("/:id/versions", staffOnly, controllers.SaveProposalVersion)
			proposals.GET("/:id/versions", controllers.GetProposalVersions)
			proposals.POST("/:id/finalize", staffOnly, controllers.FinalizeProposal)
			proposals.PATCH("/:id/status", controllers.UpdateProposalStatus)
			proposals.POST("/:id/assign-vendors", staffOnly, controllers.AssignProposalVendors)
		}

		// Notification log
		api.GET("/notifications", controllers.GetMyNotifications)
	}

	return r
}
