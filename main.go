package main

import (
	"fmt"
	"log"
	"os"

	"weddingops-backend/config"
	"weddingops-backend/models"
	"weddingops-backend/routes"
	"weddingops-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Lead{},
		&models.Vendor{},
		&models.Team{},
		&models.TeamMember{},
		&models.VendorService{},
		&models.KanbanCard{},
		&models.CardTeam{},
		&models.Proposal{},
		&models.ProposalService{},
		&models.ProposalCustomLine{},
		&models.ProposalVersion{},
		&models.WeddingPlan{},
		&models.WeddingPlanService{},
		&models.Notification{},
	)
}

func main() {
	notifier := services.NewNotificationService(config.DB)
	services.NewReminderService(config.DB, notifier).StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
