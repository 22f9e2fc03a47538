package routes

import (
	"os"
	"strings"

	"mestizo-crm-backend/config"
	"mestizo-crm-backend/controllers"
	"mestizo-crm-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := allowedOrigins()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	api := r.Group("/api")
	{
		// Token endpoints stay outside the auth middleware
		api.POST("/token", controllers.ObtainToken)
		api.POST("/token/refresh", controllers.RefreshToken)
		api.POST("/auth/register", controllers.Register)

		authed := api.Group("")
		authed.Use(utils.AuthMiddleware())
		{
			authed.GET("/auth/me", controllers.Me)

			// Catalog routes
			catalog := authed.Group("/catalog")
			{
				catalog.POST("", controllers.CreateCatalogItem)
				catalog.GET("", controllers.GetCatalogItems)
				catalog.GET("/:id", controllers.GetCatalogItem)
				catalog.PUT("/:id", controllers.UpdateCatalogItem)
				catalog.DELETE("/:id", controllers.DeleteCatalogItem)
			}

			// Customer routes
			customers := authed.Group("/customers")
			{
				customers.POST("", controllers.CreateCustomer)
				customers.GET("", controllers.GetCustomers)
				customers.GET("/:id", controllers.GetCustomer)
				customers.PUT("/:id", controllers.UpdateCustomer)
				customers.DELETE("/:id", controllers.DeleteCustomer)
			}

			contacts := authed.Group("/contacts")
			{
				contacts.POST("", controllers.CreateContact)
				contacts.GET("", controllers.GetContacts)
				contacts.GET("/:id", controllers.GetContact)
				contacts.PUT("/:id", controllers.UpdateContact)
				contacts.DELETE("/:id", controllers.DeleteContact)
			}

			addresses := authed.Group("/addresses")
			{
				addresses.POST("", controllers.CreateAddress)
				addresses.GET("", controllers.GetAddresses)
				addresses.GET("/:id", controllers.GetAddress)
				addresses.PUT("/:id", controllers.UpdateAddress)
				addresses.DELETE("/:id", controllers.DeleteAddress)
			}

			// Sales routes
			leads := authed.Group("/leads")
			{
				leads.POST("", controllers.CreateLead)
				leads.GET("", controllers.GetLeads)
				leads.GET("/:id", controllers.GetLead)
				leads.PUT("/:id", controllers.UpdateLead)
				leads.DELETE("/:id", controllers.DeleteLead)
			}

			opportunities := authed.Group("/opportunities")
			{
				opportunities.POST("", controllers.CreateOpportunity)
				opportunities.GET("", controllers.GetOpportunities)
				opportunities.GET("/:id", controllers.GetOpportunity)
				opportunities.PUT("/:id", controllers.UpdateOpportunity)
				opportunities.DELETE("/:id", controllers.DeleteOpportunity)
				opportunities.POST("/:id/change_stage", controllers.ChangeOpportunityStage)
			}

			activities := authed.Group("/activities")
			{
				activities.POST("", controllers.CreateActivity)
				activities.GET("", controllers.GetActivities)
				activities.GET("/:id", controllers.GetActivity)
				activities.PUT("/:id", controllers.UpdateActivity)
				activities.DELETE("/:id", controllers.DeleteActivity)
				activities.POST("/:id/mark_done", controllers.MarkActivityDone)
			}

			// Quote routes
			quotes := authed.Group("/quotes")
			{
				quotes.POST("", controllers.CreateQuote)
				quotes.GET("", controllers.GetQuotes)
				quotes.GET("/:id", controllers.GetQuote)
				quotes.PUT("/:id", controllers.UpdateQuote)
				quotes.DELETE("/:id", controllers.DeleteQuote)
				quotes.POST("/:id/change_status", controllers.ChangeQuoteStatus)
			}

			quoteItems := authed.Group("/quote-items")
			{
				quoteItems.POST("", controllers.CreateQuoteItem)
				quoteItems.GET("", controllers.GetQuoteItems)
				quoteItems.GET("/:id", controllers.GetQuoteItem)
				quoteItems.PUT("/:id", controllers.UpdateQuoteItem)
				quoteItems.DELETE("/:id", controllers.DeleteQuoteItem)
			}

			// Project routes
			projects := authed.Group("/projects")
			{
				projects.POST("", controllers.CreateProject)
				projects.GET("", controllers.GetProjects)
				projects.GET("/:id", controllers.GetProject)
				projects.PUT("/:id", controllers.UpdateProject)
				projects.DELETE("/:id", controllers.DeleteProject)
			}

			projectMedia := authed.Group("/project-media")
			{
				projectMedia.POST("", controllers.CreateProjectMedia)
				projectMedia.GET("", controllers.GetProjectMediaList)
				projectMedia.GET("/:id", controllers.GetProjectMedia)
				projectMedia.PUT("/:id", controllers.UpdateProjectMedia)
				projectMedia.DELETE("/:id", controllers.DeleteProjectMedia)
			}

			// Dashboard routes
			authed.GET("/dashboard/stats", controllers.GetDashboardStats)

			// CSV import routes
			authed.POST("/import/customers", controllers.ImportCustomers)
			authed.POST("/import/leads", controllers.ImportLeads)
		}
	}

	return r
}

func allowedOrigins() []string {
	origins := []string{"http://localhost:3000", "http://localhost:5173"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, origin := range strings.Split(extra, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}
	return origins
}
