package routes

import (
	"net/http"

	"github.com/ArowuTest/billstack-storefront/internal/config"
	"github.com/ArowuTest/billstack-storefront/internal/handlers"
	"github.com/ArowuTest/billstack-storefront/internal/middleware"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies holds the handlers mounted by SetupRouter
type HandlerDependencies struct {
	WizardHandler      *handlers.WizardHandler
	BeneficiaryHandler *handlers.BeneficiaryHandler
	AuthHandler        *handlers.AuthHandler
	OrderHandler       *handlers.OrderHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Add middleware
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.ClientIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/otp", deps.AuthHandler.RequestOTP)
			auth.POST("/otp/verify", deps.AuthHandler.VerifyOTP)
			auth.POST("/logout", deps.AuthHandler.Logout)
		}

		sessions := public.Group("/wizard/sessions")
		{
			sessions.POST("", deps.WizardHandler.Open)
			sessions.GET("/:id", deps.WizardHandler.Get)
			sessions.DELETE("/:id", deps.WizardHandler.Close)
			sessions.POST("/:id/open", deps.WizardHandler.Reopen)
			sessions.PATCH("/:id/fields", deps.WizardHandler.SetFields)
			sessions.PUT("/:id/bulk", deps.WizardHandler.SetBulk)
			sessions.POST("/:id/bulk/rows", deps.WizardHandler.AddRow)
			sessions.PATCH("/:id/bulk/rows/:idx", deps.WizardHandler.UpdateRow)
			sessions.DELETE("/:id/bulk/rows/:idx", deps.WizardHandler.RemoveRow)
			sessions.POST("/:id/advance", deps.WizardHandler.Advance)
			sessions.POST("/:id/back", deps.WizardHandler.Back)
			sessions.POST("/:id/giftcard-images", deps.WizardHandler.UploadGiftCardImage)
			sessions.POST("/:id/beneficiary", deps.WizardHandler.SaveBeneficiary)
		}

		beneficiaries := public.Group("/beneficiaries")
		{
			beneficiaries.GET("", deps.BeneficiaryHandler.List)
			beneficiaries.POST("", deps.BeneficiaryHandler.Save)
			beneficiaries.DELETE("/:phone", deps.BeneficiaryHandler.Remove)
		}

		public.GET("/orders/:ref", deps.OrderHandler.Verify)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		account := protected.Group("/account")
		{
			account.GET("/me", deps.AuthHandler.Me)
			account.GET("/orders", deps.OrderHandler.ListMine)
		}
	}

	return router
}
