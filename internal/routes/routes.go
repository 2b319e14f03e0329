package routes

import (
	"github.com/gin-gonic/gin"

	"atithi_backend/internal/auth"
	"atithi_backend/internal/handlers"
	"atithi_backend/internal/middleware"
	"atithi_backend/internal/models"
)

// RegisterRoutes wires every HTTP route. Public endpoints (auth, contact,
// payments) need no token; submission endpoints take an optional token so
// guests can apply; customer and admin groups require one.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	tokens *auth.TokenManager,
) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.ContactHandler.RegisterRoutes(api)

		submissions := api.Group("")
		submissions.Use(middleware.OptionalAuthMiddleware(tokens))
		{
			appHandlers.ApplicationHandler.RegisterRoutes(submissions)
			appHandlers.PaymentHandler.RegisterRoutes(submissions)
		}

		customer := api.Group("")
		customer.Use(middleware.AuthMiddleware(tokens))
		{
			appHandlers.CustomerHandler.RegisterRoutes(customer)
		}

		admin := api.Group("")
		admin.Use(middleware.AuthMiddleware(tokens), middleware.RoleMiddleware(models.UserRoleAdmin))
		{
			appHandlers.AdminHandler.RegisterRoutes(admin)
		}
	}
}
