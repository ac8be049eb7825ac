package web

import "github.com/gin-gonic/gin"

// registerRoutes sets up all API routes on the Gin router.
func (s *server) registerRoutes(router *gin.Engine) {
	api := router.Group("/api")

	api.GET("/catalog", s.handleCatalog)
	api.GET("/session", s.handleSession)

	api.GET("/brews", s.handleListBrews)
	api.POST("/brews", s.handleCreateBrew)
	api.POST("/brews/:trackingId/ferment", s.handleStartBrewing)
	api.POST("/brews/:trackingId/condition", s.handleStartConditioning)
	api.DELETE("/brews/:trackingId", s.handleDeleteBrew)

	api.GET("/custom-brews", s.handleListCustomBrews)
	api.POST("/custom-brews", s.handleCreateCustomBrew)
	api.PUT("/custom-brews/:id", s.handleUpdateCustomBrew)
	api.DELETE("/custom-brews/:id", s.handleDeleteCustomBrew)

	api.POST("/abv", s.handleEstimateABV)

	// Auth endpoints only exist when an identity provider is configured.
	if s.provider != nil {
		auth := api.Group("/auth")
		auth.POST("/signup", s.handleSignUp)
		auth.POST("/signin", s.handleSignIn)
		auth.POST("/signout", s.handleSignOut)
		auth.POST("/recover", s.handleRecover)
		auth.POST("/recovery-session", s.handleRecoverySession)
		auth.POST("/password", s.handleUpdatePassword)
	}
}
