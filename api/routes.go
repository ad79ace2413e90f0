package api

import "github.com/gin-gonic/gin"

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.router.GET("/health", gin.WrapF(s.health.HealthHandler))
	s.router.GET("/health/live", gin.WrapF(s.health.LivenessHandler))
	s.router.GET("/health/ready", gin.WrapF(s.health.ReadinessHandler))

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/health", gin.WrapF(s.health.HealthHandler))

		auth := v1.Group("/auth")
		{
			auth.GET("/challenge", s.handleChallenge)
			auth.POST("/login", s.handleLogin)
		}

		// Public reads
		v1.GET("/config", s.handleGetConfig)
		v1.GET("/epoch", s.handleGetEpoch)
		v1.GET("/admins", s.handleGetAdmins)
		v1.GET("/balance", s.handleGetBalance)
		v1.GET("/slots/available", s.handleSlotsAvailable)

		pins := v1.Group("/pins")
		{
			pins.GET("", s.handleGetSlots)
			pins.GET("/:slot_id", s.handleGetSlot)
			// Anyone may clear an expired slot.
			pins.POST("/:slot_id/clear", s.handleClearExpiredSlot)

			protected := pins.Group("")
			protected.Use(s.AuthMiddleware())
			{
				protected.POST("", s.handleCreatePin)
				protected.POST("/:slot_id/collect", s.handleCollectPin)
				protected.DELETE("/:slot_id", s.handleCancelPin)
			}
		}

		pinners := v1.Group("/pinners")
		{
			pinners.GET("/count", s.handleGetPinnerCount)
			pinners.GET("/:address", s.handleGetPinner)

			protected := pinners.Group("")
			protected.Use(s.AuthMiddleware())
			{
				protected.POST("", s.handleJoinAsPinner)
				protected.PATCH("/me", s.handleUpdatePinner)
				protected.DELETE("/me", s.handleLeaveAsPinner)
				protected.POST("/:address/flag", s.handleFlagPinner)
			}
		}

		v1.POST("/fund", s.AuthMiddleware(), s.handleFundService)

		admin := v1.Group("/admin")
		admin.Use(s.AuthMiddleware())
		{
			admin.POST("/pins/:slot_id/force-clear", s.handleForceClearSlot)
			admin.DELETE("/pinners/:address", s.handleRemovePinner)
			admin.POST("/admins", s.handleAddAdmin)
			admin.DELETE("/admins/:address", s.handleRemoveAdmin)
			admin.POST("/fees/withdraw", s.handleWithdrawFees)
			admin.PUT("/config", s.handleUpdateConfig)
		}
	}
}
