package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/presets", h.listPresets)
		api.GET("/fonts", fonts)

		api.POST("/sessions", h.createSession)
		s := api.Group("/sessions/:id", h.loadSession)
		{
			s.GET("", h.getSession)
			s.DELETE("", h.deleteSession)
			s.PUT("/size", h.setSize)
			s.PUT("/background", h.setBackground)
			s.GET("/background", h.backgroundImage)
			s.PUT("/overlay", h.setOverlay)
			s.POST("/layers", h.addLayer)
			s.PATCH("/layers/:layer", h.updateLayer)
			s.DELETE("/layers/:layer", h.removeLayer)
			s.POST("/generate/background", h.generateBackground)
			s.POST("/generate/taglines", h.suggestTaglines)
			s.GET("/render.png", h.render)
			s.GET("/export", h.export)
			s.GET("/qr", h.shareCode)
		}
	}
}
