package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the dashboard page, its JSON API and the live stream.
func RegisterRoutes(r gin.IRouter, dash *DashboardHandler, stream *StreamHandler, apiMiddleware ...gin.HandlerFunc) {
	r.GET("/", dash.Page)
	r.GET("/ws", stream.Stream)

	api := r.Group("/api")
	api.Use(apiMiddleware...)
	{
		api.GET("/state", dash.GetState)
		api.POST("/refresh", dash.Refresh)
		api.POST("/auto-refresh", dash.StartAutoRefresh)
		api.DELETE("/auto-refresh", dash.StopAutoRefresh)
		api.PUT("/position", dash.UpdatePosition)
		api.GET("/history", dash.History)
	}
}
