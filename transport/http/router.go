package http

import (
	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flarexio/ragchat"

	mcpE "github.com/flarexio/ragchat/mcp"
)

func AddRouters(r *gin.Engine, endpoints ragchat.EndpointSet) {
	// Chat widget
	r.GET("/", IndexHandler())

	// RESTful API routes
	api := r.Group("/api")
	{
		api.POST("/key", SetAPIKeyHandler(endpoints.SetAPIKey))
		api.POST("/knowledge", LoadKnowledgeBaseHandler(endpoints.LoadKnowledgeBase))
		api.POST("/chat", AskHandler(endpoints.Ask))
		api.GET("/chat/history", HistoryHandler(endpoints.History))
		api.DELETE("/chat/history", ClearHistoryHandler(endpoints.ClearHistory))
		api.GET("/search", SearchHandler(endpoints.Search))
	}
}

func AddStreamableRouters(r *gin.Engine, endpoints map[mcp.MCPMethod]mcpE.MCPEndpoint) {
	mcp := r.Group("/mcp")
	{
		mcp.POST("/", MCPStreamableHandler(endpoints))
	}
}
