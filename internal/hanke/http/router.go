package http

import "github.com/gin-gonic/gin"

// Register attaches the hanke routes that need a signed-in user.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/hankkeet", h.create)
	rg.GET("/hankkeet", h.list)
	rg.GET("/hankkeet/:tunnus", h.get)
	rg.GET("/hankkeet/:tunnus/hakemukset", h.getWithApplications)
	rg.PUT("/hankkeet/:tunnus", h.update)
	rg.DELETE("/hankkeet/:tunnus", h.delete)
	rg.POST("/hakemukset/johtoselvitys", h.generate)
}

// RegisterPublic attaches the routes open to anonymous users.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/public-hankkeet", h.listPublic)
	rg.GET("/public-hankkeet/search", h.searchPublic)
}
