package http

import "github.com/gin-gonic/gin"

// Register attaches hakemus and liite routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/hakemukset", h.list)
	rg.POST("/hakemukset", h.create)
	rg.GET("/hakemukset/:id", h.get)
	rg.PUT("/hakemukset/:id", h.update)
	rg.DELETE("/hakemukset/:id", h.delete)
	rg.POST("/hakemukset/:id/send-application", h.send)

	rg.GET("/hakemukset/:id/liitteet", h.listAttachments)
	rg.POST("/hakemukset/:id/liitteet", h.addAttachment)
	rg.GET("/hakemukset/:id/liitteet/:attachment_id/content", h.attachmentContent)
	rg.DELETE("/hakemukset/:id/liitteet/:attachment_id", h.deleteAttachment)
}
