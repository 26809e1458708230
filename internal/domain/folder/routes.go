package folder

import "github.com/gin-gonic/gin"

// RegisterRoutes registers folder routes under the protected group.
func RegisterRoutes(r gin.IRoutes, h *Handler) {
	r.GET("/folders", h.GetFolders)
	r.POST("/folders", h.CreateFolder)
	r.GET("/folders/:folderId", h.GetFolder)
	r.POST("/folders/:folderId/delete", h.DeleteFolder)
}
