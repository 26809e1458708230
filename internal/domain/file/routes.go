package file

import "github.com/gin-gonic/gin"

// RegisterRoutes registers file routes under the protected group.
func RegisterRoutes(r gin.IRoutes, h *Handler) {
	r.GET("/folders/:folderId/files", h.GetFiles)
	r.POST("/folders/:folderId/files", h.CreateFile)
	r.GET("/folders/:folderId/files/:fileId", h.GetFile)
	r.GET("/folders/:folderId/files/:fileId/download", h.DownloadFile)
	r.POST("/folders/:folderId/files/:fileId/delete", h.DeleteFile)
}
