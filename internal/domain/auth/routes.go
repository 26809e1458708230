package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the public index and account routes.
func RegisterRoutes(r gin.IRoutes, h *Handler) {
	r.GET("/", h.Index)
	r.GET("/sign-up", h.SignUpGet)
	r.POST("/sign-up", h.SignUpPost)
	r.GET("/log-in", h.LogInGet)
	r.POST("/log-in", h.LogInPost)
	r.GET("/log-out", h.LogOutGet)
}
