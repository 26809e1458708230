package server

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"filedrive/internal/domain/auth"
	"filedrive/internal/domain/file"
	"filedrive/internal/domain/folder"
	"filedrive/internal/middleware"
)

// maxMultipartMemory is how much of an upload is buffered in memory before
// spilling to temporary files.
const maxMultipartMemory = 8 << 20

type Handlers struct {
	Auth    *auth.Handler
	Folders *folder.Handler
	Files   *file.Handler
}

// NewRouter mounts the public account routes and the session-protected
// folder and file routes.
func NewRouter(log logrus.FieldLogger, gate auth.Gate, h Handlers) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxMultipartMemory
	r.Use(middleware.ErrorLogger(log))

	auth.RegisterRoutes(r, h.Auth)

	protected := r.Group("/")
	protected.Use(middleware.RequireUser(gate))
	{
		folder.RegisterRoutes(protected, h.Folders)
		file.RegisterRoutes(protected, h.Files)
	}

	return r
}
