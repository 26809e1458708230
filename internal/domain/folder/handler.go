package folder

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"filedrive/internal/apperror"
	"filedrive/internal/domain/auth"
	"filedrive/internal/pkg/response"
)

type Handler struct {
	service *Service
	log     logrus.FieldLogger
}

func NewHandler(service *Service, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, log: log}
}

type createFolderForm struct {
	FolderName string `form:"folderName"`
}

func (h *Handler) GetFolders(c *gin.Context) {
	folders, err := h.service.List(c.Request.Context(), auth.CurrentUserID(c))
	if err != nil {
		h.internalError(c, err, "list folders failed")
		return
	}
	response.View(c, http.StatusOK, "folders", gin.H{"title": "Folders", "folders": folders})
}

func (h *Handler) CreateFolder(c *gin.Context) {
	var form createFolderForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.WithError(err).WithField("user_id", auth.CurrentUserID(c)).Debug("bind form failed")
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	userID := auth.CurrentUserID(c)
	if _, err := h.service.Create(c.Request.Context(), userID, form.FolderName); err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			h.rerenderFolders(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", apperror.Messages(err))
			return
		}
		h.internalError(c, err, "create folder failed")
		return
	}

	response.Redirect(c, "/folders")
}

// GetFolder redirects to the folder's file listing once the folder is known to exist.
func (h *Handler) GetFolder(c *gin.Context) {
	f, err := h.service.Get(c.Request.Context(), auth.CurrentUserID(c), c.Param("folderId"))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			renderNotFound(c, err)
			return
		}
		h.internalError(c, err, "get folder failed")
		return
	}
	response.Redirect(c, "/folders/"+f.ID+"/files")
}

func (h *Handler) DeleteFolder(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), auth.CurrentUserID(c), c.Param("folderId"))
	switch {
	case err == nil:
		response.Redirect(c, "/folders")
	case errors.Is(err, apperror.ErrNotFound):
		renderNotFound(c, err)
	case errors.Is(err, apperror.ErrConflict):
		h.rerenderFolders(c, http.StatusConflict, "FOLDER_NOT_EMPTY", apperror.Messages(err))
	default:
		h.internalError(c, err, "delete folder failed")
	}
}

func (h *Handler) rerenderFolders(c *gin.Context, status int, code string, messages []string) {
	folders, err := h.service.List(c.Request.Context(), auth.CurrentUserID(c))
	if err != nil {
		h.internalError(c, err, "reload folders failed")
		return
	}
	response.ViewWithErrors(c, status, "folders", code, gin.H{"title": "Folders", "folders": folders}, messages)
}

func (h *Handler) internalError(c *gin.Context, err error, msg string) {
	h.log.WithError(err).WithFields(logrus.Fields{
		"user_id":   auth.CurrentUserID(c),
		"folder_id": c.Param("folderId"),
	}).Error(msg)
	response.ViewWithErrors(c, http.StatusInternalServerError, "error", "INTERNAL_ERROR", gin.H{},
		[]string{"Something went wrong, please try again."})
}

func renderNotFound(c *gin.Context, err error) {
	response.ViewWithErrors(c, http.StatusNotFound, "error", "NOT_FOUND", gin.H{}, apperror.Messages(err))
}
