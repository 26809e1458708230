package file

import (
	"errors"
	"mime"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"filedrive/internal/apperror"
	"filedrive/internal/domain/auth"
	"filedrive/internal/pkg/response"
)

// multipartOverhead is the allowance for form fields and part headers on top
// of the attachment ceiling.
const multipartOverhead = 1 << 20

type Handler struct {
	service *Service
	log     logrus.FieldLogger
}

func NewHandler(service *Service, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) GetFiles(c *gin.Context) {
	listing, err := h.service.List(c.Request.Context(), auth.CurrentUserID(c), c.Param("folderId"))
	if err != nil {
		h.renderError(c, err, "list files failed")
		return
	}
	response.View(c, http.StatusOK, "folder", listingData(listing))
}

func (h *Handler) CreateFile(c *gin.Context) {
	ctx := c.Request.Context()
	userID := auth.CurrentUserID(c)
	folderID := c.Param("folderId")
	maxSize := h.service.MaxUploadSize()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+multipartOverhead)

	var sub Submission
	header, err := c.FormFile("file")
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		sub.Attachment = AttachmentFromHeader(header)
	case errors.As(err, &tooLarge):
		h.rerenderListing(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", []string{SizeLimitMessage(maxSize)})
		return
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		h.log.WithError(err).WithField("folder_id", folderID).Warn("multipart parse failed")
	}
	sub.DisplayName = c.PostForm("fileName")

	if _, err := h.service.Create(ctx, userID, folderID, sub); err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			h.rerenderListing(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", apperror.Messages(err))
			return
		}
		h.renderError(c, err, "create file failed")
		return
	}

	response.Redirect(c, "/folders/"+folderID+"/files")
}

func (h *Handler) GetFile(c *gin.Context) {
	f, err := h.service.Get(c.Request.Context(), auth.CurrentUserID(c), c.Param("folderId"), c.Param("fileId"))
	if err != nil {
		h.renderError(c, err, "get file failed")
		return
	}
	response.View(c, http.StatusOK, "file", fileData(f))
}

// DownloadFile streams the blob. When the blob store fails the detail view is
// rendered again with the failure instead.
func (h *Handler) DownloadFile(c *gin.Context) {
	f, rc, err := h.service.Open(c.Request.Context(), auth.CurrentUserID(c), c.Param("folderId"), c.Param("fileId"))
	if err != nil {
		if f != nil && errors.Is(err, apperror.ErrStorageUnavailable) {
			response.ViewWithErrors(c, http.StatusServiceUnavailable, "file", "DOWNLOAD_FAILED", fileData(f), apperror.Messages(err))
			return
		}
		h.renderError(c, err, "download file failed")
		return
	}
	defer rc.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": f.OriginalName})
	c.DataFromReader(http.StatusOK, f.Size, contentType(f.OriginalName), rc, map[string]string{
		"Content-Disposition": disposition,
	})
	if len(c.Errors) > 0 {
		h.log.WithError(c.Errors.Last()).WithFields(logrus.Fields{
			"file_id": f.ID,
			"locator": f.Locator,
		}).Error("download transfer failed")
	}
}

func (h *Handler) DeleteFile(c *gin.Context) {
	folderID := c.Param("folderId")
	if err := h.service.Delete(c.Request.Context(), auth.CurrentUserID(c), folderID, c.Param("fileId")); err != nil {
		h.renderError(c, err, "delete file failed")
		return
	}
	response.Redirect(c, "/folders/"+folderID+"/files")
}

func (h *Handler) rerenderListing(c *gin.Context, status int, code string, messages []string) {
	listing, err := h.service.List(c.Request.Context(), auth.CurrentUserID(c), c.Param("folderId"))
	if err != nil {
		h.renderError(c, err, "reload files failed")
		return
	}
	response.ViewWithErrors(c, status, "folder", code, listingData(listing), messages)
}

// renderError maps the error kind to a status; only not-found messages are
// specific, everything else gets the generic message of its kind.
func (h *Handler) renderError(c *gin.Context, err error, msg string) {
	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	messages := apperror.Messages(err)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		response.ViewWithErrors(c, http.StatusNotFound, "error", "NOT_FOUND", gin.H{}, messages)
		return
	case errors.Is(err, apperror.ErrStorageUnavailable):
		status, code = http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"
	case errors.Is(err, apperror.ErrMetadataCommitFailed):
		code = "METADATA_COMMIT_FAILED"
	default:
		messages = []string{"Something went wrong, please try again."}
	}

	h.log.WithError(err).WithFields(logrus.Fields{
		"user_id":   auth.CurrentUserID(c),
		"folder_id": c.Param("folderId"),
		"file_id":   c.Param("fileId"),
	}).Error(msg)
	response.ViewWithErrors(c, status, "error", code, gin.H{}, messages)
}

func listingData(l *Listing) gin.H {
	return gin.H{"title": l.Folder.Name, "folder": l.Folder, "files": l.Files}
}

func fileData(f *File) gin.H {
	return gin.H{"title": f.DisplayName, "folder": f.Folder, "file": f}
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
