package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"filedrive/internal/apperror"
	"filedrive/internal/pkg/response"
)

type Handler struct {
	service *Service
	gate    Gate
	log     logrus.FieldLogger
}

func NewHandler(service *Service, gate Gate, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, gate: gate, log: log}
}

// Index sends signed-in users to their folders and everyone else to the log-in page.
func (h *Handler) Index(c *gin.Context) {
	if _, ok := h.gate.Identify(c); ok {
		response.Redirect(c, "/folders")
		return
	}
	response.Redirect(c, "/log-in")
}

func (h *Handler) SignUpGet(c *gin.Context) {
	response.View(c, http.StatusOK, "signUp", gin.H{"title": "Sign Up"})
}

func (h *Handler) SignUpPost(c *gin.Context) {
	var form SignUpForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.WithError(err).Debug("bind form failed")
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if _, err := h.service.SignUp(c.Request.Context(), form); err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			response.ViewWithErrors(c, http.StatusUnprocessableEntity, "signUp", "VALIDATION_ERROR", gin.H{
				"title": "Sign Up",
				"user": gin.H{
					"firstName": form.FirstName,
					"lastName":  form.LastName,
					"email":     form.Email,
				},
			}, apperror.Messages(err))
			return
		}
		h.log.WithError(err).Error("sign up failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong, please try again.")
		return
	}

	response.Redirect(c, "/")
}

func (h *Handler) LogInGet(c *gin.Context) {
	response.View(c, http.StatusOK, "index", gin.H{"title": "Log In"})
}

func (h *Handler) LogInPost(c *gin.Context) {
	var form LogInForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.WithError(err).Debug("bind form failed")
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	user, err := h.service.LogIn(c.Request.Context(), form)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.ViewWithErrors(c, http.StatusUnauthorized, "index", "INVALID_CREDENTIALS",
				gin.H{"title": "Log In"}, apperror.Messages(err))
			return
		}
		h.log.WithError(err).Error("log in failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong, please try again.")
		return
	}

	if err := h.gate.LogIn(c, user); err != nil {
		h.log.WithError(err).WithField("user_id", user.ID).Error("start session failed")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong, please try again.")
		return
	}

	h.log.WithField("user_id", user.ID).Info("user logged in")
	response.Redirect(c, "/folders")
}

func (h *Handler) LogOutGet(c *gin.Context) {
	h.gate.LogOut(c)
	response.Redirect(c, "/")
}
