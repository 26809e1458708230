package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorItem mirrors the {msg} objects the views iterate over.
type ErrorItem struct {
	Msg string `json:"msg"`
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// View renders a named page with its data.
func View(c *gin.Context, statusCode int, view string, data gin.H) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"view":    view,
		"data":    data,
	})
}

// ViewWithErrors re-renders a page with the current state reloaded and the
// collected messages attached.
func ViewWithErrors(c *gin.Context, statusCode int, view string, code string, data gin.H, messages []string) {
	items := make([]ErrorItem, 0, len(messages))
	for _, m := range messages {
		items = append(items, ErrorItem{Msg: m})
	}
	message := ""
	if len(messages) > 0 {
		message = messages[0]
	}
	c.JSON(statusCode, gin.H{
		"success": false,
		"view":    view,
		"data":    data,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": items,
		},
	})
}

// Redirect ends a successful mutation the way a form post expects.
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}
