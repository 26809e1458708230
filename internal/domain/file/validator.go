package file

import (
	"fmt"
	"html"
	"io"
	"mime/multipart"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"filedrive/internal/apperror"
)

const MaxDisplayNameLength = 30

const (
	msgMissingAttachment = "Please add a file to upload"
	msgNameLength        = "File Name must be between 1 and 30 characters long."
)

// Attachment is the binary part of an upload submission.
type Attachment struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// AttachmentFromHeader adapts a parsed multipart file.
func AttachmentFromHeader(h *multipart.FileHeader) *Attachment {
	return &Attachment{
		Filename: h.Filename,
		Size:     h.Size,
		Open: func() (io.ReadCloser, error) {
			return h.Open()
		},
	}
}

// Submission is an upload request as received from the user.
type Submission struct {
	DisplayName string
	Attachment  *Attachment
}

// Upload is a submission that passed validation.
type Upload struct {
	DisplayName  string
	OriginalName string
	Size         int64
	Open         func() (io.ReadCloser, error)
}

// ValidateUpload checks every rule and reports all failures in order.
// It has no side effects.
func ValidateUpload(sub Submission, maxSize int64) (*Upload, error) {
	var messages []string

	name := strings.TrimSpace(sub.DisplayName)
	if utf8.RuneCountInString(name) > MaxDisplayNameLength {
		messages = append(messages, msgNameLength)
	}

	if sub.Attachment == nil {
		messages = append(messages, msgMissingAttachment)
	} else if sub.Attachment.Size > maxSize {
		messages = append(messages, SizeLimitMessage(maxSize))
	}

	if len(messages) > 0 {
		return nil, apperror.NewValidationError(messages...)
	}

	original := baseName(sub.Attachment.Filename)
	if name == "" {
		name = truncateRunes(original, MaxDisplayNameLength)
	}

	return &Upload{
		DisplayName:  html.EscapeString(name),
		OriginalName: original,
		Size:         sub.Attachment.Size,
		Open:         sub.Attachment.Open,
	}, nil
}

// SizeLimitMessage renders the ceiling the way users read it, e.g. "10MB".
func SizeLimitMessage(maxSize int64) string {
	var limit string
	if maxSize > 0 && maxSize%humanize.MiByte == 0 {
		limit = fmt.Sprintf("%dMB", maxSize/humanize.MiByte)
	} else {
		limit = strings.ReplaceAll(humanize.Bytes(uint64(maxSize)), " ", "")
	}
	return fmt.Sprintf("File size is too large. %s maximum.", limit)
}

func baseName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		return "untitled"
	}
	return name
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
