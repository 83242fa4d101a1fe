package forms

import (
	"fmt"
	"io"
	"strings"

	"skinanalyze/internal/models"
)

const (
	DefaultMaxImageBytes = 10 << 20

	MsgNoImage       = "Please select an image to upload."
	MsgNotAnImage    = "Please select an image file (JPEG, PNG)."
	msgImageTooLarge = "Image size should be less than %dMB."
)

// ImageTooLargeMessage is the size error for a limit in bytes.
func ImageTooLargeMessage(limit int64) string {
	return fmt.Sprintf(msgImageTooLarge, limit>>20)
}

type imageInput struct {
	Filename    string `form:"image" validate:"required"`
	ContentType string `form:"image" validate:"startswith=image/"`
	Size        int64  `form:"image" validate:"gte=0,ltfield=Limit"`
	Limit       int64
}

// ValidateImage accepts a named file with an image/* content type that is
// strictly smaller than limit bytes.
func ValidateImage(filename, contentType string, size, limit int64) error {
	return Check(&imageInput{
		Filename:    filename,
		ContentType: strings.ToLower(contentType),
		Size:        size,
		Limit:       limit,
	}, Messages{
		"image.required":   MsgNoImage,
		"image.startswith": MsgNotAnImage,
		"image":            ImageTooLargeMessage(limit),
	})
}

// UploadForm holds one selected image and an optional description.
type UploadForm struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Description string
	MaxBytes    int64
}

func (f *UploadForm) Validate() error {
	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxImageBytes
	}
	if err := ValidateImage(f.Filename, f.ContentType, f.Size, limit); err != nil {
		return err
	}
	if f.Body == nil {
		return FieldErrors{"image": MsgNoImage}
	}
	return nil
}

// Reset clears the selection but keeps the size limit.
func (f *UploadForm) Reset() { *f = UploadForm{MaxBytes: f.MaxBytes} }

func (f *UploadForm) Payload() models.UploadPayload {
	return models.UploadPayload{
		Filename:    f.Filename,
		ContentType: f.ContentType,
		Size:        f.Size,
		Body:        f.Body,
		Description: strings.TrimSpace(f.Description),
	}
}

const (
	MsgRequired     = "Please fill in all required fields"
	MsgContactEmail = "Please enter a valid email address"
)

var contactMessages = Messages{
	"name":           MsgRequired,
	"email.required": MsgRequired,
	"email":          MsgContactEmail,
	"message":        MsgRequired,
}

// ContactForm is validated and acknowledged locally; nothing is sent.
type ContactForm struct {
	Name    string `form:"name" validate:"required"`
	Email   string `form:"email" validate:"required,email"`
	Subject string `form:"subject"`
	Message string `form:"message" validate:"required"`
}

func (f *ContactForm) Validate() error {
	in := *f
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	return Check(&in, contactMessages)
}

func (f *ContactForm) Reset() { *f = ContactForm{} }
