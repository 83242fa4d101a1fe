package models

import "io"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"role"`
}

// User is the created-user info returned by POST /auth/register.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Ack is the generic acknowledgement body.
type Ack struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// UploadPayload is one image plus an optional description. It only lives for
// the duration of a submit.
type UploadPayload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Description string
}

type SymptomSubmission struct {
	Location          string `json:"location" validate:"required"`
	Duration          string `json:"duration" validate:"required"`
	Severity          string `json:"severity" validate:"required"`
	Itchiness         string `json:"itchiness" validate:"required"`
	Pain              string `json:"pain" validate:"required"`
	Description       string `json:"description" validate:"min=10"`
	PreviousTreatment string `json:"previousTreatment,omitempty"`
}
