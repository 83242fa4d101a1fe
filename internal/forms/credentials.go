package forms

import (
	"strings"

	"skinanalyze/internal/models"
)

const (
	MsgInvalidEmail     = "Invalid email address"
	MsgPasswordTooShort = "Password must be at least 6 characters"
	MsgNameTooShort     = "Name must be at least 2 characters"
	MsgPasswordMismatch = "Passwords do not match"
	MsgInvalidRole      = "Please choose patient or doctor"
)

var credentialMessages = Messages{
	"name":            MsgNameTooShort,
	"email":           MsgInvalidEmail,
	"password":        MsgPasswordTooShort,
	"confirmPassword": MsgPasswordMismatch,
	"role":            MsgInvalidRole,
}

type LoginForm struct {
	Email    string      `form:"email" validate:"required,email"`
	Password string      `form:"password" validate:"required,min=6"`
	Role     models.Role `form:"role" validate:"role"`
}

// NewLoginForm starts with the patient role selected.
func NewLoginForm() *LoginForm {
	return &LoginForm{Role: models.RolePatient}
}

func (f *LoginForm) Validate() error {
	in := *f
	in.Email = strings.TrimSpace(in.Email)
	return Check(&in, credentialMessages)
}

func (f *LoginForm) Reset() { *f = *NewLoginForm() }

func (f *LoginForm) Request() models.LoginRequest {
	return models.LoginRequest{
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
		Role:     f.Role,
	}
}

type RegisterForm struct {
	Name            string      `form:"name" validate:"min=2"`
	Email           string      `form:"email" validate:"required,email"`
	Password        string      `form:"password" validate:"required,min=6"`
	ConfirmPassword string      `form:"confirmPassword" validate:"eqfield=Password"`
	Role            models.Role `form:"role" validate:"role"`
}

func NewRegisterForm() *RegisterForm {
	return &RegisterForm{Role: models.RolePatient}
}

func (f *RegisterForm) Validate() error {
	in := *f
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	return Check(&in, credentialMessages)
}

func (f *RegisterForm) Reset() { *f = *NewRegisterForm() }

// Request drops the confirmation field.
func (f *RegisterForm) Request() models.RegisterRequest {
	return models.RegisterRequest{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
		Role:     f.Role,
	}
}
