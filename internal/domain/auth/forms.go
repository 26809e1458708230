package auth

import (
	"html"
	"strings"
)

type SignUpForm struct {
	FirstName       string `form:"firstName" validate:"required" msg:"First name must not be empty."`
	LastName        string `form:"lastName" validate:"required" msg:"Last name must not be empty."`
	Email           string `form:"email" validate:"required,email" msg:"Must include a valid email (example: example@email.com)."`
	Password        string `form:"password" validate:"min=5" msg:"Password must be a minimum of 5 characters."`
	PasswordConfirm string `form:"passwordConfirm" validate:"eqfield=Password" msg:"Passwords must match"`
}

// normalize trims every field and escapes the ones that are echoed back in views.
// Passwords are only trimmed; they are hashed, never displayed.
func (f *SignUpForm) normalize() {
	f.FirstName = html.EscapeString(strings.TrimSpace(f.FirstName))
	f.LastName = html.EscapeString(strings.TrimSpace(f.LastName))
	f.Email = strings.TrimSpace(f.Email)
	f.Password = strings.TrimSpace(f.Password)
	f.PasswordConfirm = strings.TrimSpace(f.PasswordConfirm)
}

type LogInForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}
