// Package requests holds the validated input shapes of the HTTP API.
package requests

import "strings"

type Register struct {
	Handle   string  `json:"handle"   validate:"required,handle"`
	Email    *string `json:"email"    validate:"omitempty,email,max=100"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
}

// Normalize trims the handle and lower-cases the email; an empty email is
// treated as absent.
func (r *Register) Normalize() {
	r.Handle = strings.TrimSpace(r.Handle)
	if r.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*r.Email))
		if e == "" {
			r.Email = nil
		} else {
			r.Email = &e
		}
	}
}

// Login accepts the identifier as login, handle or email.
type Login struct {
	Login    string `json:"login"    validate:"required_without_all=Handle Email,max=100"`
	Handle   string `json:"handle"   validate:"max=50"`
	Email    string `json:"email"    validate:"max=100"`
	Password string `json:"password" validate:"required,max=72"`
}

// Identifier returns the first non-empty of login, handle and email.
func (l Login) Identifier() string {
	for _, v := range []string{l.Login, l.Handle, l.Email} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

type AssignRole struct {
	UserID uint   `json:"user_id" validate:"required,gt=0"`
	Role   string `json:"role"    validate:"required,oneof=superadmin admin manager user"`
}

// UserQuery is the admin user listing window.
type UserQuery struct {
	Limit  int `json:"limit"  validate:"gte=0,lte=100"`
	Offset int `json:"offset" validate:"gte=0"`
}
