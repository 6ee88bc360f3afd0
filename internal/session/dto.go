package session

import (
	"regexp"

	"github.com/frahmantamala/lead-management/internal"
	"github.com/frahmantamala/lead-management/internal/core/common/validation"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Credentials) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", c.Email).Required().Matches(emailPattern)
	v.Field("password", c.Password).Required()
	return v.Validate()
}

type LoginResponse struct {
	ServiceToken string `json:"serviceToken"`
	User         User   `json:"user"`
}

// RegisterFields is the registration form.
type RegisterFields struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (f RegisterFields) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", f.Email).Required().Matches(emailPattern)
	v.Field("password", f.Password).Required()
	v.Field("firstName", f.FirstName).Required().MaxLength(100)
	v.Field("lastName", f.LastName).Required().MaxLength(100)
	return v.Validate()
}

// RegisterRequest is the wire body of POST /api/account/register.
type RegisterRequest struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
