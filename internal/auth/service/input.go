package service

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// emailPattern is the format accepted by the forgot and reset flows.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterInput is the body of a registration request.
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

func (r RegisterInput) normalize() RegisterInput {
	r.Username = strings.TrimSpace(r.Username)
	r.FullName = strings.TrimSpace(r.FullName)
	return r
}

// Validate checks field formats. Error keys follow the JSON field names.
func (r RegisterInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
			validation.Length(3, 254),
			validation.Match(emailPattern).Error("must be a valid email address"),
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(6, 128),
			validation.By(notBlank),
		),
		validation.Field(
			&r.FullName,
			validation.Required,
			validation.Length(1, 100),
		),
	)
}

// ResetPasswordInput is the body of a reset password request.
type ResetPasswordInput struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

func validateEmail(email string) error {
	return validation.Validate(email, validation.Required, validation.Match(emailPattern))
}

func notBlank(value any) error {
	s, _ := value.(string)
	if s != "" && strings.TrimSpace(s) == "" {
		return errors.New("must not be blank")
	}
	return nil
}
