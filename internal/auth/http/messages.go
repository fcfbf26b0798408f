package http

import (
	"github.com/aussiebroadwan/edura/internal/auth/domain"
	"github.com/aussiebroadwan/edura/pkg/authsdk"
)

// User facing messages. Login and forgot password use one
// message for several causes.
const (
	msgBadRequest         = "Invalid request body."
	msgInternal           = "Internal server error."
	msgUsernameTaken      = "Username already exists."
	msgInvalidCredentials = "Invalid username or password."
	msgAccountLocked      = "Your account has been locked. Please contact %s for support."
	msgEmailRequired      = "Please enter your email."
	msgInvalidEmail       = "Invalid email."
	msgResetCodeSent      = "If the email exists in our system, a verification code has been sent."
	msgMailFailed         = "Could not send email. Please check the mail server configuration."
	msgResetFieldsMissing = "Please provide email, verification code and new password."
	msgBlankPassword      = "New password must not be blank."
	msgCodeInvalid        = "Verification code is invalid or has expired. Please try again."
	msgCodeExpired        = "Verification code has expired. Please request a new one."
	msgAccountNotFound    = "Account not found."
	msgPasswordReset      = "Password reset successfully. You can now log in with your new password."
)

func toUserView(u domain.User) authsdk.UserView {
	return authsdk.UserView{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
		Status:   u.Status,
	}
}
