package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/edura/internal/auth/service"
	"github.com/aussiebroadwan/edura/pkg/authsdk"
	"github.com/aussiebroadwan/edura/pkg/httpx"
	"github.com/aussiebroadwan/edura/pkg/slogx"
)

type ForgotPasswordHandler struct {
	AuthService       *service.AuthService
	ExposeErrorDetail bool
}

// ServeHTTP godoc
//
//	@Summary		Forgot password
//	@Description	Emails a 6 digit verification code valid for 10 minutes. The response is the same whether or not the address has an account.
//	@Tags			Password Recovery
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ForgotPasswordRequest	true	"email"
//	@Success		200		{object}	authsdk.MessageResponse			"message"
//	@Failure		400		{object}	authsdk.ErrorResponse			"Missing or malformed email"
//	@Failure		429		{object}	authsdk.ErrorResponse			"Rate limited"
//	@Failure		500		{object}	authsdk.ErrorResponse			"Email could not be sent"
//	@Router			/api/auth/forgot-password [post].
func (h *ForgotPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.ForgotPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	if err := h.AuthService.ForgotPassword(ctx, req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingField):
			httpx.WriteError(w, http.StatusBadRequest, msgEmailRequired)
		case errors.Is(err, service.ErrInvalidEmail):
			httpx.WriteError(w, http.StatusBadRequest, msgInvalidEmail)
		case errors.Is(err, service.ErrTransport):
			msg := msgMailFailed
			if h.ExposeErrorDetail {
				msg = err.Error()
			}
			httpx.WriteError(w, http.StatusInternalServerError, msg)
		default:
			log.Error("forgot password failed", slogx.Err(err))
			httpx.WriteError(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: msgResetCodeSent})
}

type ResetPasswordHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Reset password
//	@Description	Sets a new password using the emailed verification code. The code can be used once.
//	@Tags			Password Recovery
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ResetPasswordRequest	true	"email, code, newPassword"
//	@Success		200		{object}	authsdk.MessageResponse			"message"
//	@Failure		400		{object}	authsdk.ErrorResponse			"Missing fields, or code invalid or expired"
//	@Failure		404		{object}	authsdk.ErrorResponse			"Account not found"
//	@Failure		429		{object}	authsdk.ErrorResponse			"Rate limited"
//	@Router			/api/auth/reset-password [post].
func (h *ResetPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.ResetPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	err := h.AuthService.ResetPassword(ctx, service.ResetPasswordInput{
		Email:       req.Email,
		Code:        req.Code,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingField):
			httpx.WriteError(w, http.StatusBadRequest, msgResetFieldsMissing)
		case errors.Is(err, service.ErrBlankPassword):
			httpx.WriteError(w, http.StatusBadRequest, msgBlankPassword)
		case errors.Is(err, service.ErrInvalidEmail):
			httpx.WriteError(w, http.StatusBadRequest, msgInvalidEmail)
		case errors.Is(err, service.ErrCodeExpired):
			httpx.WriteError(w, http.StatusBadRequest, msgCodeExpired)
		case errors.Is(err, service.ErrCodeInvalidOrExpired):
			httpx.WriteError(w, http.StatusBadRequest, msgCodeInvalid)
		case errors.Is(err, service.ErrAccountNotFound):
			httpx.WriteError(w, http.StatusNotFound, msgAccountNotFound)
		default:
			log.Error("reset password failed", slogx.Err(err))
			httpx.WriteError(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: msgPasswordReset})
}
