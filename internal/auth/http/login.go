package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/edura/internal/auth/service"
	"github.com/aussiebroadwan/edura/pkg/authsdk"
	"github.com/aussiebroadwan/edura/pkg/httpx"
	"github.com/aussiebroadwan/edura/pkg/slogx"
)

type LoginHandler struct {
	AuthService  *service.AuthService
	SupportEmail string
}

// ServeHTTP godoc
//
//	@Summary		Login
//	@Description	Verifies credentials and returns a signed token with the public view of the account.
//	@Description	Unknown usernames and wrong passwords return the same 401.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"username, password"
//	@Success		200		{object}	authsdk.LoginResponse	"token, user"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed body"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid username or password"
//	@Failure		403		{object}	authsdk.ErrorResponse	"Account locked"
//	@Failure		429		{object}	authsdk.ErrorResponse	"Rate limited"
//	@Router			/api/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	res, err := h.AuthService.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, msgInvalidCredentials)
		case errors.Is(err, service.ErrAccountLocked):
			httpx.WriteError(w, http.StatusForbidden, fmt.Sprintf(msgAccountLocked, h.SupportEmail))
		default:
			log.Error("login failed", slogx.Err(err))
			httpx.WriteError(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		Token: res.Token,
		User:  toUserView(res.User),
	})
}
