package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/edura/internal/auth/service"
	"github.com/aussiebroadwan/edura/pkg/authsdk"
	"github.com/aussiebroadwan/edura/pkg/httpx"
	"github.com/aussiebroadwan/edura/pkg/slogx"
)

type RegisterHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Register
//	@Description	Creates an active account with the user role. The username is the user's email address.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest		true	"username, password, fullName"
//	@Success		200		{object}	authsdk.RegisterResponse	"id, username, fullName"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Malformed body or invalid fields"
//	@Failure		409		{object}	authsdk.ErrorResponse		"Username already exists"
//	@Failure		429		{object}	authsdk.ErrorResponse		"Rate limited"
//	@Router			/api/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	user, err := h.AuthService.Register(ctx, service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			httpx.WriteError(w, http.StatusBadRequest, validationMessage(err))
		case errors.Is(err, service.ErrDuplicateUsername):
			httpx.WriteError(w, http.StatusConflict, msgUsernameTaken)
		default:
			log.Error("register failed", slogx.Err(err))
			httpx.WriteError(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
	})
}

// validationMessage drops the sentinel prefix so only field details remain.
func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
	if msg == "" {
		return service.ErrValidation.Error()
	}
	return msg
}
