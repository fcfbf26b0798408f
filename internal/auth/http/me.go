package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/edura/internal/auth/service"
	"github.com/aussiebroadwan/edura/pkg/httpx"
	"github.com/aussiebroadwan/edura/pkg/slogx"
)

type MeHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Current user
//	@Description	Returns the public view of the account the bearer token was issued for.
//	@Tags			Authentication
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.UserView		"id, username, fullName, role, status"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Missing, invalid or expired token"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/api/auth/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok || userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	user, err := h.UserService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			// The account behind a still valid token is gone.
			httpx.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		log.Error("failed to load user", "user_id", userID, slogx.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserView(user))
}
