package handlers

import (
	"net/http"

	"github.com/playgrid/arena-system/middleware"
	"github.com/playgrid/arena-system/services"
)

type ProfileHandler struct {
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetPlayerHandler — публичный профиль игрока с рейтингами и достижениями.
func (h *ProfileHandler) GetPlayerHandler(w http.ResponseWriter, r *http.Request) {
	playerID, err := getUUIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.profileService.GetPlayerProfile(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MeHandler возвращает текущего пользователя, уже разрешённого в middleware.
func (h *ProfileHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUserFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
