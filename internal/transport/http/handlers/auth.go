package http_handlers

import (
	"net/http"

	"github.com/baechuer/task-manager/internal/application/auth"
	"github.com/baechuer/task-manager/internal/domain"
	"github.com/baechuer/task-manager/internal/logger"
	"github.com/baechuer/task-manager/internal/transport/http/dto"
	"github.com/baechuer/task-manager/internal/transport/http/middleware"
	"github.com/baechuer/task-manager/internal/transport/http/response"
)

type AuthHandler struct {
	svc           *auth.Service
	maxUploadSize int64
}

func NewAuthHandler(svc *auth.Service, maxUploadSize int64) *AuthHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = 5 << 20
	}
	return &AuthHandler{svc: svc, maxUploadSize: maxUploadSize}
}

// SignUp handles POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req dto.SignUpRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.SignUp(r.Context(), auth.SignUpInput{
		Name:             req.Name,
		Email:            req.Email,
		Password:         req.Password,
		ProfileImageURL:  req.ProfileImageURL,
		AdminInviteToken: req.AdminInviteToken,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	middleware.ProfileEventsTotal.WithLabelValues("signup").Inc()
	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Str("role", res.User.Role).
		Msg("user_registered")

	response.Created(w, dto.NewAuthResponse(res.User, res.Token))
}

// SignIn handles POST /api/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req dto.SignInRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		status := "error"
		if domain.Is(err, "invalid_credentials") {
			status = "invalid_credentials"
		}
		middleware.SigninAttemptsTotal.WithLabelValues(status).Inc()
		response.WriteError(w, r, err)
		return
	}

	middleware.SigninAttemptsTotal.WithLabelValues("success").Inc()
	response.Created(w, dto.NewAuthResponse(res.User, res.Token))
}

// GetProfile handles GET /api/auth/profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	u, err := h.svc.GetProfile(r.Context(), uid)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewProfileResponse(u))
}

// UpdateProfile handles PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	var req dto.UpdateProfileRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.UpdateProfile(r.Context(), uid, auth.ProfilePatch{
		Name:             req.Name,
		Email:            req.Email,
		Password:         req.Password,
		ProfileImageURL:  req.ProfileImageURL,
		AdminInviteToken: req.AdminInviteToken,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	middleware.ProfileEventsTotal.WithLabelValues("update").Inc()
	response.OK(w, dto.NewAuthResponse(res.User, res.Token))
}

// DeleteProfile handles DELETE /api/auth/profile
func (h *AuthHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	if err := h.svc.DeleteProfile(r.Context(), uid); err != nil {
		response.WriteError(w, r, err)
		return
	}

	middleware.ProfileEventsTotal.WithLabelValues("delete").Inc()
	logger.WithCtx(r.Context()).Info().Str("user_id", uid).Msg("user_deleted")

	response.Message(w, http.StatusOK, "User profile deleted successfully")
}
