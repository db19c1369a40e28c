package api

import (
	"errors"
	"net/http"

	"github.com/tuesdayhq/tuesday-api/internal/api/shared"
	"github.com/tuesdayhq/tuesday-api/internal/domain"
	"github.com/tuesdayhq/tuesday-api/internal/platform/logger"
	"github.com/tuesdayhq/tuesday-api/internal/service/auth"
	"github.com/tuesdayhq/tuesday-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	users      store.UserStore
	jwtService auth.JWTService
	passwords  auth.PasswordHasher
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	users store.UserStore,
	jwtService auth.JWTService,
	passwords auth.PasswordHasher,
) *AuthHandler {
	return &AuthHandler{
		users:      users,
		jwtService: jwtService,
		passwords:  passwords,
	}
}

// Register handles the /auth/register endpoint. A duplicate email (after
// normalization) is a 409; a store outage is a 503; anything else that goes
// wrong mid-registration is reported as a generic 400 so a single bad
// request cannot take down the handler.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "validation error: "+err.Error())
		return
	}

	hashed, err := h.passwords.Hash(req.Password)
	if err != nil {
		log.Error("failed to hash password during registration", "error", err.Error())
		shared.RespondWithError(w, r, http.StatusBadRequest, "register failed")
		return
	}

	user, err := domain.NewUser(req.Name, req.Email, hashed)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, store.ErrEmailExists):
			shared.RespondWithError(w, r, http.StatusConflict, "email already in use")
		case store.IsUnavailable(err):
			shared.RespondWithError(w, r, http.StatusServiceUnavailable, "database unavailable")
		default:
			log.Error("unexpected failure during registration", "error", err.Error())
			shared.RespondWithError(w, r, http.StatusBadRequest, "register failed")
		}
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user)
	if err != nil {
		log.Error("failed to generate token during registration",
			"error", err.Error(),
			"user_id", user.ID)
		shared.RespondWithError(w, r, http.StatusBadRequest, "register failed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{AccessToken: token})
}

// Login handles the /auth/login endpoint. An unknown email and a wrong
// password are indistinguishable to the caller: both are a 401 with the
// same detail string.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "validation error: "+err.Error())
		return
	}

	email, err := domain.NormalizeEmail(req.Email)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	user, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			RespondWithMappedError(w, r, auth.ErrInvalidCredentials)
			return
		}
		RespondWithMappedError(w, r, err)
		return
	}

	if !h.passwords.Verify(req.Password, user.HashedPassword) {
		RespondWithMappedError(w, r, auth.ErrInvalidCredentials)
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user)
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to generate token during login",
			"error", err.Error(),
			"user_id", user.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{AccessToken: token})
}
