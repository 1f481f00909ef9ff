package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/iamcal77/e-shop-backened/internal/auth"
	"github.com/iamcal77/e-shop-backened/internal/domain"
	"github.com/iamcal77/e-shop-backened/internal/repository"
)

// UserStore is the repository surface behind registration and login.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash, role string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, string, error)
}

type AuthHandler struct {
	users         UserStore
	authenticator *auth.Authenticator
}

func NewAuthHandler(users UserStore, authenticator *auth.Authenticator) *AuthHandler {
	return &AuthHandler{users: users, authenticator: authenticator}
}

type RegisterRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "email is not valid")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "validation_error", "password must be at least 8 characters")
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleUser
	}
	switch req.Role {
	case domain.RoleAdmin, domain.RoleCashier, domain.RoleUser:
	default:
		respondError(w, http.StatusBadRequest, "validation_error", "role must be one of ADMIN, CASHIER, USER")
		return
	}

	hash, err := h.authenticator.HashPassword(req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Email, hash, req.Role)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponseDTO struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "email and password are required")
		return
	}

	user, hash, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		// Same response as a bad password so the endpoint does not
		// reveal which emails are registered.
		respondError(w, http.StatusUnauthorized, "unauthenticated", "invalid credentials")
		return
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if !user.IsActive {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "invalid credentials")
		return
	}
	if err := h.authenticator.VerifyPassword(req.Password, hash); err != nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "invalid credentials")
		return
	}

	token, err := h.authenticator.CreateToken(user.Email, user.Role)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, LoginResponseDTO{Token: token, User: user})
}
