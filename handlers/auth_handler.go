package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/smontes/catalog-api/models"
	"github.com/smontes/catalog-api/password"
	"github.com/smontes/catalog-api/repositories"
	"github.com/smontes/catalog-api/token"
	"github.com/smontes/catalog-api/utils"
	"go.uber.org/zap"
)

// TokenIssuer mints a signed token for an authenticated principal
type TokenIssuer interface {
	Issue(principal token.Principal) (string, error)
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned on successful login or registration: the compact
// token to present on subsequent requests, plus the principal it names.
type AuthResponse struct {
	Token       string   `json:"token"`
	Subject     string   `json:"subject"`
	Authorities []string `json:"authorities"`
}

// AuthHandler handles registration and login
type AuthHandler struct {
	users  repositories.UserRepository
	issuer TokenIssuer
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(users repositories.UserRepository, issuer TokenIssuer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		issuer: issuer,
		logger: logger,
	}
}

// HandleRegister handles POST /api/v1/auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		var validationErr *utils.ValidationError
		if errors.As(err, &validationErr) {
			_ = utils.WriteBadRequest(w, "Validation failed", validationErr.Fields)
			return
		}
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		h.logger.Error("password hashing failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	user := models.NewUser(req.Email, hash, []string{models.AuthorityUser})
	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			_ = utils.WriteConflict(w, "Email already registered")
			return
		}
		h.logger.Error("user creation failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	h.issueAndRespond(w, user, http.StatusCreated)
}

// HandleLogin handles POST /api/v1/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		var validationErr *utils.ValidationError
		if errors.As(err, &validationErr) {
			_ = utils.WriteBadRequest(w, "Validation failed", validationErr.Fields)
			return
		}
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	// Unknown account and wrong password produce the same response so the
	// endpoint cannot be used to probe for registered emails.
	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteUnauthorized(w, "Invalid credentials")
			return
		}
		h.logger.Error("user lookup failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	if err := password.Verify(req.Password, user.PasswordHash); err != nil {
		if errors.Is(err, password.ErrMismatch) || errors.Is(err, password.ErrInvalidHash) {
			h.logger.Warn("login rejected", zap.String("email", req.Email))
			_ = utils.WriteUnauthorized(w, "Invalid credentials")
			return
		}
		h.logger.Error("password verification failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	h.issueAndRespond(w, user, http.StatusOK)
}

func (h *AuthHandler) issueAndRespond(w http.ResponseWriter, user *models.User, status int) {
	signed, err := h.issuer.Issue(token.Principal{
		Subject:     user.Email,
		Authorities: user.Authorities,
	})
	if err != nil {
		h.logger.Error("token issuance failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	h.logger.Info("token issued", zap.String("sub", user.Email))
	_ = utils.WriteJSON(w, status, utils.SuccessResponse{Data: AuthResponse{
		Token:       signed,
		Subject:     user.Email,
		Authorities: user.Authorities,
	}})
}
