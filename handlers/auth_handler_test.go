package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/smontes/catalog-api/models"
	"github.com/smontes/catalog-api/password"
	"github.com/smontes/catalog-api/repositories"
	"github.com/smontes/catalog-api/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTokenIssuer is a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(principal token.Principal) (string, error) {
	args := m.Called(principal)
	return args.String(0), args.Error(1)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestHandleRegister(t *testing.T) {
	logger := zap.NewNop()

	t.Run("valid registration returns token and subject", func(t *testing.T) {
		users := new(MockUserRepository)
		issuer := new(MockTokenIssuer)
		handler := NewAuthHandler(users, issuer, logger)

		users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "new@example.com" && len(u.Authorities) == 1
		})).Return(nil)
		issuer.On("Issue", mock.MatchedBy(func(p token.Principal) bool {
			return p.Subject == "new@example.com"
		})).Return("signed-token", nil)

		w := postJSON(t, handler.HandleRegister, "/api/v1/auth/register",
			RegisterRequest{Email: "new@example.com", Password: "long-enough-password"})

		assert.Equal(t, http.StatusCreated, w.Code)

		var response struct {
			Data AuthResponse `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "signed-token", response.Data.Token)
		assert.Equal(t, "new@example.com", response.Data.Subject)
		users.AssertExpectations(t)
		issuer.AssertExpectations(t)
	})

	t.Run("invalid email is a 400 with field details", func(t *testing.T) {
		users := new(MockUserRepository)
		issuer := new(MockTokenIssuer)
		handler := NewAuthHandler(users, issuer, logger)

		w := postJSON(t, handler.HandleRegister, "/api/v1/auth/register",
			RegisterRequest{Email: "not-an-email", Password: "long-enough-password"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		users.AssertNotCalled(t, "Create")
	})

	t.Run("short password is a 400", func(t *testing.T) {
		handler := NewAuthHandler(new(MockUserRepository), new(MockTokenIssuer), logger)

		w := postJSON(t, handler.HandleRegister, "/api/v1/auth/register",
			RegisterRequest{Email: "new@example.com", Password: "short"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate email is a 409", func(t *testing.T) {
		users := new(MockUserRepository)
		issuer := new(MockTokenIssuer)
		handler := NewAuthHandler(users, issuer, logger)

		users.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrDuplicate)

		w := postJSON(t, handler.HandleRegister, "/api/v1/auth/register",
			RegisterRequest{Email: "taken@example.com", Password: "long-enough-password"})

		assert.Equal(t, http.StatusConflict, w.Code)
		issuer.AssertNotCalled(t, "Issue")
	})
}

func TestHandleLogin(t *testing.T) {
	logger := zap.NewNop()

	hash, err := password.Hash("correct-password")
	require.NoError(t, err)

	t.Run("correct credentials return token with authorities", func(t *testing.T) {
		users := new(MockUserRepository)
		issuer := new(MockTokenIssuer)
		handler := NewAuthHandler(users, issuer, logger)

		user := models.NewUser("bob@example.com", hash, []string{models.AuthorityAdmin})
		users.On("GetByEmail", mock.Anything, "bob@example.com").Return(user, nil)
		issuer.On("Issue", token.Principal{
			Subject:     "bob@example.com",
			Authorities: []string{models.AuthorityAdmin},
		}).Return("signed-token", nil)

		w := postJSON(t, handler.HandleLogin, "/api/v1/auth/login",
			LoginRequest{Email: "bob@example.com", Password: "correct-password"})

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Data AuthResponse `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "signed-token", response.Data.Token)
		assert.Equal(t, []string{models.AuthorityAdmin}, response.Data.Authorities)
		issuer.AssertExpectations(t)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		users := new(MockUserRepository)
		issuer := new(MockTokenIssuer)
		handler := NewAuthHandler(users, issuer, logger)

		users.On("GetByEmail", mock.Anything, "ghost@example.com").
			Return(nil, repositories.ErrNotFound)
		users.On("GetByEmail", mock.Anything, "bob@example.com").
			Return(models.NewUser("bob@example.com", hash, nil), nil)

		unknown := postJSON(t, handler.HandleLogin, "/api/v1/auth/login",
			LoginRequest{Email: "ghost@example.com", Password: "whatever-password"})
		wrong := postJSON(t, handler.HandleLogin, "/api/v1/auth/login",
			LoginRequest{Email: "bob@example.com", Password: "wrong-password"})

		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.JSONEq(t, unknown.Body.String(), wrong.Body.String())
		issuer.AssertNotCalled(t, "Issue")
	})
}
