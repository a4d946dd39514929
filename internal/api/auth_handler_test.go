package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/bmi-api/internal/domain"
	"github.com/phrazzld/bmi-api/internal/mocks"
	"github.com/phrazzld/bmi-api/internal/service"
	"github.com/phrazzld/bmi-api/internal/service/auth"
	"github.com/phrazzld/bmi-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAuthHandler(users *mocks.MockUserService, jwt *mocks.MockJWTService, pv *mocks.MockPasswordVerifier) *AuthHandler {
	h := NewAuthHandler(users, jwt, pv)
	h.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return h
}

func TestAuthHandler_Register(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		body       any
		setup      func(*mocks.MockUserService)
		wantStatus int
		wantError  string
	}{
		{
			name: "created",
			body: RegisterRequest{Email: "a@example.com", Password: "long-enough-password"},
			setup: func(m *mocks.MockUserService) {
				m.On("CreateUser", mock.MatchedBy(anyCtx), "a@example.com", "long-enough-password").
					Return(&domain.User{ID: userID, Email: "a@example.com"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate email",
			body: RegisterRequest{Email: "a@example.com", Password: "long-enough-password"},
			setup: func(m *mocks.MockUserService) {
				m.On("CreateUser", mock.Anything, "a@example.com", "long-enough-password").
					Return(nil, service.NewUserServiceError("create_user", "failed", store.ErrEmailExists))
			},
			wantStatus: http.StatusConflict,
			wantError:  "Email already exists",
		},
		{
			name:       "short password",
			body:       RegisterRequest{Email: "a@example.com", Password: "short"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid Password: too short",
		},
		{
			name:       "malformed body",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name: "store failure",
			body: RegisterRequest{Email: "a@example.com", Password: "long-enough-password"},
			setup: func(m *mocks.MockUserService) {
				m.On("CreateUser", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, errors.New("connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to create user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mocks.MockUserService{}
			if tt.setup != nil {
				tt.setup(users)
			}
			jwt := &mocks.MockJWTService{Token: "access", RefreshToken: "refresh"}
			h := newTestAuthHandler(users, jwt, &mocks.MockPasswordVerifier{})

			rec := httptest.NewRecorder()
			h.Register(rec, newJSONRequest(t, http.MethodPost, "/api/auth/register", tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, rec).Error)
				return
			}

			resp := decodeBody[AuthResponse](t, rec)
			assert.Equal(t, userID, resp.UserID)
			assert.Equal(t, "access", resp.AccessToken)
			assert.Equal(t, "refresh", resp.RefreshToken)
			assert.Equal(t, "2024-03-01T13:00:00Z", resp.ExpiresAt)
			users.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Email: "a@example.com", HashedPassword: "hash"}

	tests := []struct {
		name       string
		lookupErr  error
		passwordOK bool
		wantStatus int
		wantError  string
	}{
		{name: "valid credentials", passwordOK: true, wantStatus: http.StatusOK},
		{name: "wrong password", wantStatus: http.StatusUnauthorized, wantError: "Invalid credentials"},
		{
			name:       "unknown email",
			lookupErr:  service.NewUserServiceError("get_user_by_email", "failed", store.ErrUserNotFound),
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid credentials",
		},
		{
			name:       "lookup failure",
			lookupErr:  errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to authenticate user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mocks.MockUserService{}
			if tt.lookupErr != nil {
				users.On("GetUserByEmail", mock.Anything, "a@example.com").Return(nil, tt.lookupErr)
			} else {
				users.On("GetUserByEmail", mock.Anything, "a@example.com").Return(user, nil)
			}
			pv := &mocks.MockPasswordVerifier{ShouldSucceed: tt.passwordOK}
			jwt := &mocks.MockJWTService{Token: "access", RefreshToken: "refresh"}
			h := newTestAuthHandler(users, jwt, pv)

			rec := httptest.NewRecorder()
			h.Login(rec, newJSONRequest(t, http.MethodPost, "/api/auth/login",
				LoginRequest{Email: "a@example.com", Password: "whatever-password"}))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, rec).Error)
				return
			}
			resp := decodeBody[AuthResponse](t, rec)
			assert.Equal(t, user.ID, resp.UserID)

			require.Equal(t, 1, pv.Calls())
			hash, plain := pv.LastCall()
			assert.Equal(t, "hash", hash)
			assert.Equal(t, "whatever-password", plain)
		})
	}
}

func TestAuthHandler_Login_TokenFailure(t *testing.T) {
	users := &mocks.MockUserService{}
	users.On("GetUserByEmail", mock.Anything, "a@example.com").
		Return(&domain.User{ID: uuid.New(), HashedPassword: "hash"}, nil)
	jwt := &mocks.MockJWTService{Err: errors.New("signing failed")}
	h := newTestAuthHandler(users, jwt, &mocks.MockPasswordVerifier{ShouldSucceed: true})

	rec := httptest.NewRecorder()
	h.Login(rec, newJSONRequest(t, http.MethodPost, "/api/auth/login",
		LoginRequest{Email: "a@example.com", Password: "whatever-password"}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to generate authentication token", decodeError(t, rec).Error)
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name        string
		validateErr error
		lookupErr   error
		wantStatus  int
		wantError   string
	}{
		{name: "valid refresh token", wantStatus: http.StatusOK},
		{
			name:        "expired refresh token",
			validateErr: auth.ErrExpiredRefreshToken,
			wantStatus:  http.StatusUnauthorized,
			wantError:   "Invalid refresh token",
		},
		{
			name:        "access token used for refresh",
			validateErr: auth.ErrWrongTokenType,
			wantStatus:  http.StatusUnauthorized,
			wantError:   "Invalid refresh token",
		},
		{
			name:       "owner deleted",
			lookupErr:  store.ErrUserNotFound,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid refresh token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mocks.MockUserService{}
			if tt.validateErr == nil {
				if tt.lookupErr != nil {
					users.On("GetUser", mock.Anything, userID).Return(nil, tt.lookupErr)
				} else {
					users.On("GetUser", mock.Anything, userID).Return(&domain.User{ID: userID}, nil)
				}
			}
			jwt := &mocks.MockJWTService{
				Token:        "new-access",
				RefreshToken: "new-refresh",
				ValidateErr:  tt.validateErr,
				Claims:       &auth.Claims{UserID: userID, TokenType: auth.TokenTypeRefresh},
			}
			h := newTestAuthHandler(users, jwt, &mocks.MockPasswordVerifier{})

			rec := httptest.NewRecorder()
			h.RefreshToken(rec, newJSONRequest(t, http.MethodPost, "/api/auth/refresh",
				RefreshTokenRequest{RefreshToken: "old-refresh"}))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, rec).Error)
				return
			}
			resp := decodeBody[AuthResponse](t, rec)
			assert.Equal(t, "new-access", resp.AccessToken)
			assert.Equal(t, "new-refresh", resp.RefreshToken)
			users.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_RefreshToken_MissingToken(t *testing.T) {
	h := newTestAuthHandler(&mocks.MockUserService{}, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{})

	rec := httptest.NewRecorder()
	h.RefreshToken(rec, newJSONRequest(t, http.MethodPost, "/api/auth/refresh", map[string]string{}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid RefreshToken: required field", decodeError(t, rec).Error)
}
