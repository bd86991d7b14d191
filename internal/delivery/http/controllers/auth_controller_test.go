package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventlottery/internal/delivery/http/helpers"
	"eventlottery/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	signUpUser *domain.User
	signUpErr  error
	loginToken string
	loginUser  *domain.User
	loginErr   error

	lastRole string
}

func (f *fakeAuthService) SignUp(_ context.Context, _, _, _, role string) (*domain.User, error) {
	f.lastRole = role
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.signUpUser, nil
}

func (f *fakeAuthService) Login(_ context.Context, _, _ string) (string, *domain.User, error) {
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return f.loginToken, f.loginUser, nil
}

func TestAuthController_SignUp(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	now := time.Now()

	tests := []struct {
		name         string
		body         string
		fakeUser     *domain.User
		fakeErr      error
		wantStatus   int
		wantBodyCode string
	}{
		{
			name:       "success",
			body:       `{"email":"alice@example.com","password":"longenough","username":"alice"}`,
			fakeUser:   &domain.User{ID: "u1", Email: "alice@example.com", Username: "alice", Role: domain.RoleEntrant, CreatedAt: now, UpdatedAt: now},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "organizer role accepted",
			body:       `{"email":"bob@example.com","password":"longenough","username":"bob","role":"organizer"}`,
			fakeUser:   &domain.User{ID: "u2", Email: "bob@example.com", Username: "bob", Role: domain.RoleOrganizer, CreatedAt: now, UpdatedAt: now},
			wantStatus: http.StatusCreated,
		},
		{
			name:         "admin role rejected by validation",
			body:         `{"email":"eve@example.com","password":"longenough","username":"eve","role":"admin"}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "invalid json",
			body:         `{invalid`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "missing username",
			body:         `{"email":"alice@example.com","password":"longenough"}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "short password",
			body:         `{"email":"alice@example.com","password":"short","username":"alice"}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "duplicate email",
			body:         `{"email":"alice@example.com","password":"longenough","username":"alice"}`,
			fakeErr:      domain.ErrDuplicateEmail,
			wantStatus:   http.StatusConflict,
			wantBodyCode: helpers.ErrCodeConflict,
		},
		{
			name:         "service error",
			body:         `{"email":"alice@example.com","password":"longenough","username":"alice"}`,
			fakeErr:      errors.New("db down"),
			wantStatus:   http.StatusInternalServerError,
			wantBodyCode: helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthService{signUpUser: tt.fakeUser, signUpErr: tt.fakeErr}
			ctrl := NewAuthController(logger, fake)

			req := httptest.NewRequest(http.MethodPost, "http://test/auth/signup", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.SignUp(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	now := time.Now()

	tests := []struct {
		name         string
		body         string
		fakeToken    string
		fakeUser     *domain.User
		fakeErr      error
		wantStatus   int
		wantBodyCode string
	}{
		{
			name:       "success",
			body:       `{"email":"alice@example.com","password":"longenough"}`,
			fakeToken:  "jwt-abc",
			fakeUser:   &domain.User{ID: "u1", Email: "alice@example.com", Username: "alice", Role: domain.RoleEntrant, CreatedAt: now, UpdatedAt: now},
			wantStatus: http.StatusOK,
		},
		{
			name:         "invalid credentials",
			body:         `{"email":"alice@example.com","password":"wrong-pass"}`,
			fakeErr:      errors.New("invalid credentials"),
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "missing password",
			body:         `{"email":"alice@example.com"}`,
			wantStatus:   http.StatusBadRequest,
			wantBodyCode: helpers.ErrCodeBadRequest,
		},
		{
			name:         "service error",
			body:         `{"email":"alice@example.com","password":"longenough"}`,
			fakeErr:      errors.New("issue token: boom"),
			wantStatus:   http.StatusInternalServerError,
			wantBodyCode: helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthService{loginToken: tt.fakeToken, loginUser: tt.fakeUser, loginErr: tt.fakeErr}
			ctrl := NewAuthController(logger, fake)

			req := httptest.NewRequest(http.MethodPost, "http://test/auth/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.Login(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var resp LoginResponse
				require.NoError(t, json.Unmarshal(dataBytes, &resp))
				assert.Equal(t, tt.fakeToken, resp.Token)
				assert.Equal(t, "Bearer", resp.TokenType)
				require.NotNil(t, resp.User)
				assert.Equal(t, tt.fakeUser.ID, resp.User.ID)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
		})
	}
}
