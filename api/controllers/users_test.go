package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/SHERATONS/FISHERMEN/internal/users"
	"github.com/SHERATONS/FISHERMEN/pkg/logger"
)

type testUsersService struct {
	registerFn func(ctx context.Context, input users.RegisterInput) (*users.UserDTO, error)
	loginFn    func(ctx context.Context, input users.LoginInput) (*users.LoginResult, error)
	getFn      func(ctx context.Context, id uuid.UUID) (*users.UserDTO, error)
}

func (s *testUsersService) Register(ctx context.Context, input users.RegisterInput) (*users.UserDTO, error) {
	if s.registerFn != nil {
		return s.registerFn(ctx, input)
	}
	return nil, nil
}

func (s *testUsersService) Login(ctx context.Context, input users.LoginInput) (*users.LoginResult, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, input)
	}
	return nil, nil
}

func (s *testUsersService) Get(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestRegisterUserCreated(t *testing.T) {
	var got users.RegisterInput
	svc := &testUsersService{
		registerFn: func(ctx context.Context, input users.RegisterInput) (*users.UserDTO, error) {
			got = input
			return &users.UserDTO{ID: uuid.New(), Username: input.Username}, nil
		},
	}

	body := `{"username":"skipper","email":"skipper@oceanmate.app","password":"longenough","firstName":"Sam","lastName":"Trawl","role":"FISHERMAN"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader(body))
	resp := httptest.NewRecorder()

	RegisterUser(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got.Username != "skipper" || got.Role != "FISHERMAN" {
		t.Fatalf("unexpected input forwarded: %+v", got)
	}
}

func TestRegisterUserRejectsBadBody(t *testing.T) {
	svc := &testUsersService{
		registerFn: func(ctx context.Context, input users.RegisterInput) (*users.UserDTO, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}

	body := `{"username":"skipper"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader(body))
	resp := httptest.NewRecorder()

	RegisterUser(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestLoginUserReturnsToken(t *testing.T) {
	svc := &testUsersService{
		loginFn: func(ctx context.Context, input users.LoginInput) (*users.LoginResult, error) {
			if input.Username != "skipper" || input.Password != "secretpass" {
				t.Fatalf("unexpected credentials: %+v", input)
			}
			return &users.LoginResult{ID: uuid.New(), Role: "BUYER", Token: "signed-token"}, nil
		},
	}

	body := `{"username":"skipper","password":"secretpass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(body))
	resp := httptest.NewRecorder()

	LoginUser(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data users.LoginResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Token != "signed-token" {
		t.Fatalf("unexpected token %q", envelope.Data.Token)
	}
}
