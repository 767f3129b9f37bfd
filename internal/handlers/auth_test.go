package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"aircon_control/internal/service"
)

func postJSON(t *testing.T, s *service.Service, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	newTestRouter(s).ServeHTTP(w, req)
	return w
}

func TestSignUp(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantID   int
	}{
		{name: "created", body: `{"username":"operator","password":"s3cr3t"}`, wantCode: http.StatusOK, wantID: 42},
		{name: "bad body", body: `{"username":1}`, wantCode: http.StatusBadRequest},
		{name: "missing password", body: `{"username":"operator"}`, wantCode: http.StatusBadRequest},
		{name: "weak password", body: `{"username":"operator","password":"1"}`, err: fmt.Errorf("%w: too short", service.ErrWeakPassword), wantCode: http.StatusBadRequest},
		{name: "bad username", body: `{"username":"a b","password":"s3cr3t"}`, err: service.ErrInvalidUsername, wantCode: http.StatusBadRequest},
		{name: "taken", body: `{"username":"operator","password":"s3cr3t"}`, err: fmt.Errorf("%w: operator", service.ErrUserExists), wantCode: http.StatusConflict},
		{name: "storage", body: `{"username":"operator","password":"s3cr3t"}`, err: errors.New("disk full"), wantCode: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{signUpID: 42, signUpErr: tc.err}
			w := postJSON(t, &service.Service{Authorization: auth}, "/auth/sign-up", tc.body)
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantID == 0 {
				return
			}
			var out struct {
				ID int `json:"id"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.ID != tc.wantID {
				t.Fatalf("expected id=%d, got %d", tc.wantID, out.ID)
			}
			if auth.lastSignUpUsername != "operator" || auth.lastSignUpPassword != "s3cr3t" {
				t.Fatalf("credentials not forwarded: %q/%q", auth.lastSignUpUsername, auth.lastSignUpPassword)
			}
		})
	}
}

func TestSignUp_InternalErrorHidesDetails(t *testing.T) {
	auth := &mockAuth{signUpErr: errors.New("sqlite: database is locked")}
	w := postJSON(t, &service.Service{Authorization: auth}, "/auth/sign-up", `{"username":"operator","password":"s3cr3t"}`)
	if w.Body.String() != `{"error":"failed to create user"}` {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestSignIn(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		err       error
		wantCode  int
		wantToken string
	}{
		{name: "ok", body: `{"username":"operator","password":"s3cr3t"}`, wantCode: http.StatusOK, wantToken: "tok123"},
		{name: "bad body", body: `{"username":1}`, wantCode: http.StatusBadRequest},
		{name: "unknown user", body: `{"username":"ghost","password":"s3cr3t"}`, err: fmt.Errorf("%w: %w", service.ErrInvalidCredentials, service.ErrUserNotFound), wantCode: http.StatusUnauthorized},
		{name: "wrong password", body: `{"username":"operator","password":"nope"}`, err: service.ErrInvalidCredentials, wantCode: http.StatusUnauthorized},
		{name: "storage", body: `{"username":"operator","password":"s3cr3t"}`, err: errors.New("db down"), wantCode: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{genTokenToken: "tok123", genTokenErr: tc.err}
			w := postJSON(t, &service.Service{Authorization: auth}, "/auth/sign-in", tc.body)
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			var out map[string]string
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if tc.wantToken != "" && (out["token"] != tc.wantToken || out["token_type"] != "Bearer") {
				t.Fatalf("unexpected body %v", out)
			}
			if tc.wantCode == http.StatusUnauthorized && out["error"] != "invalid credentials" {
				t.Fatalf("401 must not reveal the cause, got %q", out["error"])
			}
		})
	}
}
