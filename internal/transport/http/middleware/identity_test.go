package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/xpertfs/xpert-app-backend/internal/requestctx"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestIdentityLiftsClaimsIntoContext(t *testing.T) {
	signed := signToken(t, testSecret, jwt.MapClaims{
		"sub":       "u1",
		"companyId": "c1",
		"role":      "admin",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})

	var got requestctx.Identity
	var ok bool
	handler := Identity(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = requestctx.GetIdentity(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !ok {
		t.Fatal("expected identity in context")
	}
	if got.UserID != "u1" || got.CompanyID != "c1" || got.Role != "admin" {
		t.Fatalf("unexpected identity: %+v", got)
	}
}

func TestIdentityIgnoresBadSignature(t *testing.T) {
	signed := signToken(t, "wrong-secret", jwt.MapClaims{
		"sub":       "u1",
		"companyId": "c1",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})

	var ok bool
	handler := Identity(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = requestctx.GetIdentity(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if ok {
		t.Fatal("expected no identity for a forged token")
	}
}

func TestRequireIdentityRejectsAnonymous(t *testing.T) {
	handler := RequireIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without identity")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestRequireRoleEnforcesRole(t *testing.T) {
	protected := RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	asRole := func(role string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := requestctx.WithIdentity(req.Context(), requestctx.Identity{UserID: "u1", CompanyID: "c1", Role: role})
		recorder := httptest.NewRecorder()
		protected.ServeHTTP(recorder, req.WithContext(ctx))
		return recorder
	}

	if recorder := asRole("admin"); recorder.Code != http.StatusNoContent {
		t.Fatalf("expected admin through, got %d", recorder.Code)
	}
	if recorder := asRole("worker"); recorder.Code != http.StatusForbidden {
		t.Fatalf("expected worker forbidden, got %d", recorder.Code)
	}
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected a generated request id")
	}
	if recorder.Header().Get("X-Request-ID") != seen {
		t.Fatal("expected the request id echoed in the response header")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "fixed-id" {
		t.Fatalf("expected the provided request id to win, got %s", seen)
	}
}
