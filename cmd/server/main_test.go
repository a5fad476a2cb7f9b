package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reactivities/reactivities/pkg/auth/jwt"
	"github.com/reactivities/reactivities/pkg/config"
	"github.com/reactivities/reactivities/pkg/storage/memory"
	"github.com/reactivities/reactivities/pkg/storage/sqlite"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	mem, err := openStore(ctx, config.StorageConfig{Type: "memory", MaxSize: 5})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := mem.(*memory.Store); !ok {
		t.Errorf("memory: got %T", mem)
	}

	lite, err := openStore(ctx, config.StorageConfig{
		Type:   "sqlite",
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")},
	})
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	defer lite.Close()
	if _, ok := lite.(*sqlite.Store); !ok {
		t.Errorf("sqlite: got %T", lite)
	}
}

func TestAuthMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	secret := strings.Repeat("k", jwt.MinSecretLength)

	cfg := config.Defaults()
	mw, err := authMiddleware(&cfg)
	if err != nil {
		t.Fatalf("authMiddleware(none): %v", err)
	}
	rec := httptest.NewRecorder()
	mw(ok).ServeHTTP(rec, httptest.NewRequest("GET", "/api/activities", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("auth none: status = %d, want 200", rec.Code)
	}

	cfg.Auth.Type = "jwt"
	cfg.Auth.JWT.Secret = secret
	mw, err = authMiddleware(&cfg)
	if err != nil {
		t.Fatalf("authMiddleware(jwt): %v", err)
	}

	rec = httptest.NewRecorder()
	mw(ok).ServeHTTP(rec, httptest.NewRequest("GET", "/api/activities", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("jwt without token: status = %d, want 401", rec.Code)
	}

	tokens, err := jwt.NewTokenService(jwt.Config{Secret: secret, Issuer: cfg.Auth.JWT.Issuer})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	token, err := tokens.CreateToken(jwt.User{Username: "bob"})
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	req := httptest.NewRequest("GET", "/api/activities", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	mw(ok).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("jwt with token: status = %d, want 200", rec.Code)
	}
}

func TestAuthMiddlewareRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	cfg := config.Defaults()
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.Tiers = map[string]config.TierConfig{"default": {RequestsPerMinute: 1, Burst: 1}}
	mw, err := authMiddleware(&cfg)
	if err != nil {
		t.Fatalf("authMiddleware: %v", err)
	}
	h := mw(ok)

	codes := make([]int, 2)
	for i := range codes {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/activities", nil))
		codes[i] = rec.Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 429]", codes)
	}
}
