package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("taller-secreto-123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "taller-secreto-123" {
		t.Fatalf("password stored in plain text")
	}
	if !CheckPasswordHash("taller-secreto-123", hash) {
		t.Fatalf("correct password rejected")
	}
	if CheckPasswordHash("wrong-password", hash) {
		t.Fatalf("wrong password accepted")
	}
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", GenerateJWTSecret())
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		userID, _ := c.Get("userId")
		c.JSON(http.StatusOK, gin.H{"userId": userID})
	})

	// No header
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", w.Code)
	}

	// Garbage token
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", w.Code)
	}

	// Valid token
	token, err := GenerateToken("a3c42cc2-7a93-4aa8-b2e6-0f2f83cbe121")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d: %s", w.Code, w.Body.String())
	}
}

func TestTokenExpiryHours(t *testing.T) {
	t.Setenv("JWT_EXPIRY_HOURS", "")
	if got := TokenExpiryHours(); got != 24 {
		t.Fatalf("expected default 24 hours, got %d", got)
	}

	t.Setenv("JWT_EXPIRY_HOURS", "72")
	if got := TokenExpiryHours(); got != 72 {
		t.Fatalf("expected 72 hours from env, got %d", got)
	}

	t.Setenv("JWT_EXPIRY_HOURS", "not-a-number")
	if got := TokenExpiryHours(); got != 24 {
		t.Fatalf("expected fallback to 24 for garbage value, got %d", got)
	}

	t.Setenv("JWT_EXPIRY_HOURS", "-3")
	if got := TokenExpiryHours(); got != 24 {
		t.Fatalf("expected fallback to 24 for non-positive value, got %d", got)
	}
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := GenerateToken("some-user"); err == nil {
		t.Fatalf("expected error when JWT_SECRET is unset")
	}
}
