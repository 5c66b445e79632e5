package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newCSRFTestRouter(t *testing.T) (*gin.Engine, *SessionAuthMiddleware, *CSRFMiddleware, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	csrf := NewCSRFMiddleware(CSRFConfig{})
	auth := NewSessionAuthMiddleware(SessionAuthConfig{}).WithCSRF(csrf)

	hash, err := HashPassword("senha123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	auth.AddUser("alice", hash)

	sessionID, err := auth.CreateSession("alice")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	r := gin.New()
	r.POST("/logout", auth.RequireAuth(), csrf.RequireCSRF(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.GET("/profile", auth.RequireAuth(), csrf.RequireCSRF(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	return r, auth, csrf, sessionID
}

func TestRequireCSRFBlocksMissingToken(t *testing.T) {
	r, auth, _, sessionID := newCSRFTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: auth.config.CookieName, Value: sessionID})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 without CSRF token, got %d", w.Code)
	}
}

func TestRequireCSRFBlocksInvalidToken(t *testing.T) {
	r, auth, csrf, sessionID := newCSRFTestRouter(t)

	if _, err := csrf.GenerateToken("alice"); err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: auth.config.CookieName, Value: sessionID})
	req.Header.Set(CSRFTokenHeader, "token-forjado")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 with forged CSRF token, got %d", w.Code)
	}
}

func TestRequireCSRFAcceptsValidToken(t *testing.T) {
	r, auth, csrf, sessionID := newCSRFTestRouter(t)

	token, err := csrf.GenerateToken("alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: auth.config.CookieName, Value: sessionID})
	req.Header.Set(CSRFTokenHeader, token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 with valid CSRF token, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireCSRFAcceptsCookieFallback(t *testing.T) {
	r, auth, csrf, sessionID := newCSRFTestRouter(t)

	token, err := csrf.GenerateToken("alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: auth.config.CookieName, Value: sessionID})
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: token})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 with CSRF cookie, got %d", w.Code)
	}
}

func TestRequireCSRFSkipsSafeMethods(t *testing.T) {
	r, auth, _, sessionID := newCSRFTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: auth.config.CookieName, Value: sessionID})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected GET to bypass CSRF check, got %d", w.Code)
	}
}

func TestCSRFTokenLifecycle(t *testing.T) {
	csrf := NewCSRFMiddleware(CSRFConfig{})

	token, err := csrf.GenerateToken("alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if !csrf.ValidateToken("alice", token) {
		t.Error("Fresh token should validate")
	}
	if csrf.ValidateToken("bob", token) {
		t.Error("Token must be bound to its session")
	}

	csrf.DeleteToken("alice")
	if csrf.ValidateToken("alice", token) {
		t.Error("Deleted token should not validate")
	}
}

func TestCSRFTokenExpiration(t *testing.T) {
	csrf := NewCSRFMiddleware(CSRFConfig{TokenDuration: time.Millisecond})

	token, err := csrf.GenerateToken("alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	if csrf.ValidateToken("alice", token) {
		t.Error("Expired token should not validate")
	}
}
