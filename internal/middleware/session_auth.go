package middleware

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/cleberrangel/task-tracker-api/internal/logger"
	"github.com/cleberrangel/task-tracker-api/internal/metrics"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Session represents a user session
type Session struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionAuthConfig contains configuration for session authentication
type SessionAuthConfig struct {
	Users           map[string]string // username -> password hash
	SessionDuration time.Duration     // session duration
	CookieName      string            // session cookie name
	CookieDomain    string            // cookie domain
	CookieSecure    bool              // secure cookie flag
	CookieHTTPOnly  bool              // httponly cookie flag
}

// SessionAuthMiddleware handles username/password authentication with sessions
type SessionAuthMiddleware struct {
	config   SessionAuthConfig
	mu       sync.RWMutex
	sessions map[string]*Session // sessionID -> Session
	csrf     *CSRFMiddleware
}

// NewSessionAuthMiddleware creates a new session auth middleware
func NewSessionAuthMiddleware(config SessionAuthConfig) *SessionAuthMiddleware {
	// Set defaults
	if config.SessionDuration == 0 {
		config.SessionDuration = 24 * time.Hour
	}
	if config.CookieName == "" {
		config.CookieName = "session_id"
	}
	if config.Users == nil {
		config.Users = make(map[string]string)
	}

	return &SessionAuthMiddleware{
		config:   config,
		sessions: make(map[string]*Session),
	}
}

// WithCSRF attaches a CSRF middleware so login issues CSRF tokens
func (m *SessionAuthMiddleware) WithCSRF(csrf *CSRFMiddleware) *SessionAuthMiddleware {
	m.csrf = csrf
	return m
}

// AddUser adds a user to the middleware's user map
func (m *SessionAuthMiddleware) AddUser(username, passwordHash string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config.Users[username] = passwordHash
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a password with its hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// generateSessionID generates a secure random session ID
func (m *SessionAuthMiddleware) generateSessionID() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// CreateSession creates a new session for the user
func (m *SessionAuthMiddleware) CreateSession(username string) (string, error) {
	sessionID, err := m.generateSessionID()
	if err != nil {
		return "", err
	}

	session := &Session{
		UserID:    username, // Using username as userID for simplicity
		Username:  username,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(m.config.SessionDuration),
	}

	m.mu.Lock()
	m.sessions[sessionID] = session
	m.mu.Unlock()

	return sessionID, nil
}

// GetSession retrieves a session by ID
func (m *SessionAuthMiddleware) GetSession(sessionID string) (*Session, bool) {
	m.mu.RLock()
	session, exists := m.sessions[sessionID]
	m.mu.RUnlock()

	if !exists {
		return nil, false
	}

	// Check if session is expired
	if time.Now().After(session.ExpiresAt) {
		m.mu.Lock()
		delete(m.sessions, sessionID)
		m.mu.Unlock()
		return nil, false
	}

	return session, true
}

// DeleteSession removes a session
func (m *SessionAuthMiddleware) DeleteSession(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// ValidateCredentials checks if username and password are valid
func (m *SessionAuthMiddleware) ValidateCredentials(username, password string) bool {
	m.mu.RLock()
	hash, exists := m.config.Users[username]
	m.mu.RUnlock()

	if !exists {
		return false
	}
	return CheckPassword(password, hash)
}

// RequireAuth middleware that requires authentication
func (m *SessionAuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check for session cookie
		sessionID, err := c.Cookie(m.config.CookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Sessão não encontrada",
				"code":    "SESSION_NOT_FOUND",
			})
			return
		}

		// Validate session
		session, valid := m.GetSession(sessionID)
		if !valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Sessão inválida ou expirada",
				"code":    "SESSION_INVALID",
			})
			return
		}

		// Add session info to context
		c.Set("session", session)
		c.Set("user_id", session.UserID)
		c.Set("username", session.Username)

		c.Next()
	}
}

// Login handles user login
func (m *SessionAuthMiddleware) Login(c *gin.Context) {
	var loginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginRequest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Dados de login inválidos",
			"details": err.Error(),
			"code":    "INVALID_INPUT",
		})
		return
	}

	// Validate credentials
	if !m.ValidateCredentials(loginRequest.Username, loginRequest.Password) {
		metrics.Get().IncrementLogin(false)
		logger.Audit(c.Request.Context(), logger.AuditEvent{
			Action:   logger.AuditActionLoginFailed,
			Username: loginRequest.Username,
			ClientIP: c.ClientIP(),
			Success:  false,
		})
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Credenciais inválidas",
			"code":    "INVALID_CREDENTIALS",
		})
		return
	}

	// Create session
	sessionID, err := m.CreateSession(loginRequest.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Erro interno do servidor",
			"code":    "SESSION_CREATE_ERROR",
		})
		return
	}

	metrics.Get().IncrementLogin(true)
	logger.Audit(c.Request.Context(), logger.AuditEvent{
		Action:   logger.AuditActionLogin,
		Username: loginRequest.Username,
		ClientIP: c.ClientIP(),
		Success:  true,
	})

	// Set session cookie
	c.SetCookie(
		m.config.CookieName,
		sessionID,
		int(m.config.SessionDuration.Seconds()),
		"/",
		m.config.CookieDomain,
		m.config.CookieSecure,
		m.config.CookieHTTPOnly,
	)

	response := gin.H{
		"success": true,
		"message": "Login realizado com sucesso",
		"user": gin.H{
			"username": loginRequest.Username,
		},
	}

	// Issue CSRF token when protection is enabled
	if m.csrf != nil {
		csrfToken, err := m.csrf.GenerateToken(loginRequest.Username)
		if err == nil {
			m.csrf.SetTokenCookie(c, csrfToken)
			response["csrf_token"] = csrfToken
		}
	}

	c.JSON(http.StatusOK, response)
}

// Logout handles user logout
func (m *SessionAuthMiddleware) Logout(c *gin.Context) {
	// Get session ID from cookie
	sessionID, err := c.Cookie(m.config.CookieName)
	if err == nil {
		// Delete session
		m.DeleteSession(sessionID)
	}

	// Invalidate CSRF token for the user
	if m.csrf != nil {
		if userID, exists := c.Get("user_id"); exists {
			m.csrf.DeleteToken(userID.(string))
		}
		m.csrf.ClearTokenCookie(c)
	}

	logger.Audit(c.Request.Context(), logger.AuditEvent{
		Action:   logger.AuditActionLogout,
		Username: logger.GetUsername(c.Request.Context()),
		ClientIP: c.ClientIP(),
		Success:  true,
	})

	// Clear cookie
	c.SetCookie(
		m.config.CookieName,
		"",
		-1,
		"/",
		m.config.CookieDomain,
		m.config.CookieSecure,
		m.config.CookieHTTPOnly,
	)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logout realizado com sucesso",
	})
}

// CleanupExpiredSessions removes expired sessions (should be called periodically)
func (m *SessionAuthMiddleware) CleanupExpiredSessions() {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for sessionID, session := range m.sessions {
		if now.After(session.ExpiresAt) {
			delete(m.sessions, sessionID)
		}
	}
}
