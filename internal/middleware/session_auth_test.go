package middleware

import (
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3nha-forte")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if !CheckPassword("s3nha-forte", hash) {
		t.Error("CheckPassword should accept the correct password")
	}
	if CheckPassword("senha-errada", hash) {
		t.Error("CheckPassword should reject a wrong password")
	}
}

func TestValidateCredentials(t *testing.T) {
	hash, err := HashPassword("segredo")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	m := NewSessionAuthMiddleware(SessionAuthConfig{
		Users: map[string]string{"alice": hash},
	})

	if !m.ValidateCredentials("alice", "segredo") {
		t.Error("Valid credentials should be accepted")
	}
	if m.ValidateCredentials("alice", "errado") {
		t.Error("Wrong password should be rejected")
	}
	if m.ValidateCredentials("bob", "segredo") {
		t.Error("Unknown user should be rejected")
	}
}

func TestSessionLifecycle(t *testing.T) {
	m := NewSessionAuthMiddleware(SessionAuthConfig{
		SessionDuration: time.Hour,
	})

	sessionID, err := m.CreateSession("alice")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if sessionID == "" {
		t.Fatal("Session ID should not be empty")
	}

	session, valid := m.GetSession(sessionID)
	if !valid {
		t.Fatal("Session should be valid right after creation")
	}
	if session.Username != "alice" {
		t.Errorf("Expected username alice, got %s", session.Username)
	}

	m.DeleteSession(sessionID)
	if _, valid := m.GetSession(sessionID); valid {
		t.Error("Deleted session should not be valid")
	}
}

func TestExpiredSessionsAreRejected(t *testing.T) {
	m := NewSessionAuthMiddleware(SessionAuthConfig{
		SessionDuration: time.Millisecond,
	})

	sessionID, err := m.CreateSession("alice")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, valid := m.GetSession(sessionID); valid {
		t.Error("Expired session should not be valid")
	}

	// Cleanup should not panic with the expired entry already removed
	m.CleanupExpiredSessions()
}

func TestAddUser(t *testing.T) {
	m := NewSessionAuthMiddleware(SessionAuthConfig{})

	hash, err := HashPassword("nova-senha")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	m.AddUser("carol", hash)

	if !m.ValidateCredentials("carol", "nova-senha") {
		t.Error("User added via AddUser should be able to authenticate")
	}
}
