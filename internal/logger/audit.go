package logger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// AuditAction represents the type of action being audited
type AuditAction string

const (
	// Authentication actions
	AuditActionLogin       AuditAction = "LOGIN"
	AuditActionLogout      AuditAction = "LOGOUT"
	AuditActionLoginFailed AuditAction = "LOGIN_FAILED"

	// Task operations
	AuditActionTaskCreate AuditAction = "TASK_CREATE"
	AuditActionTaskUpdate AuditAction = "TASK_UPDATE"
	AuditActionTaskDelete AuditAction = "TASK_DELETE"

	// Tag operations
	AuditActionTagCreate AuditAction = "TAG_CREATE"
	AuditActionTagUpdate AuditAction = "TAG_UPDATE"
	AuditActionTagDelete AuditAction = "TAG_DELETE"

	// AI tool invocations
	AuditActionSmartEstimate AuditAction = "SMART_ESTIMATE"
	AuditActionSmartSummary  AuditAction = "SMART_SUMMARY"
	AuditActionSmartRewrite  AuditAction = "SMART_REWRITE"

	// Report operations
	AuditActionReportExport AuditAction = "REPORT_EXPORT"

	// WebSocket operations
	AuditActionWSConnect    AuditAction = "WS_CONNECT"
	AuditActionWSDisconnect AuditAction = "WS_DISCONNECT"

	// API operations
	AuditActionAPIRequest AuditAction = "API_REQUEST"
	AuditActionAPIError   AuditAction = "API_ERROR"
)

// AuditEvent represents an audit log entry
type AuditEvent struct {
	Action     AuditAction
	UserID     string
	Username   string
	Resource   string
	ResourceID string
	Details    map[string]interface{}
	ClientIP   string
	RequestID  string
	Success    bool
	Error      string
	Duration   int64 // Duration in milliseconds
	Method     string
	Path       string
	StatusCode int
}

// auditLogger is a specialized logger for audit events
var auditLogger zerolog.Logger

// InitAudit initializes the audit logger
func InitAudit() {
	auditLogger = globalLogger.With().Str("log_type", "audit").Logger()
}

// Audit logs an audit event
func Audit(ctx context.Context, event AuditEvent) {
	requestID := GetRequestID(ctx)
	if requestID != "" && event.RequestID == "" {
		event.RequestID = requestID
	}

	// Get user info from context if not provided
	if event.UserID == "" {
		event.UserID = GetUserID(ctx)
	}
	if event.Username == "" {
		event.Username = GetUsername(ctx)
	}

	logEvent := auditLogger.Info()
	if !event.Success {
		logEvent = auditLogger.Warn()
	}

	logEvent.
		Str("action", string(event.Action)).
		Str("user_id", event.UserID).
		Str("username", event.Username).
		Str("resource", event.Resource).
		Str("resource_id", event.ResourceID).
		Str("client_ip", event.ClientIP).
		Str("request_id", event.RequestID).
		Bool("success", event.Success).
		Time("timestamp", time.Now().UTC())

	if event.Error != "" {
		logEvent.Str("error", event.Error)
	}

	if event.Duration > 0 {
		logEvent.Int64("duration_ms", event.Duration)
	}

	if event.Method != "" {
		logEvent.Str("method", event.Method)
	}

	if event.Path != "" {
		logEvent.Str("path", event.Path)
	}

	if event.StatusCode > 0 {
		logEvent.Int("status_code", event.StatusCode)
	}

	if len(event.Details) > 0 {
		logEvent.Interface("details", event.Details)
	}

	logEvent.Msg("Audit event")
}

// AuditResource logs an audit event for a mutation on a named resource
func AuditResource(ctx context.Context, action AuditAction, resource, resourceID string, success bool) {
	Audit(ctx, AuditEvent{
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Success:    success,
	})
}

// AuditRequest logs an API request audit event
func AuditRequest(ctx context.Context, method, path string, statusCode int, duration int64, userID, clientIP string) {
	success := statusCode < 400
	action := AuditActionAPIRequest
	if !success {
		action = AuditActionAPIError
	}

	Audit(ctx, AuditEvent{
		Action:     action,
		UserID:     userID,
		Resource:   "api",
		ResourceID: path,
		Method:     method,
		Path:       path,
		StatusCode: statusCode,
		Duration:   duration,
		ClientIP:   clientIP,
		Success:    success,
	})
}
