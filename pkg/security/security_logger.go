package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type EventType string

const (
	EventLoginSuccess       EventType = "login_success"
	EventLoginFailed        EventType = "login_failed"
	EventLoginBlocked       EventType = "login_blocked"
	EventLoginDisabled      EventType = "login_disabled_account"
	EventLogout             EventType = "logout"
	EventTokenRefreshed     EventType = "token_refreshed"
	EventTokenRevoked       EventType = "token_revoked"
	EventTokenReuse         EventType = "refresh_token_reuse"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventForbiddenAccess    EventType = "forbidden_access"
	EventBlockCreated       EventType = "block_created"
	EventPasswordChange     EventType = "password_change"
	EventTwoFactorEnabled   EventType = "two_factor_enabled"
	EventTwoFactorDisabled  EventType = "two_factor_disabled"
	EventUserCreated        EventType = "user_created"
	EventUserUpdated        EventType = "user_updated"
	EventUserDisabled       EventType = "user_disabled"
	EventUserDeleted        EventType = "user_deleted"
	EventDataExport         EventType = "data_export"
	EventServerError        EventType = "server_error"
)

// Severity is derived from the event type, never supplied by callers.
type Severity string

const (
	SeverityInfo   Severity = "INFO"
	SeverityMedium Severity = "MEDIUM"
	SeverityWarn   Severity = "WARN"
	SeverityHigh   Severity = "HIGH"
)

var eventSeverity = map[EventType]Severity{
	EventLoginSuccess:       SeverityInfo,
	EventLogout:             SeverityInfo,
	EventTokenRefreshed:     SeverityInfo,
	EventTokenRevoked:       SeverityInfo,
	EventPasswordChange:     SeverityMedium,
	EventTwoFactorEnabled:   SeverityMedium,
	EventDataExport:         SeverityMedium,
	EventServerError:        SeverityMedium,
	EventUserUpdated:        SeverityMedium,
	EventLoginFailed:        SeverityWarn,
	EventLoginDisabled:      SeverityWarn,
	EventRateLimitTriggered: SeverityWarn,
	EventForbiddenAccess:    SeverityWarn,
	EventLoginBlocked:       SeverityHigh,
	EventBlockCreated:       SeverityHigh,
	EventTokenReuse:         SeverityHigh,
	EventUnauthorizedAccess: SeverityHigh,
	EventTwoFactorDisabled:  SeverityHigh,
	EventUserCreated:        SeverityHigh,
	EventUserDisabled:       SeverityHigh,
	EventUserDeleted:        SeverityHigh,
}

// GetSeverity returns MEDIUM for unmapped event types.
func GetSeverity(eventType EventType) Severity {
	if s, ok := eventSeverity[eventType]; ok {
		return s
	}
	return SeverityMedium
}

type SecurityEvent struct {
	ID           int64                  `json:"id,omitempty"`
	Timestamp    time.Time              `json:"timestamp"`
	Service      string                 `json:"service"`
	Environment  string                 `json:"env"`
	Level        string                 `json:"level"`
	Severity     Severity               `json:"severity"`
	Event        EventType              `json:"event"`
	SubjectType  string                 `json:"subject_type,omitempty"`  // email | ip | user_id
	SubjectValue string                 `json:"subject_value,omitempty"` // masked or hashed
	IP           string                 `json:"ip,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// PersistFunc stores an event outside the process log stream.
type PersistFunc func(ctx context.Context, event SecurityEvent) error

// SecurityLogger writes audit events as structured zap entries and
// optionally persists them asynchronously.
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string

	mu          sync.RWMutex
	persistFunc PersistFunc
}

var (
	defaultLogger   *SecurityLogger
	defaultLoggerMu sync.Mutex
)

// InitSecurityLogger builds the process-wide security logger.
func InitSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	zl, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		zl, _ = zap.NewProduction()
	}

	sl := NewSecurityLogger(zl, serviceName, environment)

	defaultLoggerMu.Lock()
	defaultLogger = sl
	defaultLoggerMu.Unlock()
	return sl
}

// NewSecurityLogger wraps an existing zap logger. Tests pass zap.NewNop or an observer core.
func NewSecurityLogger(zl *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{zapLogger: zl, serviceName: serviceName, environment: environment}
}

func DefaultLogger() *SecurityLogger {
	defaultLoggerMu.Lock()
	sl := defaultLogger
	defaultLoggerMu.Unlock()
	if sl == nil {
		return InitSecurityLogger("recruitment-crm", "development")
	}
	return sl
}

func (sl *SecurityLogger) SetPersistFunc(f PersistFunc) {
	sl.mu.Lock()
	sl.persistFunc = f
	sl.mu.Unlock()
}

func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = sl.serviceName
	event.Environment = sl.environment
	event.Severity = GetSeverity(event.Event)

	level := zapcore.WarnLevel
	switch event.Severity {
	case SeverityInfo, SeverityMedium:
		level = zapcore.InfoLevel
	case SeverityHigh:
		level = zapcore.ErrorLevel
	}
	event.Level = level.String()

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
		zap.String("severity", string(event.Severity)),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	sl.zapLogger.Log(level, string(event.Event), fields...)

	sl.mu.RLock()
	persist := sl.persistFunc
	sl.mu.RUnlock()
	if persist == nil {
		return
	}
	go func(e SecurityEvent) {
		// detached from the request so a finished response does not cancel the write
		pctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := persist(pctx, e); err != nil {
			sl.zapLogger.Error("failed to persist security event", zap.Error(err))
		}
	}(event)
}

func (sl *SecurityLogger) LogLoginFailed(ctx context.Context, email, ip, userAgent, requestID, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginFailed,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"reason": reason},
	})
}

func (sl *SecurityLogger) LogLoginBlocked(ctx context.Context, email, ip, userAgent, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginBlocked,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"reason": "too_many_failed_attempts"},
	})
}

func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

func (sl *SecurityLogger) LogBlockCreated(ctx context.Context, subjectType, subjectValue, ip, requestID string, durationMinutes int) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventBlockCreated,
		SubjectType:  subjectType,
		SubjectValue: maskValue(subjectType, subjectValue),
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"duration_minutes": durationMinutes},
	})
}

// LogUserEvent records an action on a user account, keyed by hashed user id.
func (sl *SecurityLogger) LogUserEvent(ctx context.Context, event EventType, userID string, details map[string]interface{}) {
	sl.Log(ctx, SecurityEvent{
		Event:        event,
		SubjectType:  "user_id",
		SubjectValue: HashValue(userID),
		Details:      details,
	})
}

func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// MaskEmail keeps the first rune and the domain: "j***@example.com".
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	at := strings.IndexByte(email, '@')
	if at <= 1 {
		return "***" + email[1:]
	}
	return email[:1] + "***" + email[at:]
}

// HashValue returns the first 16 hex chars of a SHA-256 digest.
func HashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:8])
}

func maskValue(subjectType, value string) string {
	switch subjectType {
	case "email":
		return MaskEmail(value)
	case "ip":
		return value
	default:
		return HashValue(value)
	}
}
