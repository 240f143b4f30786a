package logger

import "strings"

const (
	// LevelDebug represents the debug severity level name.
	LevelDebug = "DEBUG"
	// LevelInfo represents the info severity level name.
	LevelInfo = "INFO"
	// LevelWarn represents the warning severity level name.
	LevelWarn = "WARN"
	// LevelError represents the error severity level name.
	LevelError = "ERROR"
)

var allowedLevels = map[string]string{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var allowedStatus = map[string]struct{}{
	"ok":        {},
	"fail":      {},
	"skip":      {},
	"cancelled": {},
}

var allowedOutcome = map[string]struct{}{
	"ok":        {},
	"fail":      {},
	"ignored":   {},
	"cancelled": {},
}

// Navigation token forms as reported by the exam codec.
var allowedForms = map[string]struct{}{
	"home":         {},
	"exam":         {},
	"year":         {},
	"rand":         {},
	"randyr":       {},
	"unrecognized": {},
}

func normalizeLevel(level string) string {
	if level == "" {
		return LevelInfo
	}
	if mapped, ok := allowedLevels[strings.ToLower(level)]; ok {
		return mapped
	}
	return strings.ToUpper(level)
}

// normalizeStatus lowercases status; unknown values are kept as-is.
func normalizeStatus(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if _, ok := allowedStatus[status]; ok {
		return status
	}
	if status == "error" {
		return "fail"
	}
	return status
}

func normalizeOutcome(outcome string) (string, bool) {
	return lookupEnum(allowedOutcome, outcome)
}

func normalizeForm(form string) (string, bool) {
	return lookupEnum(allowedForms, form)
}

func lookupEnum(set map[string]struct{}, v string) (string, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if _, ok := set[v]; !ok {
		return "", false
	}
	return v, true
}

var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"ts_unix_nano",
	"update_id",
	"user_id",
	"chat_id",
	"handler",
	"op",
	"token",
	"form",
	"exam",
	"year",
	"question",
	"outcome",
	"duration_ms",
	"url",
	"mode",
	"listen",
	"public_url",
	"path",
	"http_code",
	"db",
	"driver",
	"host",
	"port",
	"deliveries",
	"pruned",
	"err",
	"err_code",
	"cause",
}
