package audit

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Logger writes account lifecycle events as structured audit lines.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// elevated actions are logged at warn so they stand out in log search
var elevated = map[string]bool{
	"user.promote": true,
	"user.delete":  true,
}

// Record logs one audit event. Email values are masked.
// Its signature matches the service audit hook.
func (l *Logger) Record(action string, fields map[string]string) {
	evt := l.log.Info()
	if elevated[action] {
		evt = l.log.Warn()
	}
	evt = evt.Str("action", action)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := fields[k]
		if k == "email" {
			v = maskEmail(v)
		}
		evt = evt.Str(k, v)
	}
	evt.Msg("audit")
}

// maskEmail partially masks email for privacy in logs
func maskEmail(email string) string {
	if len(email) < 5 {
		return "***"
	}
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return email[:2] + "***"
	}
	if at < 2 {
		return email[:1] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}
