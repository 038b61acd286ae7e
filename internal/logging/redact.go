package logging

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/thoreinstein/slsah/internal/doctor"
)

// redact masks v when key names a secret, when v looks like an API key, or
// when v is a URL carrying one in its query.
func redact(key string, v any) any {
	if doctor.ShouldMask(key) {
		return doctor.MaskValue(fmt.Sprint(v))
	}
	switch s := v.(type) {
	case string:
		return redactString(s)
	case *url.URL:
		if s != nil {
			return doctor.MaskURL(s.String())
		}
	}
	return v
}

func redactString(s string) string {
	if doctor.LooksLikeSecret(s) {
		return doctor.MaskValue(s)
	}
	if strings.Contains(s, "://") {
		return doctor.MaskURL(s)
	}
	return s
}

// redactAttr is the slog ReplaceAttr hook for the JSON handlers.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if doctor.ShouldMask(a.Key) {
		return slog.String(a.Key, doctor.MaskValue(a.Value.String()))
	}
	if a.Value.Kind() != slog.KindString {
		return a
	}
	if s := redactString(a.Value.String()); s != a.Value.String() {
		return slog.String(a.Key, s)
	}
	return a
}
