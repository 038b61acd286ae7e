package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	ErrUnknownKey      = errors.New("unknown config key")
	ErrInvalidNumber   = errors.New("invalid number")
	ErrInvalidLanguage = errors.New("invalid language")
	ErrInvalidPath     = errors.New("invalid path")
	ErrOutOfRange      = errors.New("value out of range")
)

// Steam language names are lowercase API identifiers such as "english",
// "schinese" or "brazilian".
var languagePattern = regexp.MustCompile(`^[a-z]+$`)

// FieldError names the config key a validation failure belongs to.
type FieldError struct {
	Field string
	Value any
	Err   error
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: %v: %v", e.Field, e.Err, e.Value) }
func (e *FieldError) Unwrap() error { return e.Err }

type rule struct {
	key   string
	value func(*Config) any
	check func(v any) error
}

func inRange(lo, hi int) func(any) error {
	return func(v any) error {
		if n := v.(int); n < lo || n > hi {
			return errors.Wrapf(ErrOutOfRange, "want %d..%d", lo, hi)
		}
		return nil
	}
}

func pathRule(key string, get func(*Config) string) rule {
	return rule{key, func(c *Config) any { return get(c) }, func(v any) error { return checkPath(v.(string)) }}
}

// rules is evaluated in order; Validate reports every failing rule.
var rules = []rule{
	{KeySteamID, func(c *Config) any { return c.SteamID }, func(v any) error {
		if s := v.(string); s != "" {
			_, err := ParseSteamID(s)
			return err
		}
		return nil
	}},
	{KeyLanguage, func(c *Config) any { return c.Language }, func(v any) error {
		if !languagePattern.MatchString(v.(string)) {
			return ErrInvalidLanguage
		}
		return nil
	}},
	{KeyBackupRetention, func(c *Config) any { return c.BackupRetention }, inRange(1, 1000)},
	{KeyJobs, func(c *Config) any { return c.Jobs }, inRange(1, 64)},
	pathRule(KeySteamDir, func(c *Config) string { return c.SteamDir }),
	pathRule(KeyStatsDir, func(c *Config) string { return c.StatsDir }),
	pathRule(KeySLSsteamConfig, func(c *Config) string { return c.SLSsteamConfig }),
	pathRule(KeyCacheFile, func(c *Config) string { return c.CacheFile }),
	pathRule(KeyGoldbergDir, func(c *Config) string { return c.GoldbergDir }),
	pathRule(KeyStatsTemplate, func(c *Config) string { return c.StatsTemplate }),
}

// Validate returns one *FieldError per invalid setting, or nil.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}
	var errs []error
	for _, r := range rules {
		v := r.value(cfg)
		if err := r.check(v); err != nil {
			errs = append(errs, &FieldError{Field: r.key, Value: v, Err: err})
		}
	}
	return errs
}

// checkPath rejects syntactically unusable paths. Empty means "use the
// default" and existence is doctor's concern, not ours.
func checkPath(p string) error {
	if p == "" {
		return nil
	}
	if strings.ContainsRune(p, 0) {
		return errors.Wrap(ErrInvalidPath, "contains NUL")
	}
	if filepath.Clean(p) == "." {
		return ErrInvalidPath
	}
	return nil
}
